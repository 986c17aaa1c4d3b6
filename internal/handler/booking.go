// internal/handler/booking.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/service"
	"github.com/google/uuid"
)

type BookingHandler struct {
	service *service.BookingService
}

func NewBookingHandler(service *service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// CreateBooking books a therapist for a time interval.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.CreateBookingInput
	if !decodeJSON(w, r, &input) {
		return
	}

	booking, err := h.service.Create(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// ListBookings returns the bookings visible to the caller, optionally
// filtered by ?status=, ?therapist_id= and ?patient_id=.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.ListBookingsInput
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.BookingStatus(raw)
		if !status.Valid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		input.Status = &status
	}
	if raw := r.URL.Query().Get("therapist_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid therapist_id")
			return
		}
		input.TherapistID = &id
	}
	if raw := r.URL.Query().Get("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid patient_id")
			return
		}
		input.PatientID = &id
	}

	bookings, err := h.service.List(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, ok := pathUUID(w, r, "bookingID")
	if !ok {
		return
	}

	booking, err := h.service.Get(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, bookingID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

type transitionBookingRequest struct {
	Status string `json:"status"`
}

// TransitionBooking moves a booking along its lifecycle.
func (h *BookingHandler) TransitionBooking(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, ok := pathUUID(w, r, "bookingID")
	if !ok {
		return
	}

	var req transitionBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.Transition(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, bookingID, model.BookingStatus(req.Status))
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// CancelBooking is the DELETE form of the cancel transition. The row stays;
// only the status changes.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, ok := pathUUID(w, r, "bookingID")
	if !ok {
		return
	}

	booking, err := h.service.Transition(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, bookingID, model.BookingCancelled)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}
