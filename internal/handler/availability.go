// internal/handler/availability.go
package handler

import (
	"net/http"
	"time"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	service *service.AvailabilityService
}

func NewAvailabilityHandler(service *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// CreateSlot adds an availability slot for a therapist.
func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.CreateSlotInput
	if !decodeJSON(w, r, &input) {
		return
	}

	slot, err := h.service.Create(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, slot)
}

// ListSlots supports optional ?therapist_id= and ?date= (YYYY-MM-DD) filters.
func (h *AvailabilityHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.ListSlotsInput
	if raw := r.URL.Query().Get("therapist_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid therapist_id")
			return
		}
		input.TherapistID = &id
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	slots, err := h.service.List(r.Context(), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, slots)
}

// DeleteSlot removes an availability slot.
func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	slotID, ok := pathUUID(w, r, "slotID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, slotID); err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
