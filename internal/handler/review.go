// internal/handler/review.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	service *service.ReviewService
}

func NewReviewHandler(service *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// CreateReview records a patient's review of a therapist.
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.CreateReviewInput
	if !decodeJSON(w, r, &input) {
		return
	}

	review, err := h.service.Create(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews supports optional ?therapist_id= and ?patient_id= filters.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.ListReviewsInput
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

	reviews, err := h.service.List(r.Context(), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}
