// internal/handler/therapist.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
)

type TherapistHandler struct {
	service *service.TherapistService
}

func NewTherapistHandler(service *service.TherapistService) *TherapistHandler {
	return &TherapistHandler{service: service}
}

// ListTherapists supports an optional ?verification= filter.
func (h *TherapistHandler) ListTherapists(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	therapists, err := h.service.List(r.Context(), authCtx.OrganizationID, r.URL.Query().Get("verification"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, therapists)
}

func (h *TherapistHandler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	therapistID, ok := pathUUID(w, r, "therapistID")
	if !ok {
		return
	}

	therapist, err := h.service.Get(r.Context(), authCtx.OrganizationID, therapistID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, therapist)
}

// UpdateTherapist applies a partial profile update.
func (h *TherapistHandler) UpdateTherapist(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	therapistID, ok := pathUUID(w, r, "therapistID")
	if !ok {
		return
	}

	var input service.UpdateTherapistInput
	if !decodeJSON(w, r, &input) {
		return
	}

	therapist, err := h.service.Update(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, therapistID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, therapist)
}

type setVerificationRequest struct {
	Verification string `json:"verification"`
}

// SetVerification moves a therapist through the verification workflow.
func (h *TherapistHandler) SetVerification(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	therapistID, ok := pathUUID(w, r, "therapistID")
	if !ok {
		return
	}

	var req setVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	therapist, err := h.service.SetVerification(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, therapistID, req.Verification)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, therapist)
}
