// internal/handler/patient.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
)

type PatientHandler struct {
	service *service.PatientService
}

func NewPatientHandler(service *service.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patients, err := h.service.List(r.Context(), authCtx.OrganizationID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patients)
}

func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patientID, ok := pathUUID(w, r, "patientID")
	if !ok {
		return
	}

	patient, err := h.service.Get(r.Context(), authCtx.OrganizationID, patientID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}

// UpdatePatient applies a partial profile update.
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patientID, ok := pathUUID(w, r, "patientID")
	if !ok {
		return
	}

	var input service.UpdatePatientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	patient, err := h.service.Update(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, patientID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, patient)
}
