// internal/handler/organization.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/service"
)

type OrganizationHandler struct {
	service *service.OrganizationService
}

func NewOrganizationHandler(service *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// CreateOrganization provisions a new tenant. Super admin only; the route
// gate enforces that.
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var input service.CreateOrganizationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	org, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, org)
}

func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, orgs)
}

func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, ok := pathUUID(w, r, "orgID")
	if !ok {
		return
	}

	org, err := h.service.Get(r.Context(), orgID)
	if err != nil {
		handleError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, org)
}
