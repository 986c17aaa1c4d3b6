// internal/handler/user.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
)

// UserHandler covers admin-side user management within an organization.
type UserHandler struct {
	service *service.ProvisioningService
}

func NewUserHandler(service *service.ProvisioningService) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUser provisions a user with an organization role.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.CreateUserInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

// CreateTherapist provisions a user together with a therapist profile.
func (h *UserHandler) CreateTherapist(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.CreateTherapistInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.service.CreateTherapist(r.Context(), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, output)
}

// CreatePatient provisions a user together with a patient profile.
func (h *UserHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.CreatePatientInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.service.CreatePatient(r.Context(), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, output)
}

// ListUsers returns the organization's memberships with user records.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	members, err := h.service.ListUsers(r.Context(), authCtx.OrganizationID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, members)
}

type updateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// UpdateUserStatus activates or deactivates a member.
func (h *UserHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	var req updateUserStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUserStatus(r.Context(), authCtx.OrganizationID, userID, authCtx.User.ID, req.IsActive)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

type updateUserRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole changes the member's role, keeping the global role in step.
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	var req updateUserRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), authCtx.OrganizationID, userID, req.Role)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// RemoveUser evicts a member from the organization.
func (h *UserHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.service.RemoveUser(r.Context(), authCtx.OrganizationID, userID, authCtx.User.ID); err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
