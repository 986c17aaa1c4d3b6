// internal/handler/invitation.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
)

type InvitationHandler struct {
	service *service.InvitationService
}

func NewInvitationHandler(service *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

// Invite creates a pending invitation and emails the invitee.
func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input service.InviteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	invitation, err := h.service.Invite(r.Context(), actorFrom(authCtx), authCtx.OrganizationID, input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, invitation)
}

func (h *InvitationHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := middleware.AuthContextFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	invitations, err := h.service.List(r.Context(), authCtx.OrganizationID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, invitations)
}

// AcceptInvitation joins the calling user to the inviting organization.
// This route is outside the organization scope: the caller is not a member
// yet, only authenticated.
func (h *InvitationHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	invitationID, ok := pathUUID(w, r, "invitationID")
	if !ok {
		return
	}

	member, err := h.service.Accept(r.Context(), user, invitationID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, member)
}

// RejectInvitation declines a pending invitation.
func (h *InvitationHandler) RejectInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	invitationID, ok := pathUUID(w, r, "invitationID")
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), user, invitationID); err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}
