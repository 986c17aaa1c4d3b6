// internal/handler/auth.go
package handler

import (
	"net/http"

	"github.com/clearmind-health/clearmind/internal/middleware"
	"github.com/clearmind-health/clearmind/internal/service"
)

type AuthHandler struct {
	service *service.UserService
}

func NewAuthHandler(service *service.UserService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Signup registers a new patient account and returns a session token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.SignupInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.service.Signup(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, output)
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	output, err := h.service.Login(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, output)
}

// VerifyEmail confirms an email address with the code from the verification
// link. Public: the link lands here before the user has a session.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	userID := r.URL.Query().Get("user")
	if code == "" || userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing code or user")
		return
	}

	if err := h.service.VerifyEmail(r.Context(), service.VerifyInput{
		UserID: userID,
		Code:   code,
	}); err != nil {
		handleError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, BaseResponse{Ok: true})
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
