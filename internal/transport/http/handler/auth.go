package handler

import (
	"errors"
	"net/http"

	"github.com/student-bubble/internal/application/auth"
	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/transport/http/middleware"
)

// AuthHandler handles signup, login and session checks.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields required")
		return
	}
	token, _, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeError(w, http.StatusConflict, "Email already registered")
			return
		}
		httpError(w, err, "Error creating user")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Message: "Signup successful", Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, _, err := h.svc.Login(r.Context(), req)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusBadRequest, "User not found")
	case errors.Is(err, auth.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, "Invalid password")
	case err != nil:
		httpError(w, err, "Server error")
	default:
		writeJSON(w, http.StatusOK, AuthEnvelope{Message: "Login successful", Token: token})
	}
}

func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Session invalid or expired")
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{Message: "Session valid", UserID: claims.UserID})
}
