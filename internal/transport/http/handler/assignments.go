package handler

import (
	"net/http"

	"github.com/student-bubble/internal/application/assignment"
	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/transport/http/middleware"
)

// AssignmentHandler handles assignment endpoints.
type AssignmentHandler struct {
	svc assignment.Service
}

func NewAssignmentHandler(svc assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{svc: svc}
}

func (h *AssignmentHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	var req domain.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.svc.Save(r.Context(), assignment.Owner{UserID: claims.UserID, Email: claims.Email}, req)
	if err != nil {
		httpError(w, err, "Error saving assignment")
		return
	}
	writeJSON(w, http.StatusOK, AssignmentEnvelope{Message: "Assignment saved successfully", AssignmentID: a.AssignmentID})
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	items, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err, "Error fetching assignments")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
