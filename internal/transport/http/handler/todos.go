package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/student-bubble/internal/application/todo"
	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/transport/http/middleware"
)

// TodoHandler handles todo endpoints.
type TodoHandler struct {
	svc todo.Service
}

func NewTodoHandler(svc todo.Service) *TodoHandler { return &TodoHandler{svc: svc} }

func (h *TodoHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	var req domain.CreateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.svc.Add(r.Context(), claims.UserID, req)
	if err != nil {
		httpError(w, err, "Error adding todo")
		return
	}
	writeJSON(w, http.StatusOK, TodoEnvelope{Message: "Todo added successfully", Todo: t})
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	items, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err, "Error fetching todos")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	var req domain.UpdateTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetCompleted(r.Context(), claims.UserID, chi.URLParam(r, "id"), req); err != nil {
		todoError(w, err, "Error updating todo")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Todo updated"})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	if err := h.svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "id")); err != nil {
		todoError(w, err, "Error deleting todo")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Todo deleted successfully"})
}

func todoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Not allowed")
	default:
		httpError(w, err, fallback)
	}
}
