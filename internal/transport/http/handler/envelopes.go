package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/student-bubble/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Errors use it too.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// AuthEnvelope wraps signup/login responses.
type AuthEnvelope struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// SessionEnvelope wraps check-session responses.
type SessionEnvelope struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// UploadEnvelope wraps note upload responses.
type UploadEnvelope struct {
	Message string `json:"message"`
	FileURL string `json:"fileUrl"`
	NoteID  string `json:"noteId"`
}

// AssignmentEnvelope wraps save-assignment responses.
type AssignmentEnvelope struct {
	Message      string `json:"message"`
	AssignmentID string `json:"assignmentId"`
}

// TodoEnvelope wraps add-todo responses.
type TodoEnvelope struct {
	Message string       `json:"message"`
	Todo    *domain.Todo `json:"todo"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}

// httpError maps domain sentinels to a status code. Unclassified errors are
// logged and answered with fallback so internals never reach the client.
func httpError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error(fallback, "err", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
