package handler

import (
	"net/http"

	"github.com/student-bubble/internal/application/note"
	"github.com/student-bubble/internal/domain"
	"github.com/student-bubble/internal/transport/http/middleware"
)

// NoteHandler handles file uploads and text notes.
type NoteHandler struct {
	svc      note.Service
	maxBytes int64
}

func NewNoteHandler(svc note.Service, maxUploadBytes int64) *NoteHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &NoteHandler{svc: svc, maxBytes: maxUploadBytes}
}

func (h *NoteHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	n, err := h.svc.Upload(r.Context(), note.UploadInput{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		UserID:      claims.UserID,
	})
	if err != nil {
		httpError(w, err, "File upload failed")
		return
	}
	writeJSON(w, http.StatusOK, UploadEnvelope{
		Message: "Note uploaded & saved successfully",
		FileURL: *n.FileURL,
		NoteID:  n.NoteID,
	})
}

func (h *NoteHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	items, err := h.svc.ListUploads(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err, "Could not list uploads")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	var req domain.SaveNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if _, err := h.svc.Save(r.Context(), claims.UserID, req); err != nil {
		httpError(w, err, "Error saving note")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Note saved successfully"})
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token")
		return
	}
	notes, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err, "Error fetching notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}
