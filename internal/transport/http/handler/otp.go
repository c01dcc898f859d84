package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/student-bubble/internal/application/auth"
	"github.com/student-bubble/internal/domain"
)

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// OTPHandler handles the email one-time-password endpoints.
type OTPHandler struct {
	svc auth.Service
}

func NewOTPHandler(svc auth.Service) *OTPHandler { return &OTPHandler{svc: svc} }

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email required")
		return
	}
	if err := h.svc.SendOTP(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "Email required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error sending OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	outcome, err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		slog.Error("otp verification failed", "identity", req.Email, "err", err)
		writeError(w, http.StatusInternalServerError, "Error verifying OTP")
		return
	}
	switch outcome {
	case domain.OtpVerified:
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP verified successfully"})
	case domain.OtpExpired:
		writeError(w, http.StatusBadRequest, "OTP expired")
	case domain.OtpMismatch:
		writeError(w, http.StatusBadRequest, "Invalid OTP")
	default:
		writeError(w, http.StatusBadRequest, "No OTP found")
	}
}
