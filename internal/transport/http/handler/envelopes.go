package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukaan-app/otp-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// IssueEnvelope wraps issuance responses. OTP is populated only by the
// diagnostic path in non-production environments.
type IssueEnvelope struct {
	Message   string `json:"message"`
	Phone     string `json:"phone"`
	OTP       string `json:"otp,omitempty"`
	ExpiresIn int    `json:"expires_in"`
}

// VerifyEnvelope wraps verification responses.
type VerifyEnvelope struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	Phone       string `json:"phone"`
	CustomToken string `json:"custom_token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinels to transport status codes. The mapping lives
// only at this boundary; services deal in sentinels.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrExpired),
		errors.Is(err, domain.ErrMismatch),
		errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrDelivery):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
