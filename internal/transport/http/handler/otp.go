package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukaan-app/otp-api/internal/application/otp"
	"github.com/dukaan-app/otp-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// OTPHandler handles passcode issuance and verification endpoints.
type OTPHandler struct {
	svc otp.Service
	// diagnosticEnabled gates the code-echoing issuance path; it is forced off
	// in production.
	diagnosticEnabled bool
}

func NewOTPHandler(svc otp.Service, diagnosticEnabled bool) *OTPHandler {
	return &OTPHandler{svc: svc, diagnosticEnabled: diagnosticEnabled}
}

type sendRequest struct {
	Phone string `json:"phone"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (h *OTPHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "send":
		h.send(w, r)
	case "send-test":
		h.sendTest(w, r)
	case "verify":
		h.verify(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *OTPHandler) send(w http.ResponseWriter, r *http.Request) {
	phone, ok := decodePhone(w, r)
	if !ok {
		return
	}
	res, err := h.svc.Issue(r.Context(), phone)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IssueEnvelope{
		Message:   "OTP sent successfully",
		Phone:     res.Phone,
		ExpiresIn: res.ExpiresIn,
	})
}

func (h *OTPHandler) sendTest(w http.ResponseWriter, r *http.Request) {
	if !h.diagnosticEnabled {
		writeError(w, http.StatusNotFound, "not available")
		return
	}
	phone, ok := decodePhone(w, r)
	if !ok {
		return
	}
	res, err := h.svc.IssueDiagnostic(r.Context(), phone)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IssueEnvelope{
		Message:   "OTP stored successfully (TEST MODE - no SMS sent)",
		Phone:     res.Phone,
		OTP:       res.Code,
		ExpiresIn: res.ExpiresIn,
	})
}

func (h *OTPHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Phone(req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.OTP == "" {
		writeError(w, http.StatusBadRequest, "otp is required")
		return
	}
	res, err := h.svc.Verify(r.Context(), req.Phone, req.OTP)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{
		Message:     "OTP verified successfully",
		Status:      "success",
		Phone:       res.Phone,
		CustomToken: res.AssertionToken,
	})
}

func decodePhone(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if err := validate.Phone(req.Phone); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return req.Phone, true
}
