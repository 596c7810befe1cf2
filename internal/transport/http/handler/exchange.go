package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dukaan-app/otp-api/internal/application/otp"
	"github.com/dukaan-app/otp-api/internal/infrastructure/firebase"
	"github.com/dukaan-app/otp-api/internal/pkg/validate"
)

// IDTokenVerifier validates a provider-issued ID token.
type IDTokenVerifier interface {
	Verify(ctx context.Context, token string) (*firebase.Payload, error)
}

// ExchangeHandler swaps a hosted-login ID token for a custom assertion token.
// Used by clients that completed phone verification at the identity provider
// instead of through the OTP endpoints.
type ExchangeHandler struct {
	verifier IDTokenVerifier
	issuer   otp.AssertionIssuer
}

func NewExchangeHandler(verifier IDTokenVerifier, issuer otp.AssertionIssuer) *ExchangeHandler {
	return &ExchangeHandler{verifier: verifier, issuer: issuer}
}

type exchangeRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type exchangeEnvelope struct {
	CustomToken string `json:"firebaseCustomToken"`
	Phone       string `json:"phone,omitempty"`
}

func (h *ExchangeHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil || h.issuer == nil {
		writeError(w, http.StatusInternalServerError, "token exchange not configured")
		return
	}
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		httpError(w, err)
		return
	}

	identity := payload.Phone
	if identity == "" {
		identity = payload.UID
	}
	token, err := h.issuer.IssueToken(r.Context(), identity)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeEnvelope{CustomToken: token, Phone: payload.Phone})
}
