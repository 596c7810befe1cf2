package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukaan-app/otp-api/internal/domain"
	"github.com/dukaan-app/otp-api/internal/infrastructure/firebase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, token string) (*firebase.Payload, error) {
	args := m.Called(ctx, token)
	if p, _ := args.Get(0).(*firebase.Payload); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTokenIssuer struct{ mock.Mock }

func (m *mockTokenIssuer) IssueToken(ctx context.Context, identity string) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func postExchange(h *ExchangeHandler, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/v1/token/exchange", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Exchange(rec, req)
	return rec
}

func TestExchange_HappyPath(t *testing.T) {
	verifier := &mockVerifier{}
	issuer := &mockTokenIssuer{}
	verifier.On("Verify", mock.Anything, "provider-token").
		Return(&firebase.Payload{UID: "u1", Phone: "+919999999999"}, nil)
	issuer.On("IssueToken", mock.Anything, "+919999999999").Return("custom-token", nil)

	rec := postExchange(NewExchangeHandler(verifier, issuer), map[string]string{"idToken": "provider-token"})

	require.Equal(t, http.StatusOK, rec.Code)
	var env exchangeEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "custom-token", env.CustomToken)
	assert.Equal(t, "+919999999999", env.Phone)
}

func TestExchange_FallsBackToUID(t *testing.T) {
	verifier := &mockVerifier{}
	issuer := &mockTokenIssuer{}
	verifier.On("Verify", mock.Anything, "provider-token").
		Return(&firebase.Payload{UID: "u1"}, nil)
	issuer.On("IssueToken", mock.Anything, "u1").Return("custom-token", nil)

	rec := postExchange(NewExchangeHandler(verifier, issuer), map[string]string{"idToken": "provider-token"})
	assert.Equal(t, http.StatusOK, rec.Code)
	issuer.AssertExpectations(t)
}

func TestExchange_InvalidToken(t *testing.T) {
	verifier := &mockVerifier{}
	verifier.On("Verify", mock.Anything, "bad").Return(nil, domain.ErrUnauthorized)

	rec := postExchange(NewExchangeHandler(verifier, &mockTokenIssuer{}), map[string]string{"idToken": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExchange_MissingToken(t *testing.T) {
	rec := postExchange(NewExchangeHandler(&mockVerifier{}, &mockTokenIssuer{}), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExchange_NotConfigured(t *testing.T) {
	rec := postExchange(NewExchangeHandler(nil, nil), map[string]string{"idToken": "x"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
