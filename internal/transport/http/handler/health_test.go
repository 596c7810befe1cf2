package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func healthRouter(h *HealthHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/health-check/{action}", h.Ping)
	return r
}

func TestHealth_Ping(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, "fast2sms", true, true)
	rec := httptest.NewRecorder()
	healthRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestHealth_StatusHealthy(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, "fast2sms", true, false)
	rec := httptest.NewRecorder()
	healthRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health-check/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env healthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "healthy", env.Status)
	assert.Equal(t, "connected", env.Store)
	assert.Equal(t, "fast2sms:configured", env.SMS)
	assert.Equal(t, "not configured", env.Assertion)
}

func TestHealth_StatusStoreDown(t *testing.T) {
	h := NewHealthHandler(fakePinger{err: errors.New("timeout")}, "sns", false, false)
	rec := httptest.NewRecorder()
	healthRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health-check/status", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var env healthEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "degraded", env.Status)
	assert.Equal(t, "disconnected", env.Store)
}

func TestHealth_UnknownAction(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, "fast2sms", false, false)
	rec := httptest.NewRecorder()
	healthRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health-check/metrics", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
