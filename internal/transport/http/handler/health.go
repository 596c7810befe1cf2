package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// StorePinger reports credential-store reachability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	store       StorePinger
	smsProvider string
	smsReady    bool
	issuerReady bool
}

func NewHealthHandler(store StorePinger, smsProvider string, smsReady, issuerReady bool) *HealthHandler {
	return &HealthHandler{
		store:       store,
		smsProvider: smsProvider,
		smsReady:    smsReady,
		issuerReady: issuerReady,
	}
}

type healthEnvelope struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	SMS       string `json:"sms"`
	Assertion string `json:"assertion"`
	Timestamp int64  `json:"timestamp"`
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "status":
		h.status(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *HealthHandler) status(w http.ResponseWriter, r *http.Request) {
	env := healthEnvelope{
		Status:    "healthy",
		Store:     "connected",
		SMS:       h.smsProvider + ":not configured",
		Assertion: "not configured",
		Timestamp: time.Now().Unix(),
	}
	if h.smsReady {
		env.SMS = h.smsProvider + ":configured"
	}
	if h.issuerReady {
		env.Assertion = "configured"
	}

	status := http.StatusOK
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		env.Status = "degraded"
		env.Store = "disconnected"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, env)
}
