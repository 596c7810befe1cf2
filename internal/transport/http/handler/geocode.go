package handler

import (
	"context"
	"encoding/json"
	"net/http"
)

// ReverseGeocoder resolves coordinates to an address document.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon string) (json.RawMessage, error)
}

// GeocodeHandler is a stateless passthrough to the reverse-geocoding upstream.
type GeocodeHandler struct {
	client ReverseGeocoder
}

func NewGeocodeHandler(client ReverseGeocoder) *GeocodeHandler {
	return &GeocodeHandler{client: client}
}

func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	doc, err := h.client.Reverse(r.Context(), lat, lon)
	if err != nil {
		writeError(w, http.StatusBadGateway, "reverse geocoding unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
