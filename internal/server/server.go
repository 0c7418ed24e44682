// Package server exposes the nutrition query service over HTTP. It is a thin
// JSON layer; all computation lives in the nutrition package.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/rs/cors"

	"nutriview/nutrition"
)

// Handler bundles the API endpoints around one query service.
type Handler struct {
	service *nutrition.Service
	logger  *log.Logger
}

// New creates the HTTP handler set for the given service.
func New(service *nutrition.Service, logger *log.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes builds the API mux with permissive CORS, matching the browser
// frontend the service was built for.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/metadata", h.Metadata)
	mux.HandleFunc("/api/projection", h.Projection)
	return cors.AllowAll().Handler(mux)
}

// Metadata serves the feature list and the display table.
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.service.Metadata())
}

type projectionRequest struct {
	Weights nutrition.FeatureWeights `json:"weights"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Projection computes a weighted embedding for the posted weight map.
func (h *Handler) Projection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// An empty body means default weights, matching an empty weight map.
	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	result, err := h.service.Projection(req.Weights)
	if err != nil {
		h.logf("rejected projection request: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, result)
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
