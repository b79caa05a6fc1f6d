package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Handler carries the cross-cutting pieces shared by every route.
type Handler struct {
	corsOrigin string
	now        func() time.Time
}

// New creates a Handler. corsOrigin is sent as Access-Control-Allow-Origin;
// "*" allows any origin.
func New(corsOrigin string) *Handler {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Handler{corsOrigin: corsOrigin, now: time.Now}
}

// CORS sets the cross-origin headers on every response and answers
// preflight OPTIONS requests with 204 without calling next.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Key")
		if h.corsOrigin != "*" {
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
