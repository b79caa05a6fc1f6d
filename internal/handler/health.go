package handler

import (
	"net/http"

	"github.com/58nights/backend/internal/model"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health. It has no dependencies and always reports ok.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: model.FormatTimestamp(h.now()),
	})
}
