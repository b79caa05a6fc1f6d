package handler

import (
	"net/http"

	"github.com/58nights/backend/pkg/auth"
)

// RouterConfig holds the route-level settings.
type RouterConfig struct {
	AdminKey  string
	StaticDir string // serve frontend files from here when non-empty
}

// NewRouter wires the API routes, the optional static file server and the
// shared middleware.
func NewRouter(h *Handler, contact *ContactHandler, cfg RouterConfig) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /api/health", h.Health)
	// No method in the pattern: Submit answers non-POST methods with a JSON 405.
	api.HandleFunc("/api/contact", contact.Submit)
	api.Handle("GET /api/submissions", auth.RequireAdminKey(cfg.AdminKey)(http.HandlerFunc(contact.Submissions)))

	mux := http.NewServeMux()
	mux.Handle("/api/", APIHeaders(api))
	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return RequestLogger(h.CORS(mux))
}
