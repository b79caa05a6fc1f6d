// Package handler is the serverless entry point for POST /api/contact.
// It relays submissions without a backup log.
package handler

import (
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/58nights/backend/internal/config"
	apihandler "github.com/58nights/backend/internal/handler"
	"github.com/58nights/backend/internal/logging"
	"github.com/58nights/backend/internal/notify"
	"github.com/58nights/backend/internal/service"
)

var (
	once    sync.Once
	handler http.Handler
	initErr error
)

func setup() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		initErr = err
		return
	}
	logging.Setup(cfg.LogLevel)

	notifier, err := notify.New(cfg)
	if err != nil {
		initErr = err
		return
	}

	// No CORS layer: every method other than POST, OPTIONS included, gets 405.
	contact := apihandler.NewContactHandler(service.NewContactService(nil, notifier))
	handler = apihandler.APIHeaders(http.HandlerFunc(contact.Submit))
}

// Handler is called by the platform for every request to this function.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		slog.Error("contact function misconfigured", "error", initErr)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"Failed to send email. Please try again later."}` + "\n"))
		return
	}
	handler.ServeHTTP(w, r)
}
