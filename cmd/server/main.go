package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/58nights/backend/internal/config"
	"github.com/58nights/backend/internal/handler"
	"github.com/58nights/backend/internal/logging"
	"github.com/58nights/backend/internal/notify"
	"github.com/58nights/backend/internal/repository"
	"github.com/58nights/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	repo, pool := openStore(cfg)
	if pool != nil {
		defer pool.Close()
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		logging.Fatal("failed to configure notifier", "error", err)
	}

	contactService := service.NewContactService(repo, notifier)

	h := handler.New(cfg.CORSOrigin)
	contactHandler := handler.NewContactHandler(contactService)
	router := handler.NewRouter(h, contactHandler, handler.RouterConfig{
		AdminKey:  cfg.AdminKey,
		StaticDir: cfg.StaticDir,
	})

	if cfg.AdminKey == "" {
		slog.Warn("ADMIN_KEY is not set; /api/submissions will reject every request")
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("58Nights backend running",
			"url", "http://localhost"+cfg.Addr(),
			"notifier", cfg.Notifier,
			"store", cfg.Store,
			"static_dir", cfg.StaticDir,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openStore builds the backup log selected by STORE. The returned repository
// is nil for STORE=none; the pool is non-nil only for STORE=postgres.
func openStore(cfg *config.Config) (repository.SubmissionRepository, *pgxpool.Pool) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := repository.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		return repository.NewPgSubmissionRepository(pool), pool
	case config.StoreNone:
		return nil, nil
	default:
		return repository.NewFileSubmissionRepository(cfg.SubmissionsFile), nil
	}
}
