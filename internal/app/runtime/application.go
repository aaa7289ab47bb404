// Package runtime assembles the configured application: storage, services,
// HTTP handler, and server lifecycle.
package runtime

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MathHub-Labs/calc-service/internal/app/httpapi"
	"github.com/MathHub-Labs/calc-service/internal/app/metrics"
	"github.com/MathHub-Labs/calc-service/internal/app/services/history"
	"github.com/MathHub-Labs/calc-service/internal/app/services/users"
	"github.com/MathHub-Labs/calc-service/internal/app/storage"
	"github.com/MathHub-Labs/calc-service/internal/app/storage/memory"
	"github.com/MathHub-Labs/calc-service/internal/app/storage/postgres"
	"github.com/MathHub-Labs/calc-service/internal/auth"
	"github.com/MathHub-Labs/calc-service/internal/config"
	"github.com/MathHub-Labs/calc-service/pkg/logger"
)

// Application is the wired service and its HTTP server.
type Application struct {
	cfg    *config.Config
	log    *logger.Logger
	server *http.Server

	cleanup func() error
}

type stores struct {
	users   storage.UserStore
	history storage.HistoryStore
}

// New builds the application from configuration. A configured database URL
// selects PostgreSQL with migrations applied; otherwise the in-memory store
// is used.
func New(cfg *config.Config) (*Application, error) {
	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}).WithField("component", "runtime")

	st, cleanup, err := openStores(cfg, log)
	if err != nil {
		return nil, err
	}

	authSvc := auth.New(st.users, cfg.Auth, log.WithField("component", "auth"))
	userSvc := users.New(st.users, authSvc, log.WithField("component", "users"))
	historySvc := history.New(st.history, log.WithField("component", "history"))
	m := metrics.New()

	handler := httpapi.New(cfg, authSvc, userSvc, historySvc, m, log.WithField("component", "httpapi"))

	timeout := time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       2 * timeout,
	}

	return &Application{
		cfg:     cfg,
		log:     log,
		server:  server,
		cleanup: cleanup,
	}, nil
}

func openStores(cfg *config.Config, log *logger.Logger) (stores, func() error, error) {
	if cfg.Database.URL == "" {
		log.Warn("no database configured, using in-memory store")
		mem := memory.New()
		return stores{users: mem, history: mem}, func() error { return nil }, nil
	}

	db, err := postgres.Open(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return stores{}, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := postgres.Migrate(db); err != nil {
		db.Close()
		return stores{}, nil, fmt.Errorf("migrate database: %w", err)
	}

	store := postgres.New(db)
	return stores{users: store, history: store}, db.Close, nil
}

// Run serves HTTP until the listener fails or Shutdown is called.
func (a *Application) Run() error {
	a.log.WithField("addr", a.server.Addr).
		WithField("version", a.cfg.App.Version).
		Info("server starting")
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and releases resources.
func (a *Application) Shutdown(ctx context.Context) error {
	a.log.Info("server shutting down")
	err := a.server.Shutdown(ctx)
	if cerr := a.cleanup(); err == nil {
		err = cerr
	}
	return err
}
