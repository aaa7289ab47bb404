// Package httpapi exposes the REST surface of the calculator service.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MathHub-Labs/calc-service/internal/app/metrics"
	"github.com/MathHub-Labs/calc-service/internal/app/services/history"
	"github.com/MathHub-Labs/calc-service/internal/app/services/users"
	"github.com/MathHub-Labs/calc-service/internal/auth"
	"github.com/MathHub-Labs/calc-service/internal/config"
	"github.com/MathHub-Labs/calc-service/internal/httputil"
	"github.com/MathHub-Labs/calc-service/internal/middleware"
	"github.com/MathHub-Labs/calc-service/pkg/logger"
)

// Handler bundles the services behind the REST API.
type Handler struct {
	cfg     *config.Config
	auth    *auth.Service
	users   *users.Service
	history *history.Service
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New constructs the API handler.
func New(cfg *config.Config, authSvc *auth.Service, userSvc *users.Service, historySvc *history.Service, m *metrics.Metrics, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		cfg:     cfg,
		auth:    authSvc,
		users:   userSvc,
		history: historySvc,
		metrics: m,
		log:     log,
	}
}

// Router builds the full route table with middleware applied.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.handleMe).Methods(http.MethodGet)
	api.HandleFunc("/auth/logout", h.handleLogout).Methods(http.MethodPost)

	api.HandleFunc("/calculator/basic", h.handleBasic).Methods(http.MethodPost)
	api.HandleFunc("/calculator/advanced", h.handleAdvanced).Methods(http.MethodPost)
	api.HandleFunc("/calculator/convert", h.handleConvert).Methods(http.MethodPost)
	api.HandleFunc("/calculator/finance", h.handleFinance).Methods(http.MethodPost)
	api.HandleFunc("/calculator/operations", h.handleOperations).Methods(http.MethodGet)

	api.HandleFunc("/history", h.handleHistoryList).Methods(http.MethodGet)
	api.HandleFunc("/history", h.handleHistoryDelete).Methods(http.MethodDelete)
	api.HandleFunc("/history/stats", h.handleHistoryStats).Methods(http.MethodGet)
	api.HandleFunc("/history/export/csv", h.handleExportCSV).Methods(http.MethodGet)
	api.HandleFunc("/history/export/pdf", h.handleExportPDF).Methods(http.MethodGet)
	api.HandleFunc("/history/{id}", h.handleHistoryGet).Methods(http.MethodGet)

	var handler http.Handler = r
	if h.cfg.HTTP.RateLimitPerSec > 0 {
		rl := middleware.NewRateLimiter(float64(h.cfg.HTTP.RateLimitPerSec), h.cfg.HTTP.RateLimitBurst)
		handler = rl.Middleware(handler)
	}
	handler = middleware.Auth(h.auth, h.cfg.App.Debug,
		"/health",
		"/metrics",
		"/api/auth/register",
		"/api/auth/login",
		"/api/calculator/operations",
	)(handler)
	handler = middleware.CORS(h.cfg.HTTP.CORSOrigins)(handler)
	handler = h.metrics.InstrumentHandler("api", handler)
	return handler
}

// writeError writes the error envelope, surfacing wrapped causes only when
// the app runs in debug mode.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err, h.cfg.App.Debug)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}
