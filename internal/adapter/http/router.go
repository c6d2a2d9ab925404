package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/accountpro/bookkeeper/internal/adapter/http/handler"
	"github.com/accountpro/bookkeeper/internal/adapter/http/middleware"
	"github.com/accountpro/bookkeeper/internal/infrastructure/metrics"
	"github.com/accountpro/bookkeeper/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	VoucherHandler   *handler.VoucherHandler
	CompanyHandler   *handler.CompanyHandler
	LedgerHandler    *handler.LedgerHandler
	ScriptHandler    *handler.ScriptHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/export", cfg.AccountHandler.Export)
			r.Get("/{number}", cfg.AccountHandler.Get)
			r.Get("/{number}/statement", cfg.AccountHandler.Statement)
		})

		// Vouchers
		r.Route("/vouchers", func(r chi.Router) {
			r.Post("/", cfg.VoucherHandler.Create)
			r.Get("/", cfg.VoucherHandler.List)
			r.Post("/validate", cfg.VoucherHandler.Validate)
			r.Get("/next-number", cfg.VoucherHandler.NextNumber)
			r.Get("/{id}", cfg.VoucherHandler.Get)
			r.Delete("/{id}", cfg.VoucherHandler.Delete)
			r.Post("/{id}/reverse", cfg.VoucherHandler.Reverse)
		})

		r.Get("/company", cfg.CompanyHandler.Get)
		r.Put("/company", cfg.CompanyHandler.Update)

		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)
		r.Get("/ledger/trial-balance", cfg.LedgerHandler.TrialBalance)

		if cfg.ScriptHandler != nil {
			r.Post("/scripts/{action}", cfg.ScriptHandler.Run)
		}
	})

	return r
}
