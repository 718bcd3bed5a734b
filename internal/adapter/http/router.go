package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/finboard/internal/adapter/http/handler"
	"github.com/iho/finboard/internal/adapter/http/middleware"
	"github.com/iho/finboard/internal/infrastructure/auth"
	"github.com/iho/finboard/internal/infrastructure/metrics"
	"github.com/iho/finboard/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler      *handler.AuthHandler
	EntryHandler     *handler.EntryHandler
	TransferHandler  *handler.TransferHandler
	LedgerHandler    *handler.LedgerHandler
	HoldingHandler   *handler.HoldingHandler
	TradeHandler     *handler.TradeHandler
	PortfolioHandler *handler.PortfolioHandler
	HealthHandler    *handler.HealthHandler

	JWTManager       *auth.JWTManager
	PinVerifier      middleware.PinVerifier
	Metrics          *metrics.Metrics
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			pinGuard := middleware.NewPinMiddleware(cfg.PinVerifier, cfg.Metrics)

			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/pin", cfg.AuthHandler.SetPin)

			// Ledger
			r.Route("/entries", func(r chi.Router) {
				r.Post("/", cfg.EntryHandler.Create)
				r.Get("/", cfg.EntryHandler.List)
				r.Get("/totals", cfg.EntryHandler.Totals)
				r.With(pinGuard.Wrap).Delete("/{id}", cfg.EntryHandler.Delete)
			})
			r.Post("/transfers", cfg.TransferHandler.Allocate)
			r.Get("/balances", cfg.LedgerHandler.Balances)
			r.Get("/series", cfg.LedgerHandler.Series)
			r.Get("/consistency", cfg.LedgerHandler.Consistency)

			// Portfolio
			r.Route("/holdings", func(r chi.Router) {
				r.Post("/", cfg.HoldingHandler.Purchase)
				r.Get("/", cfg.HoldingHandler.List)
				r.Get("/{id}", cfg.HoldingHandler.Get)
				r.Post("/{id}/settle", cfg.HoldingHandler.Settle)
				r.Post("/{id}/dividends", cfg.HoldingHandler.Dividend)
				r.Put("/{id}/price", cfg.HoldingHandler.UpdatePrice)
				r.With(pinGuard.Wrap).Delete("/{id}", cfg.HoldingHandler.Delete)
			})
			r.Get("/portfolio/summary", cfg.PortfolioHandler.Summary)
			r.Get("/portfolio/allocation", cfg.PortfolioHandler.Allocation)

			// Trading journal
			r.Route("/trades", func(r chi.Router) {
				r.Post("/", cfg.TradeHandler.Create)
				r.Get("/", cfg.TradeHandler.List)
				r.Get("/stats", cfg.TradeHandler.Stats)
				r.With(pinGuard.Wrap).Delete("/{id}", cfg.TradeHandler.Delete)
			})
		})
	})

	return r
}
