package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/rostertrace/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Resolver serves the acquisition and lineage endpoints.
	Resolver handler.Resolver

	// Checks are run by GET /ready.
	Checks map[string]handler.ReadinessCheck

	// MetricsHandler serves GET /metrics. Nil disables the endpoint.
	MetricsHandler http.Handler

	// Metrics receives per-request observations. May be nil.
	Metrics AuditMetrics

	// Logger for request logging.
	Logger *slog.Logger

	// RateLimit is the per-IP request rate. Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the per-IP burst size.
	RateBurst int

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
//
// Order: Recover -> RequestID -> RateLimit -> Audit -> Handler.
// Health, readiness, version and /metrics skip rate limiting and audit.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	h := handler.New(handler.Options{
		Resolver: cfg.Resolver,
		Logger:   cfg.Logger,
		Checks:   cfg.Checks,
	})

	ops := Chain(h, Recover(cfg.Logger), RequestID())

	business := []Middleware{Recover(cfg.Logger), RequestID()}
	if cfg.RateLimit > 0 {
		business = append(business, RateLimit(RateLimitConfig{Rate: cfg.RateLimit, Burst: cfg.RateBurst}))
	}
	if cfg.EnableAudit {
		business = append(business, Audit(cfg.Logger, cfg.Metrics))
	}
	api := Chain(h, business...)

	mux := http.NewServeMux()

	mux.Handle("GET /health", ops)
	mux.Handle("GET /ready", ops)
	mux.Handle("GET /version", ops)

	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", Chain(cfg.MetricsHandler, Recover(cfg.Logger)))
	}

	mux.Handle("GET /v1/leagues/{league_id}/owners/{owner_id}/acquisitions", api)
	mux.Handle("DELETE /v1/leagues/{league_id}/owners/{owner_id}/acquisitions", api)
	mux.Handle("GET /v1/leagues/{league_id}/lineage", api)

	return mux
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		RateLimit:   20,
		RateBurst:   40,
		EnableAudit: true,
	}
}
