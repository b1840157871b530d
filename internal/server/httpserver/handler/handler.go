package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/telemetry/logger"
)

// StatusClientClosedRequest is reported when the caller went away before
// the resolution finished.
const StatusClientClosedRequest = 499

// Resolver is the subset of service.ProvenanceService the handlers use.
type Resolver interface {
	Resolve(ctx context.Context, req *service.ResolveRequest) (*service.Resolution, error)
	Lineage(ctx context.Context, leagueID string) ([]domain.SeasonNode, error)
	Invalidate(ctx context.Context, leagueID, participantID string) error
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Options configures a Handler.
type Options struct {
	Resolver Resolver
	Logger   *slog.Logger

	// Checks are run by GET /ready, keyed by dependency name.
	Checks map[string]ReadinessCheck
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	resolver Resolver
	checks   map[string]ReadinessCheck
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a new Handler.
func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	h := &Handler{
		resolver: opts.Resolver,
		checks:   opts.Checks,
		logger:   opts.Logger,
		mux:      http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
	h.mux.HandleFunc("GET /version", h.handleVersion)

	h.mux.HandleFunc("GET /v1/leagues/{league_id}/owners/{owner_id}/acquisitions", h.handleGetAcquisitions)
	h.mux.HandleFunc("DELETE /v1/leagues/{league_id}/owners/{owner_id}/acquisitions", h.handleInvalidateAcquisitions)
	h.mux.HandleFunc("GET /v1/leagues/{league_id}/lineage", h.handleGetLineage)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.logger.Error("failed to encode response", "request_id", requestID, "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := logger.RequestIDFromContext(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details))
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsCanceled(err) {
		code := domain.GetErrorCode(err)
		if code == "" {
			code = domain.ErrResolveCanceled.Code
		}
		logger.L(r.Context()).Info("request canceled by client", "path", r.URL.Path)
		h.writeError(w, r, StatusClientClosedRequest, code, domain.ErrResolveCanceled.Message, nil)
		return
	}

	if domain.IsDomainError(err, "") {
		code := domain.GetErrorCode(err)
		status := ErrorCodeToHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.L(r.Context()).Error("request failed", "code", code, "error", err)
		}
		h.writeError(w, r, status, code, err.Error(), nil)
		return
	}

	logger.L(r.Context()).Error("internal error", "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, domain.ErrInternalServer.Message, nil)
}

// ErrorCodeToHTTPStatus maps error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4990"):
		return StatusClientClosedRequest
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4000"), strings.HasPrefix(code, "RT-ARG-"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5020"), strings.HasSuffix(code, "-5021"):
		return http.StatusBadGateway
	case strings.HasSuffix(code, "-5030"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
