package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/infra/tlsroots"
)

// Client defaults.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultRateLimit       = 10.0 // requests per second
	DefaultBurst           = 10
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second

	maxResponseBytes = 8 << 20
	userAgent        = "rostertrace/1.0"
)

// Config configures the REST client.
type Config struct {
	// BaseURL is the versioned API root, e.g. https://api.example.com/v1.
	BaseURL string

	// Timeout bounds a single request. Default: 10s
	Timeout time.Duration

	// RateLimit is the sustained request rate per second. Default: 10
	RateLimit float64

	// Burst is the limiter bucket size. Default: 10
	Burst int

	// BreakerFailures is the number of consecutive failures that opens
	// the circuit. Default: 5
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open. Default: 30s
	BreakerTimeout time.Duration

	// CAFile is an optional PEM bundle trusted on top of the system roots.
	CAFile string

	// HTTPClient overrides the transport (tests). Timeout and CAFile are
	// ignored when set.
	HTTPClient *http.Client
}

// Client is a paced, circuit-broken JSON client for the upstream API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewClient creates a new REST client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, domain.ErrMissingArgument.WithDetails("source base url is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, domain.ErrInvalidArgument.WithDetails("source base url must be http(s): " + base)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = DefaultBreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = DefaultBreakerTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
		transport, err := tlsroots.TransportFor(cfg.CAFile)
		if err != nil {
			return nil, domain.ErrInvalidArgument.WithDetails("source ca file").WithCause(err)
		}
		if transport != nil {
			httpClient.Transport = transport
		}
	}

	c := &Client{
		baseURL: base,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		logger:  logger,
	}

	failures := cfg.BreakerFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "upstream",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("upstream circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	})

	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState returns the circuit breaker state ("closed", "half-open", "open").
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// isBreakerSuccess decides which outcomes count against the circuit.
// Cancellation and missing resources say nothing about upstream health.
func isBreakerSuccess(err error) bool {
	return err == nil ||
		domain.IsCanceled(err) ||
		domain.IsDomainError(err, domain.ErrUpstreamNotFound.Code)
}

// getJSON fetches path and decodes the JSON body into target.
func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The limiter refuses waits that would outlast the deadline.
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.do(ctx, path, target)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return domain.ErrUpstreamUnavailable.WithDetails(path).WithCause(err)
	default:
		return err
	}
}

func (c *Client) do(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return domain.ErrUpstreamFetch.WithDetails(path).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.ErrUpstreamFetch.WithDetails(path).WithCause(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream request",
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		drain(resp.Body)
		return domain.ErrUpstreamNotFound.WithDetails(path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		drain(resp.Body)
		return domain.ErrUpstreamFetch.WithDetails(fmt.Sprintf("%s: status %d", path, resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(target); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return domain.ErrUpstreamMalformed.WithDetails(path).WithCause(err)
	}
	return nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64<<10))
}
