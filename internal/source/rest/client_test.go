package rest

import (
	"context"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

func newTestClient(t *testing.T, h http.Handler, cfg Config) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL + "/v1"
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 1000
		cfg.Burst = 1000
	}
	c, err := NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, srv
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		code    string
	}{
		{"empty", "", "RT-ARG-1002"},
		{"no scheme", "api.example.com/v1", "RT-ARG-1001"},
		{"ftp", "ftp://api.example.com", "RT-ARG-1001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Config{BaseURL: tt.baseURL}, nil)
			if !domain.IsDomainError(err, tt.code) {
				t.Errorf("NewClient(%q) error = %v, want %s", tt.baseURL, err, tt.code)
			}
		})
	}

	c, err := NewClient(Config{BaseURL: "https://api.example.com/v1/"}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.BaseURL() != "https://api.example.com/v1" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed", c.BreakerState())
	}
}

func TestClient_CAFile(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"league_id":"1","season":"2024","total_rosters":10}`))
	}))
	defer srv.Close()

	ca := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(ca, data, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := NewClient(Config{BaseURL: srv.URL + "/v1", CAFile: ca}, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	league, err := c.League(context.Background(), "1")
	if err != nil {
		t.Fatalf("League() error = %v", err)
	}
	if league.Season != "2024" {
		t.Errorf("Season = %q, want 2024", league.Season)
	}

	_, err = NewClient(Config{BaseURL: srv.URL, CAFile: filepath.Join(t.TempDir(), "missing.pem")}, nil)
	if !domain.IsDomainError(err, "RT-ARG-1001") {
		t.Errorf("NewClient(missing ca) error = %v, want RT-ARG-1001", err)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/league/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /v1/league/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("GET /v1/league/garbled", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"league_id":`))
	})

	c, _ := newTestClient(t, mux, Config{BreakerFailures: 100})

	tests := []struct {
		id   string
		code string
	}{
		{"missing", domain.ErrUpstreamNotFound.Code},
		{"broken", domain.ErrUpstreamFetch.Code},
		{"garbled", domain.ErrUpstreamMalformed.Code},
	}
	for _, tt := range tests {
		_, err := c.League(context.Background(), tt.id)
		if !domain.IsDomainError(err, tt.code) {
			t.Errorf("League(%q) error = %v, want %s", tt.id, err, tt.code)
		}
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, h, Config{BreakerFailures: 3, BreakerTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		if _, err := c.League(context.Background(), "1"); !domain.IsDomainError(err, domain.ErrUpstreamFetch.Code) {
			t.Fatalf("call %d error = %v, want fetch failure", i, err)
		}
	}

	_, err := c.League(context.Background(), "1")
	if !domain.IsDomainError(err, domain.ErrUpstreamUnavailable.Code) {
		t.Fatalf("League() with open breaker error = %v, want unavailable", err)
	}
	if hits.Load() != 3 {
		t.Errorf("upstream hits = %d, want 3", hits.Load())
	}
	if c.BreakerState() != "open" {
		t.Errorf("BreakerState() = %q, want open", c.BreakerState())
	}
}

func TestClient_NotFoundDoesNotTrip(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	c, _ := newTestClient(t, h, Config{BreakerFailures: 2})

	for i := 0; i < 5; i++ {
		_, err := c.League(context.Background(), "x")
		if !domain.IsDomainError(err, domain.ErrUpstreamNotFound.Code) {
			t.Fatalf("call %d error = %v, want not found", i, err)
		}
	}
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed", c.BreakerState())
	}
}

func TestClient_CancelAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})
	c, _ := newTestClient(t, h, Config{BreakerFailures: 1})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.League(ctx, "1")
	if !domain.IsCanceled(err) {
		t.Fatalf("League() error = %v, want cancellation", err)
	}
	// One failure would open a breaker configured with BreakerFailures=1.
	if c.BreakerState() != "closed" {
		t.Errorf("BreakerState() = %q, want closed after cancel", c.BreakerState())
	}
}

func TestClient_LimiterHonorsContext(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"league_id":"1"}`))
	})
	c, _ := newTestClient(t, h, Config{RateLimit: 0.001, Burst: 1})

	if _, err := c.League(context.Background(), "1"); err != nil {
		t.Fatalf("first League() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.League(ctx, "1")
	if !domain.IsCanceled(err) {
		t.Fatalf("paced League() error = %v, want cancellation class", err)
	}
}
