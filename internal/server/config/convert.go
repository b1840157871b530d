package config

import (
	"log/slog"
	"strings"

	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/source/rest"
	"github.com/yndnr/rostertrace/internal/storage"
	"github.com/yndnr/rostertrace/internal/telemetry/logger"
)

// StorageConfig returns the durable tier configuration.
func (c *ServerConfig) StorageConfig() storage.Config {
	cfg := storage.DefaultConfig(c.Cache.Dir)
	cfg.Backend = strings.ToLower(c.Cache.Backend)
	cfg.Redis.Addr = c.Cache.Redis.Addr
	cfg.Redis.Password = c.Cache.Redis.Password
	cfg.Redis.DB = c.Cache.Redis.DB
	return cfg
}

// SourceConfig returns the REST client configuration.
func (c *ServerConfig) SourceConfig() rest.Config {
	return rest.Config{
		BaseURL:         c.Source.BaseURL,
		Timeout:         c.Source.Timeout,
		RateLimit:       c.Source.RateLimit,
		Burst:           c.Source.Burst,
		BreakerFailures: c.Source.Breaker.Failures,
		BreakerTimeout:  c.Source.Breaker.Timeout,
		CAFile:          c.Source.CAFile,
	}
}

// ProvenanceConfig returns the resolver configuration.
func (c *ServerConfig) ProvenanceConfig(log *slog.Logger, metrics service.Metrics) service.ProvenanceConfig {
	return service.ProvenanceConfig{
		CacheTTL:         c.Cache.TTL,
		DegradedCacheTTL: c.Cache.DegradedTTL,
		Concurrency:      c.Resolver.Concurrency,
		MaxHops:          c.Resolver.MaxHops,
		DefaultTeams:     c.Resolver.DefaultTeams,
		Logger:           log,
		Metrics:          metrics,
	}
}

// LoggerConfig returns the logger configuration.
func (c *ServerConfig) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}
