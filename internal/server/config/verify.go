package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/yndnr/rostertrace/internal/storage"
	"github.com/yndnr/rostertrace/internal/telemetry/logger"
)

// Verify validates the configuration. All problems are reported together.
func Verify(cfg *ServerConfig) error {
	var errs []error
	errs = append(errs, verifyServer(&cfg.Server)...)
	errs = append(errs, verifySource(&cfg.Source)...)
	errs = append(errs, verifyResolver(&cfg.Resolver)...)
	errs = append(errs, verifyCache(&cfg.Cache)...)
	errs = append(errs, verifyLog(&cfg.Log)...)
	return errors.Join(errs...)
}

func verifyServer(cfg *ServerSection) []error {
	var errs []error
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr %q: %w", cfg.HTTP.Addr, err))
	}
	if cfg.HTTP.RateLimit < 0 {
		errs = append(errs, errors.New("server.http.ratelimit must not be negative"))
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.Burst < 1 {
		errs = append(errs, errors.New("server.http.burst must be at least 1 when rate limiting"))
	}
	if cfg.HTTP.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("server.http.shutdowntimeout must not be negative"))
	}
	return errs
}

func verifySource(cfg *SourceSection) []error {
	var errs []error
	u, err := url.Parse(cfg.BaseURL)
	switch {
	case cfg.BaseURL == "":
		errs = append(errs, errors.New("source.baseurl is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("source.baseurl: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("source.baseurl %q must use http or https", cfg.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("source.baseurl %q has no host", cfg.BaseURL))
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, errors.New("source.timeout must be positive"))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, errors.New("source.ratelimit must be positive"))
	}
	if cfg.Burst < 1 {
		errs = append(errs, errors.New("source.burst must be at least 1"))
	}
	if cfg.Breaker.Failures < 1 {
		errs = append(errs, errors.New("source.breaker.failures must be at least 1"))
	}
	if cfg.Breaker.Timeout <= 0 {
		errs = append(errs, errors.New("source.breaker.timeout must be positive"))
	}
	if cfg.CAFile != "" {
		if _, err := os.Stat(cfg.CAFile); err != nil {
			errs = append(errs, fmt.Errorf("source.cafile: %w", err))
		}
	}
	return errs
}

func verifyResolver(cfg *ResolverSection) []error {
	var errs []error
	if cfg.Concurrency < 1 {
		errs = append(errs, errors.New("resolver.concurrency must be at least 1"))
	}
	if cfg.MaxHops < 1 {
		errs = append(errs, errors.New("resolver.maxhops must be at least 1"))
	}
	if cfg.DefaultTeams < 1 {
		errs = append(errs, errors.New("resolver.defaultteams must be at least 1"))
	}
	return errs
}

func verifyCache(cfg *CacheSection) []error {
	var errs []error
	if cfg.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if cfg.DegradedTTL <= 0 {
		errs = append(errs, errors.New("cache.degradedttl must be positive"))
	} else if cfg.DegradedTTL > cfg.TTL {
		errs = append(errs, errors.New("cache.degradedttl must not exceed cache.ttl"))
	}
	if cfg.MemoryTTL <= 0 {
		errs = append(errs, errors.New("cache.memoryttl must be positive"))
	}
	if cfg.LeagueTTL <= 0 {
		errs = append(errs, errors.New("cache.leaguettl must be positive"))
	}

	switch strings.ToLower(cfg.Backend) {
	case storage.BackendBadger:
		if cfg.Dir == "" {
			errs = append(errs, errors.New("cache.dir is required for the badger backend"))
		}
	case storage.BackendRedis:
		if _, _, err := net.SplitHostPort(cfg.Redis.Addr); err != nil {
			errs = append(errs, fmt.Errorf("cache.redis.addr %q: %w", cfg.Redis.Addr, err))
		}
		if cfg.Redis.DB < 0 {
			errs = append(errs, errors.New("cache.redis.db must not be negative"))
		}
	case storage.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q must be badger, redis or memory", cfg.Backend))
	}
	return errs
}

func verifyLog(cfg *LogSection) []error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", cfg.Format))
	}
	return errs
}
