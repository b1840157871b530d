package config

import (
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/source/rest"
	"github.com/yndnr/rostertrace/internal/storage"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultHTTPRateLimit   = 20.0
	DefaultHTTPBurst       = 40
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSourceBaseURL = "https://api.sleeper.app/v1"

	DefaultCacheTTL       = service.DefaultCacheTTL
	DefaultCacheDegraded  = service.DefaultDegradedCacheTTL
	DefaultCacheMemoryTTL = storage.DefaultMemoryTTL
	DefaultCacheLeagueTTL = time.Hour
	DefaultCacheBackend   = storage.BackendBadger
	DefaultCacheDir       = "/var/lib/rostertrace/cache"
	DefaultRedisAddr      = "127.0.0.1:6379"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				RateLimit:       DefaultHTTPRateLimit,
				Burst:           DefaultHTTPBurst,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Source: SourceSection{
			BaseURL:   DefaultSourceBaseURL,
			Timeout:   rest.DefaultTimeout,
			RateLimit: rest.DefaultRateLimit,
			Burst:     rest.DefaultBurst,
			Breaker: BreakerConfig{
				Failures: rest.DefaultBreakerFailures,
				Timeout:  rest.DefaultBreakerTimeout,
			},
		},
		Resolver: ResolverSection{
			Concurrency:  service.DefaultAggregateConcurrency,
			MaxHops:      domain.MaxLineageHops,
			DefaultTeams: domain.DefaultTeamCount,
		},
		Cache: CacheSection{
			TTL:         DefaultCacheTTL,
			DegradedTTL: DefaultCacheDegraded,
			MemoryTTL:   DefaultCacheMemoryTTL,
			LeagueTTL:   DefaultCacheLeagueTTL,
			Backend:     DefaultCacheBackend,
			Dir:         DefaultCacheDir,
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// DefaultMap returns the defaults keyed by dotted path, the form
// confloader.WithDefaults expects.
func DefaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"server.http.addr":            d.Server.HTTP.Addr,
		"server.http.ratelimit":       d.Server.HTTP.RateLimit,
		"server.http.burst":           d.Server.HTTP.Burst,
		"server.http.shutdowntimeout": d.Server.HTTP.ShutdownTimeout.String(),
		"source.baseurl":              d.Source.BaseURL,
		"source.timeout":              d.Source.Timeout.String(),
		"source.ratelimit":            d.Source.RateLimit,
		"source.burst":                d.Source.Burst,
		"source.breaker.failures":     d.Source.Breaker.Failures,
		"source.breaker.timeout":      d.Source.Breaker.Timeout.String(),
		"source.cafile":               d.Source.CAFile,
		"resolver.concurrency":        d.Resolver.Concurrency,
		"resolver.maxhops":            d.Resolver.MaxHops,
		"resolver.defaultteams":       d.Resolver.DefaultTeams,
		"cache.ttl":                   d.Cache.TTL.String(),
		"cache.degradedttl":           d.Cache.DegradedTTL.String(),
		"cache.memoryttl":             d.Cache.MemoryTTL.String(),
		"cache.leaguettl":             d.Cache.LeagueTTL.String(),
		"cache.backend":               d.Cache.Backend,
		"cache.dir":                   d.Cache.Dir,
		"cache.redis.addr":            d.Cache.Redis.Addr,
		"cache.redis.db":              d.Cache.Redis.DB,
		"log.level":                   d.Log.Level,
		"log.format":                  d.Log.Format,
	}
}
