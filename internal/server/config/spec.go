package config

import "time"

// ServerConfig is the root configuration for rostertrace-server.
//
// Keys use single-word segments so every field is reachable from the
// environment (ROSTERTRACE_CACHE_MEMORYTTL -> cache.memoryttl).
type ServerConfig struct {
	Server   ServerSection   `koanf:"server" yaml:"server" json:"server"`
	Source   SourceSection   `koanf:"source" yaml:"source" json:"source"`
	Resolver ResolverSection `koanf:"resolver" yaml:"resolver" json:"resolver"`
	Cache    CacheSection    `koanf:"cache" yaml:"cache" json:"cache"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http" yaml:"http" json:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr" yaml:"addr" json:"addr"`

	// RateLimit is the per-client request rate (req/s). 0 disables limiting.
	RateLimit float64 `koanf:"ratelimit" yaml:"ratelimit" json:"ratelimit"`
	Burst     int     `koanf:"burst" yaml:"burst" json:"burst"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdowntimeout" yaml:"shutdowntimeout" json:"shutdowntimeout"`
}

// SourceSection configures the upstream REST API.
type SourceSection struct {
	BaseURL   string        `koanf:"baseurl" yaml:"baseurl" json:"baseurl"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
	RateLimit float64       `koanf:"ratelimit" yaml:"ratelimit" json:"ratelimit"`
	Burst     int           `koanf:"burst" yaml:"burst" json:"burst"`
	Breaker   BreakerConfig `koanf:"breaker" yaml:"breaker" json:"breaker"`
	// CAFile adds a PEM bundle to the trusted roots for upstream TLS.
	CAFile string `koanf:"cafile" yaml:"cafile" json:"cafile"`
}

// BreakerConfig configures the upstream circuit breaker.
type BreakerConfig struct {
	// Failures is the consecutive failure count that opens the circuit.
	Failures uint32 `koanf:"failures" yaml:"failures" json:"failures"`
	// Timeout is how long the circuit stays open.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`
}

// ResolverSection configures the provenance resolver.
type ResolverSection struct {
	Concurrency  int `koanf:"concurrency" yaml:"concurrency" json:"concurrency"`
	MaxHops      int `koanf:"maxhops" yaml:"maxhops" json:"maxhops"`
	DefaultTeams int `koanf:"defaultteams" yaml:"defaultteams" json:"defaultteams"`
}

// CacheSection configures the acquisition cache tiers.
type CacheSection struct {
	// TTL is the lifetime of a resolved acquisition map.
	TTL time.Duration `koanf:"ttl" yaml:"ttl" json:"ttl"`
	// DegradedTTL is the lifetime of a map built from partial history.
	DegradedTTL time.Duration `koanf:"degradedttl" yaml:"degradedttl" json:"degradedttl"`
	// MemoryTTL caps the in-process copy.
	MemoryTTL time.Duration `koanf:"memoryttl" yaml:"memoryttl" json:"memoryttl"`
	// LeagueTTL is the lifetime of cached upstream league facts.
	LeagueTTL time.Duration `koanf:"leaguettl" yaml:"leaguettl" json:"leaguettl"`

	// Backend selects the durable tier: badger, redis or memory.
	Backend string      `koanf:"backend" yaml:"backend" json:"backend"`
	Dir     string      `koanf:"dir" yaml:"dir" json:"dir"`
	Redis   RedisConfig `koanf:"redis" yaml:"redis" json:"redis"`
}

// RedisConfig configures the Redis durable tier.
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr" json:"addr"`
	Password string `koanf:"password" yaml:"password" json:"password"`
	DB       int    `koanf:"db" yaml:"db" json:"db"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}
