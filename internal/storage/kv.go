// Package storage provides storage abstractions for RosterTrace.
//
// This file defines the Store interface implemented by every cache tier
// and the configuration used to open a durable tier.
package storage

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value store with per-entry TTL.
//
// Implementation requirements:
// - Thread-safe: concurrent reads/writes must be safe
// - Expired entries must never be returned by Get
// - Deleting a missing key is not an error
type Store interface {
	// Get returns the value stored under key. found is false on a miss.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// Durable tier backends.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config configures the durable cache tier.
type Config struct {
	// Backend selects the durable tier ("badger", "redis", "memory").
	// Default: "badger"
	Backend string

	Badger BadgerConfig
	Redis  RedisConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// Dir is the storage directory.
	Dir string

	// GCInterval is the interval between automatic value-log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5 (run GC when 50% of a value log file is stale)
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 32MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 64MB
	ValueLogFileSize int64

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int

	// SyncWrites enables sync writes (fsync after each write).
	// Default: false (cache entries can be recomputed)
	SyncWrites bool
}

// RedisConfig configures the Redis durable tier.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// DialTimeout bounds connection establishment.
	// Default: 5s
	DialTimeout time.Duration
}

// DefaultConfig returns the default durable tier configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Backend: BackendBadger,
		Badger:  DefaultBadgerConfig(dir),
		Redis: RedisConfig{
			Addr:        "127.0.0.1:6379",
			DialTimeout: 5 * time.Second,
		},
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:              dir,
		GCInterval:       10 * time.Minute,
		GCThreshold:      0.5,
		CacheSize:        32 << 20, // 32MB
		ValueLogFileSize: 64 << 20, // 64MB
		NumMemtables:     2,
		SyncWrites:       false,
	}
}
