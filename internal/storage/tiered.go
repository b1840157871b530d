// Package storage provides the two-tier acquisition cache.
package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/storage/memory"
)

// DefaultMemoryTTL bounds how long an entry lives in the in-process tier.
const DefaultMemoryTTL = 15 * time.Minute

// TieredCache implements service.AcquisitionCache over an in-process tier
// and an optional durable tier.
type TieredCache struct {
	memory    *memory.Store
	durable   Store
	memoryTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

var (
	_ service.AcquisitionCache       = (*TieredCache)(nil)
	_ service.AcquisitionInvalidator = (*TieredCache)(nil)
)

// NewTieredCache creates a cache. durable may be nil for a memory-only cache.
func NewTieredCache(mem *memory.Store, durable Store, memoryTTL time.Duration, logger *slog.Logger) *TieredCache {
	if mem == nil {
		mem = memory.New()
	}
	if memoryTTL <= 0 {
		memoryTTL = DefaultMemoryTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TieredCache{
		memory:    mem,
		durable:   durable,
		memoryTTL: memoryTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the cached map, checking the in-process tier first.
// A durable hit is copied into the in-process tier.
func (c *TieredCache) Get(ctx context.Context, key string) (domain.AcquisitionMap, bool, error) {
	if data, ok, err := c.memory.Get(ctx, key); err == nil && ok {
		m, err := decodeAcquisitions(data)
		if err == nil {
			return m, true, nil
		}
		c.logger.Warn("dropping undecodable in-process cache entry", "key", key, "error", err)
		_ = c.memory.Delete(ctx, key)
	}

	if c.durable == nil {
		return nil, false, nil
	}

	data, ok, err := c.durable.Get(ctx, key)
	if err != nil {
		return nil, false, domain.ErrCacheFailure.WithDetails(key).WithCause(err)
	}
	if !ok {
		return nil, false, nil
	}

	m, err := decodeAcquisitions(data)
	if err != nil {
		c.logger.Warn("dropping undecodable durable cache entry", "key", key, "error", err)
		_ = c.durable.Delete(ctx, key)
		return nil, false, nil
	}

	_ = c.memory.Set(ctx, key, data, c.memoryTTL)
	return m, true, nil
}

// Set writes the durable tier, then the in-process tier.
// The in-process copy is written even when the durable write fails.
func (c *TieredCache) Set(ctx context.Context, key string, value domain.AcquisitionMap, ttl time.Duration) error {
	data, err := encodeAcquisitions(value, c.now())
	if err != nil {
		return domain.ErrCacheFailure.WithDetails(key).WithCause(err)
	}

	var durableErr error
	if c.durable != nil {
		durableErr = c.durable.Set(ctx, key, data, ttl)
	}

	memTTL := c.memoryTTL
	if ttl > 0 && ttl < memTTL {
		memTTL = ttl
	}
	if err := c.memory.Set(ctx, key, data, memTTL); err != nil && durableErr == nil {
		durableErr = err
	}

	if durableErr != nil {
		return domain.ErrCacheFailure.WithDetails(key).WithCause(durableErr)
	}
	return nil
}

// Delete removes key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	memErr := c.memory.Delete(ctx, key)

	if c.durable != nil {
		if err := c.durable.Delete(ctx, key); err != nil {
			return domain.ErrCacheFailure.WithDetails(key).WithCause(err)
		}
	}
	if memErr != nil {
		return domain.ErrCacheFailure.WithDetails(key).WithCause(memErr)
	}
	return nil
}

// Ping checks both tiers.
func (c *TieredCache) Ping(ctx context.Context) error {
	if err := c.memory.Ping(ctx); err != nil {
		return err
	}
	if c.durable != nil {
		return c.durable.Ping(ctx)
	}
	return nil
}

// Len returns the number of in-process entries.
func (c *TieredCache) Len() int {
	return c.memory.Len()
}
