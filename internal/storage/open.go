// Package storage provides the durable tier factory.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/rostertrace/internal/storage/memory"
)

// OpenDurable opens the durable tier selected by cfg.Backend.
// registry may be nil; when set, Badger size gauges are registered on it.
func OpenDurable(ctx context.Context, cfg Config, logger *slog.Logger, registry prometheus.Registerer) (Store, error) {
	switch cfg.Backend {
	case "", BackendBadger:
		s, err := NewBadgerStore(cfg.Badger, logger)
		if err != nil {
			return nil, err
		}
		if registry != nil {
			s.RegisterMetrics(registry)
		}
		return s, nil

	case BackendRedis:
		s, err := NewRedisStore(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return s, nil

	case BackendMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
