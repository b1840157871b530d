// Package cached provides a HistorySource decorator that memoizes league
// facts which can no longer change.
//
// League metadata is cached for the configured TTL. Rosters, drafts and
// draft picks are cached only for historical seasons, i.e. leagues that some
// other league names as its previous season and the drafts those leagues
// held. Transactions are never cached.
package cached

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yndnr/rostertrace/internal/core/domain"
	"github.com/yndnr/rostertrace/internal/core/service"
	"github.com/yndnr/rostertrace/internal/storage/memory"
	"github.com/yndnr/rostertrace/pkg/cmap"
)

// DefaultTTL is the default lifetime of cached league facts.
const DefaultTTL = time.Hour

const keyPrefix = "rostertrace:src:"

var _ service.HistorySource = (*Source)(nil)

// Source wraps a HistorySource with an in-process cache.
type Source struct {
	inner  service.HistorySource
	store  *memory.Store
	ttl    time.Duration
	logger *slog.Logger

	historicalLeagues *cmap.Map[string, struct{}]
	historicalDrafts  *cmap.Map[string, struct{}]

	group singleflight.Group
}

// New creates a caching decorator around inner.
// A nil store gets a private memory.Store; ttl <= 0 uses DefaultTTL.
func New(inner service.HistorySource, store *memory.Store, ttl time.Duration, logger *slog.Logger) *Source {
	if store == nil {
		store = memory.New()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		inner:             inner,
		store:             store,
		ttl:               ttl,
		logger:            logger,
		historicalLeagues: cmap.New[string, struct{}](),
		historicalDrafts:  cmap.New[string, struct{}](),
	}
}

// Len returns the number of cached entries.
func (s *Source) Len() int {
	return s.store.Len()
}

// League returns league metadata and records its previous season as historical.
func (s *Source) League(ctx context.Context, leagueID string) (*domain.League, error) {
	l, err := load(ctx, s, "league:"+leagueID, true, func(ctx context.Context) (*domain.League, error) {
		return s.inner.League(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	if l.HasPrevious() {
		s.historicalLeagues.Set(l.PreviousLeagueID, struct{}{})
	}
	return l, nil
}

// Rosters returns the league's rosters, cached for historical leagues only.
func (s *Source) Rosters(ctx context.Context, leagueID string) ([]domain.RosterSnapshot, error) {
	return load(ctx, s, "rosters:"+leagueID, s.historicalLeagues.Has(leagueID), func(ctx context.Context) ([]domain.RosterSnapshot, error) {
		return s.inner.Rosters(ctx, leagueID)
	})
}

// Drafts returns the league's draft headers, cached for historical leagues only.
func (s *Source) Drafts(ctx context.Context, leagueID string) ([]domain.DraftRecord, error) {
	historical := s.historicalLeagues.Has(leagueID)
	drafts, err := load(ctx, s, "drafts:"+leagueID, historical, func(ctx context.Context) ([]domain.DraftRecord, error) {
		return s.inner.Drafts(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	if historical {
		for _, d := range drafts {
			s.historicalDrafts.Set(d.DraftID, struct{}{})
		}
	}
	return drafts, nil
}

// DraftPicks returns a draft's picks, cached for drafts of historical leagues.
func (s *Source) DraftPicks(ctx context.Context, draftID string) ([]domain.DraftPick, error) {
	return load(ctx, s, "picks:"+draftID, s.historicalDrafts.Has(draftID), func(ctx context.Context) ([]domain.DraftPick, error) {
		return s.inner.DraftPicks(ctx, draftID)
	})
}

// Transactions always reaches the wrapped source.
func (s *Source) Transactions(ctx context.Context, leagueID string, week int) ([]domain.Transaction, error) {
	return s.inner.Transactions(ctx, leagueID, week)
}

// load serves key from the store when cacheable, otherwise fetches it.
// Concurrent misses for the same key share one upstream call.
func load[T any](ctx context.Context, s *Source, key string, cacheable bool, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if !cacheable {
		return fetch(ctx)
	}

	key = keyPrefix + key
	if raw, ok, err := s.store.Get(ctx, key); err != nil {
		s.logger.Warn("source cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		_ = s.store.Delete(ctx, key)
	}

	raw, err, _ := s.group.Do(key, func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("source cache: encode %s: %w", key, err)
		}
		if err := s.store.Set(ctx, key, raw, s.ttl); err != nil {
			s.logger.Warn("source cache write failed", "key", key, "error", err)
		}
		return raw, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if domain.IsCanceled(err) {
			// The shared call belonged to a caller that gave up.
			return fetch(ctx)
		}
		return zero, err
	}

	// Every caller decodes its own copy so results can be mutated freely.
	var out T
	if err := json.Unmarshal(raw.([]byte), &out); err != nil {
		return zero, fmt.Errorf("source cache: decode %s: %w", key, err)
	}
	return out, nil
}
