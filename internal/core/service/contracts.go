// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"context"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// HistorySource is the read-only league history data source.
// All calls may fail or be canceled through ctx.
type HistorySource interface {
	// League returns league metadata, including the previous-season pointer.
	League(ctx context.Context, leagueID string) (*domain.League, error)

	// Rosters returns one snapshot per team in the league.
	Rosters(ctx context.Context, leagueID string) ([]domain.RosterSnapshot, error)

	// Drafts returns the league's draft headers (without picks).
	Drafts(ctx context.Context, leagueID string) ([]domain.DraftRecord, error)

	// DraftPicks returns all picks of a draft.
	DraftPicks(ctx context.Context, draftID string) ([]domain.DraftPick, error)

	// Transactions returns the league's transactions for one week.
	Transactions(ctx context.Context, leagueID string, week int) ([]domain.Transaction, error)
}

// AcquisitionCache is the narrow key/value contract the resolver needs.
// No locking is required; concurrent writers are last-write-wins.
type AcquisitionCache interface {
	// Get returns the cached map; found is false when the key is absent.
	Get(ctx context.Context, key string) (value domain.AcquisitionMap, found bool, err error)

	// Set stores the map for ttl.
	Set(ctx context.Context, key string, value domain.AcquisitionMap, ttl time.Duration) error
}

// CacheKeyPrefix namespaces acquisition entries in shared cache backends.
const CacheKeyPrefix = "rostertrace:acq:v1:"

// CacheKey derives the deterministic cache key for a resolution.
func CacheKey(participantID, leagueID string) string {
	return CacheKeyPrefix + leagueID + ":" + participantID
}

// Metrics receives resolver observations.
type Metrics interface {
	ObserveResolution(outcome string, elapsed time.Duration)
	ObserveCacheLookup(result string)
	ObserveUpstreamFailure(op string)
	ObserveFallback(reason string, players int)
}

// Resolution outcomes reported to Metrics.
const (
	OutcomeResolved = "ok"
	OutcomeCached   = "cached"
	OutcomeCanceled = "canceled"
)

// Cache lookup results reported to Metrics.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

type nopMetrics struct{}

func (nopMetrics) ObserveResolution(string, time.Duration) {}
func (nopMetrics) ObserveCacheLookup(string)               {}
func (nopMetrics) ObserveUpstreamFailure(string)           {}
func (nopMetrics) ObserveFallback(string, int)             {}

// canceled converts a context error into the cancellation-class domain error.
func canceled(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err, domain.ErrResolveCanceled.Code) {
		return err
	}
	return domain.ErrResolveCanceled.WithCause(err)
}

// AcquisitionInvalidator is implemented by caches that support removal.
type AcquisitionInvalidator interface {
	Delete(ctx context.Context, key string) error
}
