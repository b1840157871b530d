// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// Transaction week scan bounds.
const (
	MaxTransactionWeek = 18

	// Once more than earlyStopAfterWeek weeks were scanned, emptyWeekStreak
	// consecutive empty weeks end the scan.
	earlyStopAfterWeek = 4
	emptyWeekStreak    = 3
)

// DefaultAggregateConcurrency bounds concurrent fetches at each fan-out level.
const DefaultAggregateConcurrency = 4

// SeasonData is the historical data gathered for one season.
type SeasonData struct {
	Node domain.SeasonNode

	// Roster is the participant's roster, nil when the participant had no team.
	Roster *domain.RosterSnapshot

	// Drafts are sorted by ascending draft id, picks by pick number.
	Drafts []domain.DraftRecord

	// Transactions are in arrival order from the source.
	Transactions []domain.Transaction

	// RosterUnavailable is set when the roster fetch failed, so whether the
	// participant held a team that season is unknown.
	RosterUnavailable bool

	// Failures counts the fetches of this season that degraded to no data.
	Failures int
}

// Complete reports whether every fetch of the season succeeded.
func (s *SeasonData) Complete() bool {
	return s.Failures == 0
}

// HasParticipant reports whether the participant held a non-empty roster.
func (s *SeasonData) HasParticipant() bool {
	return s.Roster != nil && !s.Roster.IsEmpty()
}

// HasDraftActivity reports whether any draft in the season produced a pick.
func (s *SeasonData) HasDraftActivity() bool {
	for i := range s.Drafts {
		if s.Drafts[i].HasActivity() {
			return true
		}
	}
	return false
}

// SeasonAggregator fetches per-season history with bounded fan-out.
type SeasonAggregator struct {
	source      HistorySource
	concurrency int
	logger      *slog.Logger
	metrics     Metrics
}

// NewSeasonAggregator creates a new SeasonAggregator.
func NewSeasonAggregator(source HistorySource, concurrency int, logger *slog.Logger, metrics Metrics) *SeasonAggregator {
	if concurrency <= 0 {
		concurrency = DefaultAggregateConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SeasonAggregator{
		source:      source,
		concurrency: concurrency,
		logger:      logger,
		metrics:     metrics,
	}
}

// Aggregate gathers data for every node, preserving node order.
//
// Upstream failures degrade the affected unit to "no data" and are logged;
// only cancellation aborts the aggregation. All fetches are joined before
// Aggregate returns.
func (a *SeasonAggregator) Aggregate(ctx context.Context, participantID string, nodes []domain.SeasonNode) ([]SeasonData, error) {
	seasons := make([]SeasonData, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i := range nodes {
		seasons[i].Node = nodes[i]
		g.Go(func() error {
			return a.fetchSeason(gctx, participantID, &seasons[i])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, canceled(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(err)
	}

	return seasons, nil
}

// fetchSeason fills one season. Each goroutine writes only its own field.
func (a *SeasonAggregator) fetchSeason(ctx context.Context, participantID string, season *SeasonData) error {
	leagueID := season.Node.LeagueID
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rosters, err := a.source.Rosters(gctx, leagueID)
		if err != nil {
			season.RosterUnavailable = true
			return a.degrade(gctx, &failed, err, "rosters", "league_id", leagueID)
		}
		season.Roster = domain.FindRoster(rosters, participantID)
		return nil
	})

	g.Go(func() error {
		drafts, err := a.fetchDrafts(gctx, &failed, leagueID)
		if err != nil {
			return err
		}
		season.Drafts = drafts
		return nil
	})

	g.Go(func() error {
		txs, err := a.fetchTransactions(gctx, &failed, leagueID)
		if err != nil {
			return err
		}
		season.Transactions = txs
		return nil
	})

	err := g.Wait()
	season.Failures = int(failed.Load())
	return err
}

// fetchDrafts fetches draft headers and attaches their picks concurrently.
func (a *SeasonAggregator) fetchDrafts(ctx context.Context, failed *atomic.Int32, leagueID string) ([]domain.DraftRecord, error) {
	drafts, err := a.source.Drafts(ctx, leagueID)
	if err != nil {
		return nil, a.degrade(ctx, failed, err, "drafts", "league_id", leagueID)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i := range drafts {
		d := &drafts[i]
		g.Go(func() error {
			picks, err := a.source.DraftPicks(gctx, d.DraftID)
			if err != nil {
				return a.degrade(gctx, failed, err, "draft_picks", "league_id", leagueID, "draft_id", d.DraftID)
			}
			domain.SortPicks(picks)
			d.Picks = picks
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	domain.SortDrafts(drafts)
	return drafts, nil
}

// fetchTransactions scans weeks 1..MaxTransactionWeek, stopping early once
// activity has ceased.
func (a *SeasonAggregator) fetchTransactions(ctx context.Context, failed *atomic.Int32, leagueID string) ([]domain.Transaction, error) {
	var all []domain.Transaction
	empty := 0

	for week := 1; week <= MaxTransactionWeek; week++ {
		txs, err := a.source.Transactions(ctx, leagueID, week)
		if err != nil {
			if err := a.degrade(ctx, failed, err, "transactions", "league_id", leagueID, "week", week); err != nil {
				return nil, err
			}
			txs = nil
		}

		if len(txs) == 0 {
			empty++
		} else {
			empty = 0
			all = append(all, txs...)
		}

		if week > earlyStopAfterWeek && empty >= emptyWeekStreak {
			break
		}
	}

	return all, nil
}

// degrade logs an upstream failure, counts it in failed and swallows it,
// unless the failure is a cancellation, which is returned to abort the
// fan-out.
func (a *SeasonAggregator) degrade(ctx context.Context, failed *atomic.Int32, err error, op string, attrs ...any) error {
	if ctx.Err() != nil {
		return canceled(ctx.Err())
	}
	if domain.IsCanceled(err) {
		return canceled(err)
	}

	failed.Add(1)
	a.metrics.ObserveUpstreamFailure(op)
	a.logger.Warn("upstream fetch failed, continuing without data",
		append([]any{"op", op, "error", err}, attrs...)...)
	return nil
}
