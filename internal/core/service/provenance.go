// Package service provides the acquisition provenance resolver for RosterTrace.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// Cache lifetimes of a resolved acquisition map.
const (
	DefaultCacheTTL = 6 * time.Hour

	// DefaultDegradedCacheTTL applies when part of the history could not
	// be fetched.
	DefaultDegradedCacheTTL = 5 * time.Minute
)

// ProvenanceConfig configures a ProvenanceService.
type ProvenanceConfig struct {
	// CacheTTL is passed to AcquisitionCache.Set. Default: 6h
	CacheTTL time.Duration

	// DegradedCacheTTL replaces CacheTTL for degraded results. Default: 5m
	DegradedCacheTTL time.Duration

	// Concurrency bounds fan-out per level (seasons, drafts). Default: 4
	Concurrency int

	// MaxHops bounds the lineage walk. Default: 10
	MaxHops int

	// DefaultTeams is used when no team count is known. Default: 12
	DefaultTeams int

	Logger  *slog.Logger
	Metrics Metrics
}

// DefaultProvenanceConfig returns the default resolver configuration.
func DefaultProvenanceConfig() ProvenanceConfig {
	return ProvenanceConfig{
		CacheTTL:         DefaultCacheTTL,
		DegradedCacheTTL: DefaultDegradedCacheTTL,
		Concurrency:      DefaultAggregateConcurrency,
		MaxHops:          domain.MaxLineageHops,
		DefaultTeams:     domain.DefaultTeamCount,
	}
}

// ProvenanceService resolves how each player on a participant's roster was acquired.
type ProvenanceService struct {
	cache      AcquisitionCache
	walker     *LineageWalker
	aggregator *SeasonAggregator
	classifier StartupClassifier
	fuser      *Fuser
	cfg        ProvenanceConfig
	logger     *slog.Logger
	metrics    Metrics
}

// NewProvenanceService creates a new ProvenanceService.
// cache may be nil, in which case every call resolves from the source.
func NewProvenanceService(source HistorySource, cache AcquisitionCache, cfg ProvenanceConfig) *ProvenanceService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.DegradedCacheTTL <= 0 {
		cfg.DegradedCacheTTL = DefaultDegradedCacheTTL
	}
	if cfg.DegradedCacheTTL > cfg.CacheTTL {
		cfg.DegradedCacheTTL = cfg.CacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}

	return &ProvenanceService{
		cache:      cache,
		walker:     NewLineageWalker(source, cfg.MaxHops, cfg.Logger, cfg.Metrics),
		aggregator: NewSeasonAggregator(source, cfg.Concurrency, cfg.Logger, cfg.Metrics),
		fuser:      NewFuser(cfg.DefaultTeams),
		cfg:        cfg,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// ============================================================================
// Resolve Operation
// ============================================================================

// ResolveRequest contains parameters for an acquisition resolution.
type ResolveRequest struct {
	LeagueID      string // Required, the current-season league
	ParticipantID string // Required, the roster owner's user id

	// Refresh skips the cache read; the result is still written back.
	Refresh bool
}

// Resolution is the result of an acquisition resolution.
type Resolution struct {
	LeagueID      string                `json:"league_id"`
	ParticipantID string                `json:"owner_id"`
	Acquisitions  domain.AcquisitionMap `json:"acquisitions"`
	Cached        bool                  `json:"cached"`

	// Diagnostics, empty for cache hits.
	Lineage        []domain.SeasonNode `json:"lineage,omitempty"`
	EarliestSeason string              `json:"earliest_season,omitempty"`
	StartupDraftID string              `json:"startup_draft_id,omitempty"`
	FallbackReason FallbackReason      `json:"fallback_reason,omitempty"`
	FallbackCount  int                 `json:"fallback_count,omitempty"`

	// Degraded is set when some history could not be fetched and the
	// result was built from partial data.
	Degraded bool `json:"degraded,omitempty"`
}

// Resolve returns one acquisition record per player on the participant's
// current roster.
//
// The cache is read-through and write-through. Upstream failures degrade
// to partial data. Cancellation before fusion completes returns an error
// with code RT-RSLV-4990 and leaves the cache untouched.
func (s *ProvenanceService) Resolve(ctx context.Context, req *ResolveRequest) (*Resolution, error) {
	// 1. Validate input
	if req == nil || req.LeagueID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("league_id is required")
	}
	if req.ParticipantID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("owner_id is required")
	}

	start := time.Now()
	if err := ctx.Err(); err != nil {
		s.metrics.ObserveResolution(OutcomeCanceled, time.Since(start))
		return nil, canceled(err)
	}

	key := CacheKey(req.ParticipantID, req.LeagueID)
	log := s.logger.With("league_id", req.LeagueID, "owner_id", req.ParticipantID)

	// 2. Read-through
	if !req.Refresh {
		if cached, ok := s.lookup(ctx, key, log); ok {
			s.metrics.ObserveResolution(OutcomeCached, time.Since(start))
			return &Resolution{
				LeagueID:      req.LeagueID,
				ParticipantID: req.ParticipantID,
				Acquisitions:  cached,
				Cached:        true,
			}, nil
		}
	}

	// 3. Lineage and per-season data
	lineage, err := s.walker.Walk(ctx, req.LeagueID)
	if err != nil {
		s.metrics.ObserveResolution(OutcomeCanceled, time.Since(start))
		return nil, canceled(err)
	}

	seasons, err := s.aggregator.Aggregate(ctx, req.ParticipantID, lineage.Nodes)
	if err != nil {
		s.metrics.ObserveResolution(OutcomeCanceled, time.Since(start))
		return nil, canceled(err)
	}

	// Fan-in join point: nothing is fused or cached once canceled.
	if err := ctx.Err(); err != nil {
		s.metrics.ObserveResolution(OutcomeCanceled, time.Since(start))
		return nil, canceled(err)
	}

	// 4. Classify, fuse, fall back
	res := s.fuse(req.ParticipantID, lineage, seasons)
	res.LeagueID = req.LeagueID
	res.ParticipantID = req.ParticipantID

	// 5. Write-through. Fusion is complete, so a late cancellation does not
	// discard the result. Without the current roster the map is empty, not
	// final, and is never cached.
	switch {
	case currentRosterUnknown(seasons):
		log.Warn("current roster unavailable, result not cached")
	case res.Degraded:
		s.store(context.WithoutCancel(ctx), key, res.Acquisitions, s.cfg.DegradedCacheTTL, log)
	default:
		s.store(context.WithoutCancel(ctx), key, res.Acquisitions, s.cfg.CacheTTL, log)
	}

	s.metrics.ObserveResolution(OutcomeResolved, time.Since(start))
	log.Info("acquisitions resolved",
		"players", len(res.Acquisitions),
		"seasons", len(lineage.Nodes),
		"earliest_season", res.EarliestSeason,
		"startup_draft_id", res.StartupDraftID,
		"fallback_reason", string(res.FallbackReason),
		"fallback_count", res.FallbackCount,
		"degraded", res.Degraded,
		"elapsed", time.Since(start))

	return res, nil
}

// fuse runs the classifier, fuser and fallback over aggregated seasons.
func (s *ProvenanceService) fuse(participantID string, lineage *Lineage, seasons []SeasonData) *Resolution {
	res := &Resolution{
		Lineage:  lineage.Nodes,
		Degraded: lineage.Truncated,
	}
	for i := range seasons {
		if !seasons[i].Complete() {
			res.Degraded = true
		}
	}

	var current *domain.RosterSnapshot
	if n := len(seasons); n > 0 {
		current = seasons[n-1].Roster
	}

	cls := s.classifier.Classify(participantID, seasons, lineage.Current)
	if cls.ParticipantFound() {
		res.EarliestSeason = seasons[cls.EarliestSeason].Node.Season
		res.StartupDraftID = cls.StartupDraftID
	}

	currentTeams := 0
	if lineage.Current != nil {
		currentTeams = lineage.Current.TotalTeams
	}
	fused := s.fuser.Fuse(participantID, current, seasons, cls, currentTeams)

	reason, players := ApplyFallback(fused.Records, cls, fused.StartupPicks)
	if len(players) > 0 {
		s.metrics.ObserveFallback(string(reason), len(players))
	}

	res.Acquisitions = fused.Records
	res.FallbackReason = reason
	res.FallbackCount = len(players)
	return res
}

// lookup reads the cache; failures degrade to a miss.
func (s *ProvenanceService) lookup(ctx context.Context, key string, log *slog.Logger) (domain.AcquisitionMap, bool) {
	if s.cache == nil {
		return nil, false
	}

	cached, found, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.ObserveCacheLookup(CacheError)
		log.Warn("acquisition cache read failed", "key", key, "error", err)
		return nil, false
	case !found:
		s.metrics.ObserveCacheLookup(CacheMiss)
		return nil, false
	default:
		s.metrics.ObserveCacheLookup(CacheHit)
		return cached.Clone(), true
	}
}

// currentRosterUnknown reports whether the target season's roster fetch failed.
func currentRosterUnknown(seasons []SeasonData) bool {
	return len(seasons) == 0 || seasons[len(seasons)-1].RosterUnavailable
}

// store writes the result; failures are logged and ignored.
func (s *ProvenanceService) store(ctx context.Context, key string, value domain.AcquisitionMap, ttl time.Duration, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value.Clone(), ttl); err != nil {
		log.Warn("acquisition cache write failed", "key", key, "error", err)
	}
}

// ============================================================================
// Lineage Operation
// ============================================================================

// Lineage returns the season chain of a league, oldest season first.
func (s *ProvenanceService) Lineage(ctx context.Context, leagueID string) ([]domain.SeasonNode, error) {
	if leagueID == "" {
		return nil, domain.ErrMissingArgument.WithDetails("league_id is required")
	}

	lineage, err := s.walker.Walk(ctx, leagueID)
	if err != nil {
		return nil, canceled(err)
	}
	return lineage.Nodes, nil
}

// ============================================================================
// Invalidate Operation
// ============================================================================

// Invalidate drops the cached acquisition map of a participant.
// It is a no-op when the cache does not support removal.
func (s *ProvenanceService) Invalidate(ctx context.Context, leagueID, participantID string) error {
	if leagueID == "" {
		return domain.ErrMissingArgument.WithDetails("league_id is required")
	}
	if participantID == "" {
		return domain.ErrMissingArgument.WithDetails("owner_id is required")
	}

	inv, ok := s.cache.(AcquisitionInvalidator)
	if !ok {
		return nil
	}

	key := CacheKey(participantID, leagueID)
	if err := inv.Delete(ctx, key); err != nil {
		return domain.ErrCacheFailure.WithDetails(key).WithCause(err)
	}

	s.logger.Info("acquisition cache entry invalidated", "league_id", leagueID, "owner_id", participantID)
	return nil
}
