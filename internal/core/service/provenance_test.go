package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// dynastySource builds a two-season dynasty lineage where u1 owned
// roster 3 from the startup draft on.
func dynastySource() *fakeSource {
	src := newFakeSource()
	src.addLeague("L2024", "2024", "0", 12)
	src.addLeague("L2025", "2025", "L2024", 12)

	src.addRoster("L2024", 3, "u1", "p1", "p2")
	src.addRoster("L2024", 4, "u2", "p9")
	src.addRoster("L2025", 3, "u1", "p1", "p2", "p3", "p4", "p5")
	src.addRoster("L2025", 4, "u2", "p9")

	src.addDraft("L2024", "1001", "",
		pick("p1", "u1", 3, 1, 1),
		pick("p9", "u2", 4, 1, 2),
		pick("p2", "u1", 3, 2, 24),
	)
	src.addDraft("L2025", "1002", "",
		pick("p3", "u1", 3, 3, 25),
	)
	src.addTx("L2025", 2, domain.Transaction{
		ID:        "t1",
		Kind:      domain.TransactionTrade,
		Status:    domain.TransactionStatusComplete,
		RosterIDs: []int{3, 4},
		Adds:      map[string]int{"p4": 3, "p8": 4},
		CreatedAt: ms(2025, time.October, 1),
	})
	return src
}

func newTestService(src HistorySource, cache AcquisitionCache, metrics Metrics) *ProvenanceService {
	cfg := DefaultProvenanceConfig()
	cfg.Metrics = metrics
	return NewProvenanceService(src, cache, cfg)
}

func TestProvenanceService_Resolve(t *testing.T) {
	src := dynastySource()
	cache := newFakeCache()
	metrics := newCountingMetrics()
	svc := newTestService(src, cache, metrics)

	res, err := svc.Resolve(context.Background(), &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := map[string]struct {
		kind   domain.AcquisitionKind
		detail string
	}{
		"p1": {domain.AcquisitionStartupDraft, "1.01"},
		"p2": {domain.AcquisitionStartupDraft, "2.12"},
		"p3": {domain.AcquisitionRookieDraft, "2025 3.01"},
		"p4": {domain.AcquisitionTrade, "Trade (Oct 1, 2025)"},
		"p5": {domain.AcquisitionPreviousOwner, domain.PreviousOwnerDetail},
	}
	if len(res.Acquisitions) != len(want) {
		t.Fatalf("len(Acquisitions) = %d, want %d: %+v", len(res.Acquisitions), len(want), res.Acquisitions)
	}
	for id, w := range want {
		got := res.Acquisitions[id]
		if got.Kind != w.kind || got.Detail != w.detail {
			t.Errorf("%s = {%s %q}, want {%s %q}", id, got.Kind, got.Detail, w.kind, w.detail)
		}
	}

	if res.Cached {
		t.Error("Cached = true on first resolution")
	}
	if res.EarliestSeason != "2024" || res.StartupDraftID != "1001" {
		t.Errorf("diagnostics = %q/%q, want 2024/1001", res.EarliestSeason, res.StartupDraftID)
	}
	if res.FallbackReason != FallbackUnresolved || res.FallbackCount != 1 {
		t.Errorf("fallback = %q/%d, want unresolved/1", res.FallbackReason, res.FallbackCount)
	}
	if len(res.Lineage) != 2 || res.Lineage[0].LeagueID != "L2024" {
		t.Errorf("Lineage = %+v", res.Lineage)
	}

	if res.Degraded {
		t.Error("Degraded = true with every fetch succeeding")
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
	if ttl := cache.ttls[CacheKey("u1", "L2025")]; ttl != DefaultCacheTTL {
		t.Errorf("cache ttl = %v, want %v", ttl, DefaultCacheTTL)
	}
	if metrics.outcomes[OutcomeResolved] != 1 || metrics.lookups[CacheMiss] != 1 {
		t.Errorf("metrics = %v / %v", metrics.outcomes, metrics.lookups)
	}
}

func TestProvenanceService_NoRecordLeftUnknown(t *testing.T) {
	residualOnly := func() *fakeSource {
		src := newFakeSource()
		src.addLeague("L2023", "2023", "", 12)
		src.addRoster("L2023", 1, "u1", "p1")
		src.addTx("L2023", 1, domain.Transaction{
			ID:        "t9",
			Kind:      domain.TransactionOther,
			Status:    domain.TransactionStatusComplete,
			RosterIDs: []int{1},
			Adds:      map[string]int{"p1": 1},
			CreatedAt: ms(2023, time.September, 10),
		})
		return src
	}

	tests := []struct {
		name      string
		src       *fakeSource
		league    string
		fallbacks int
	}{
		{"dynasty lineage", dynastySource(), "L2025", 1},
		{"residual transaction only", residualOnly(), "L2023", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestService(tt.src, nil, nil).Resolve(context.Background(),
				&ResolveRequest{LeagueID: tt.league, ParticipantID: "u1"})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if len(res.Acquisitions) == 0 {
				t.Fatal("Acquisitions is empty")
			}
			for id, rec := range res.Acquisitions {
				if rec.Kind == domain.AcquisitionUnknown || rec.Kind == "" {
					t.Errorf("%s left Unknown after resolution: %+v", id, rec)
				}
			}
			if res.FallbackCount != tt.fallbacks {
				t.Errorf("FallbackCount = %d, want %d", res.FallbackCount, tt.fallbacks)
			}
		})
	}
}

func TestProvenanceService_TookOverTeam(t *testing.T) {
	src := newFakeSource()
	src.addLeague("L2024", "2024", "", 12)
	src.addLeague("L2025", "2025", "L2024", 12)
	src.addRoster("L2024", 3, "old", "p1", "p2")
	src.addRoster("L2025", 3, "u1", "p1", "p2")
	src.addDraft("L2024", "1001", "", pick("p1", "old", 3, 1, 1), pick("p2", "old", 3, 2, 24))

	res, err := newTestService(src, nil, nil).Resolve(context.Background(),
		&ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	for _, id := range []string{"p1", "p2"} {
		if rec := res.Acquisitions[id]; rec.Kind != domain.AcquisitionPreviousOwner {
			t.Errorf("%s = %+v, want PreviousOwner", id, rec)
		}
	}
	if res.FallbackReason != FallbackPriorDraftActivity {
		t.Errorf("FallbackReason = %q, want %q", res.FallbackReason, FallbackPriorDraftActivity)
	}
}

func TestProvenanceService_Redraft(t *testing.T) {
	redraft := domain.SettingsRedraft
	src := newFakeSource()
	src.addLeague("L2025", "2025", "", 10).SettingsType = &redraft
	src.addRoster("L2025", 2, "u1", "p1", "p2")
	src.addDraft("L2025", "77", "", pick("p1", "u1", 2, 1, 2), pick("p2", "u1", 2, 2, 19))

	res, err := newTestService(src, nil, nil).Resolve(context.Background(),
		&ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := map[string]string{"p1": "1.02", "p2": "2.09"}
	for id, detail := range want {
		rec := res.Acquisitions[id]
		if rec.Kind != domain.AcquisitionStartupDraft || rec.Detail != detail {
			t.Errorf("%s = %+v, want StartupDraft %s", id, rec, detail)
		}
	}
}

func TestProvenanceService_RosterUnavailable(t *testing.T) {
	src := dynastySource()
	src.fail("rosters", "L2025", domain.ErrUpstreamFetch)

	res, err := newTestService(src, nil, nil).Resolve(context.Background(),
		&ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Acquisitions) != 0 {
		t.Errorf("Acquisitions = %+v, want empty", res.Acquisitions)
	}
	if !res.Degraded {
		t.Error("Degraded = false, want true")
	}
}

func TestProvenanceService_RosterUnavailableNotCached(t *testing.T) {
	src := dynastySource()
	src.fail("rosters", "L2025", domain.ErrUpstreamFetch)
	cache := newFakeCache()
	svc := newTestService(src, cache, nil)
	req := &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"}

	if _, err := svc.Resolve(context.Background(), req); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cache.sets != 0 {
		t.Fatalf("cache sets = %d, want 0 while the current roster is unavailable", cache.sets)
	}

	src.fail("rosters", "L2025", nil)

	res, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Cached {
		t.Error("Cached = true after upstream recovered")
	}
	if len(res.Acquisitions) != 5 {
		t.Errorf("len(Acquisitions) = %d, want 5", len(res.Acquisitions))
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}

func TestProvenanceService_DegradedCachedBriefly(t *testing.T) {
	tests := []struct {
		name string
		op   string
		id   string
	}{
		{"historical drafts", "drafts", "L2024"},
		{"historical league", "league", "L2024"},
		{"transactions week", "transactions", "L2025/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := dynastySource()
			src.fail(tt.op, tt.id, domain.ErrUpstreamFetch)
			cache := newFakeCache()

			res, err := newTestService(src, cache, nil).Resolve(context.Background(),
				&ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !res.Degraded {
				t.Error("Degraded = false, want true")
			}
			if cache.sets != 1 {
				t.Fatalf("cache sets = %d, want 1", cache.sets)
			}
			if ttl := cache.ttls[CacheKey("u1", "L2025")]; ttl != DefaultDegradedCacheTTL {
				t.Errorf("cache ttl = %v, want %v", ttl, DefaultDegradedCacheTTL)
			}
		})
	}
}

func TestProvenanceService_CacheHit(t *testing.T) {
	src := dynastySource()
	cache := newFakeCache()
	metrics := newCountingMetrics()
	svc := newTestService(src, cache, metrics)
	req := &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"}

	first, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	calls := src.callCount("league", "L2025")

	second, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !second.Cached {
		t.Error("Cached = false on second resolution")
	}
	if !second.Acquisitions.Equal(first.Acquisitions) {
		t.Errorf("cached result differs:\n got  %+v\n want %+v", second.Acquisitions, first.Acquisitions)
	}
	if src.callCount("league", "L2025") != calls {
		t.Error("cache hit should not reach the source")
	}
	if metrics.lookups[CacheHit] != 1 || metrics.outcomes[OutcomeCached] != 1 {
		t.Errorf("metrics = %v / %v", metrics.lookups, metrics.outcomes)
	}
}

func TestProvenanceService_RefreshBypassesCache(t *testing.T) {
	src := dynastySource()
	cache := newFakeCache()
	cache.entries[CacheKey("u1", "L2025")] = domain.AcquisitionMap{"stale": domain.UnknownRecord()}
	svc := newTestService(src, cache, nil)

	res, err := svc.Resolve(context.Background(), &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1", Refresh: true})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Cached {
		t.Error("Cached = true with Refresh")
	}
	if _, ok := cache.entries[CacheKey("u1", "L2025")]["p1"]; !ok {
		t.Error("refresh should overwrite the cached entry")
	}
}

func TestProvenanceService_CacheReadFailureDegrades(t *testing.T) {
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	metrics := newCountingMetrics()

	res, err := newTestService(dynastySource(), cache, metrics).Resolve(context.Background(),
		&ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(res.Acquisitions) != 5 {
		t.Errorf("len(Acquisitions) = %d, want 5", len(res.Acquisitions))
	}
	if metrics.lookups[CacheError] != 1 {
		t.Errorf("lookups = %v, want one error", metrics.lookups)
	}
}

func TestProvenanceService_Idempotent(t *testing.T) {
	svc := newTestService(dynastySource(), nil, nil)
	req := &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"}

	first, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := svc.Resolve(context.Background(), req)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !again.Acquisitions.Equal(first.Acquisitions) {
			t.Fatalf("run %d differs:\n got  %+v\n want %+v", i, again.Acquisitions, first.Acquisitions)
		}
	}
}

func TestProvenanceService_CanceledLeavesCacheUntouched(t *testing.T) {
	src := dynastySource()
	cache := newFakeCache()
	metrics := newCountingMetrics()
	svc := newTestService(src, cache, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	src.onLeague = func(_ context.Context, id string) {
		if id == "L2024" {
			cancel()
		}
	}

	_, err := svc.Resolve(ctx, &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if !errors.Is(err, domain.ErrResolveCanceled) {
		t.Fatalf("Resolve() error = %v, want ErrResolveCanceled", err)
	}
	if domain.GetErrorCode(err) != "RT-RSLV-4990" {
		t.Errorf("code = %q, want RT-RSLV-4990", domain.GetErrorCode(err))
	}
	if cache.sets != 0 {
		t.Errorf("cache sets = %d, want 0", cache.sets)
	}
	if metrics.outcomes[OutcomeCanceled] != 1 {
		t.Errorf("outcomes = %v", metrics.outcomes)
	}
}

func TestProvenanceService_AlreadyCanceled(t *testing.T) {
	src := dynastySource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(src, newFakeCache(), nil).Resolve(ctx, &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"})
	if !domain.IsCanceled(err) {
		t.Fatalf("Resolve() error = %v, want cancellation", err)
	}
	if src.callCount("league", "L2025") != 0 {
		t.Error("canceled request should not reach the source")
	}
}

func TestProvenanceService_MissingArguments(t *testing.T) {
	svc := newTestService(newFakeSource(), nil, nil)

	tests := []*ResolveRequest{
		nil,
		{ParticipantID: "u1"},
		{LeagueID: "L1"},
	}
	for _, req := range tests {
		_, err := svc.Resolve(context.Background(), req)
		if !errors.Is(err, domain.ErrMissingArgument) {
			t.Errorf("Resolve(%+v) error = %v, want ErrMissingArgument", req, err)
		}
	}
}

func TestProvenanceService_Lineage(t *testing.T) {
	svc := newTestService(dynastySource(), nil, nil)

	nodes, err := svc.Lineage(context.Background(), "L2025")
	if err != nil {
		t.Fatalf("Lineage() error = %v", err)
	}
	if len(nodes) != 2 || nodes[0].Season != "2024" || nodes[1].Season != "2025" {
		t.Errorf("nodes = %+v", nodes)
	}

	if _, err := svc.Lineage(context.Background(), ""); !errors.Is(err, domain.ErrMissingArgument) {
		t.Errorf("Lineage(\"\") error = %v, want ErrMissingArgument", err)
	}
}

func TestProvenanceService_Invalidate(t *testing.T) {
	cache := newFakeCache()
	svc := newTestService(dynastySource(), cache, nil)
	req := &ResolveRequest{LeagueID: "L2025", ParticipantID: "u1"}

	if _, err := svc.Resolve(context.Background(), req); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if err := svc.Invalidate(context.Background(), "L2025", "u1"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok := cache.entries[CacheKey("u1", "L2025")]; ok {
		t.Error("entry should be removed")
	}

	res, err := svc.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Cached {
		t.Error("resolution after invalidate should not be cached")
	}

	if err := svc.Invalidate(context.Background(), "", "u1"); !errors.Is(err, domain.ErrMissingArgument) {
		t.Errorf("Invalidate() error = %v, want ErrMissingArgument", err)
	}
}

func TestProvenanceService_InvalidateWithoutCache(t *testing.T) {
	svc := newTestService(dynastySource(), nil, nil)
	if err := svc.Invalidate(context.Background(), "L2025", "u1"); err != nil {
		t.Errorf("Invalidate() error = %v, want nil", err)
	}
}
