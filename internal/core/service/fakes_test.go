package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yndnr/rostertrace/internal/core/domain"
)

// fakeSource is an in-memory HistorySource for testing.
type fakeSource struct {
	mu      sync.Mutex
	leagues map[string]*domain.League
	rosters map[string][]domain.RosterSnapshot
	drafts  map[string][]domain.DraftRecord
	picks   map[string][]domain.DraftPick
	txs     map[string]map[int][]domain.Transaction
	errs    map[string]error // "op:id" -> error
	calls   map[string]int   // "op:id" -> count

	// onLeague runs before every League call (used to trigger cancellation).
	onLeague func(ctx context.Context, id string)
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		leagues: make(map[string]*domain.League),
		rosters: make(map[string][]domain.RosterSnapshot),
		drafts:  make(map[string][]domain.DraftRecord),
		picks:   make(map[string][]domain.DraftPick),
		txs:     make(map[string]map[int][]domain.Transaction),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (f *fakeSource) addLeague(id, season, prev string, teams int) *domain.League {
	l := &domain.League{LeagueID: id, Season: season, PreviousLeagueID: prev, TotalTeams: teams}
	f.leagues[id] = l
	return l
}

func (f *fakeSource) addRoster(leagueID string, rosterID int, owner string, players ...string) {
	f.rosters[leagueID] = append(f.rosters[leagueID], domain.RosterSnapshot{
		RosterID:  rosterID,
		OwnerID:   owner,
		PlayerIDs: players,
	})
}

func (f *fakeSource) addDraft(leagueID, draftID string, declared domain.DraftType, picks ...domain.DraftPick) {
	f.drafts[leagueID] = append(f.drafts[leagueID], domain.DraftRecord{DraftID: draftID, DeclaredType: declared})
	f.picks[draftID] = picks
}

func (f *fakeSource) addTx(leagueID string, week int, tx domain.Transaction) {
	if f.txs[leagueID] == nil {
		f.txs[leagueID] = make(map[int][]domain.Transaction)
	}
	f.txs[leagueID][week] = append(f.txs[leagueID][week], tx)
}

// fail makes op:id return err; a nil err clears the failure.
func (f *fakeSource) fail(op, id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op+":"+id] = err
}

func (f *fakeSource) record(op, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op+":"+id]++
	return f.errs[op+":"+id]
}

func (f *fakeSource) callCount(op, id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op+":"+id]
}

func (f *fakeSource) League(ctx context.Context, id string) (*domain.League, error) {
	if f.onLeague != nil {
		f.onLeague(ctx, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record("league", id); err != nil {
		return nil, err
	}
	l, ok := f.leagues[id]
	if !ok {
		return nil, domain.ErrUpstreamNotFound.WithDetails(id)
	}
	dup := *l
	return &dup, nil
}

func (f *fakeSource) Rosters(ctx context.Context, id string) ([]domain.RosterSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record("rosters", id); err != nil {
		return nil, err
	}
	return append([]domain.RosterSnapshot(nil), f.rosters[id]...), nil
}

func (f *fakeSource) Drafts(ctx context.Context, id string) ([]domain.DraftRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record("drafts", id); err != nil {
		return nil, err
	}
	return append([]domain.DraftRecord(nil), f.drafts[id]...), nil
}

func (f *fakeSource) DraftPicks(ctx context.Context, id string) ([]domain.DraftPick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record("picks", id); err != nil {
		return nil, err
	}
	return append([]domain.DraftPick(nil), f.picks[id]...), nil
}

func (f *fakeSource) Transactions(ctx context.Context, id string, week int) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.record("transactions", fmt.Sprintf("%s/%d", id, week)); err != nil {
		return nil, err
	}
	return append([]domain.Transaction(nil), f.txs[id][week]...), nil
}

// fakeCache is an in-memory AcquisitionCache for testing.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.AcquisitionMap
	ttls    map[string]time.Duration
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]domain.AcquisitionMap),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(_ context.Context, key string) (domain.AcquisitionMap, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v.Clone(), ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value domain.AcquisitionMap, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value.Clone()
	c.ttls[key] = ttl
	c.sets++
	return nil
}

// countingMetrics records resolver observations.
type countingMetrics struct {
	mu        sync.Mutex
	outcomes  map[string]int
	lookups   map[string]int
	failures  map[string]int
	fallbacks map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		outcomes:  make(map[string]int),
		lookups:   make(map[string]int),
		failures:  make(map[string]int),
		fallbacks: make(map[string]int),
	}
}

func (m *countingMetrics) ObserveResolution(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *countingMetrics) ObserveCacheLookup(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[result]++
}

func (m *countingMetrics) ObserveUpstreamFailure(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op]++
}

func (m *countingMetrics) ObserveFallback(reason string, players int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks[reason] += players
}

func pick(player, by string, rosterID, round, no int) domain.DraftPick {
	return domain.DraftPick{PlayerID: player, PickedBy: by, RosterID: rosterID, Round: round, PickNumber: no}
}

func ms(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
