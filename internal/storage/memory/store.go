// Package memory provides in-memory storage for RosterTrace.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/rostertrace/pkg/cmap"
)

// DefaultSweepInterval is the default interval between expiry sweeps.
const DefaultSweepInterval = time.Minute

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("memory store closed")

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Store is an in-memory key/value store with per-entry TTL.
type Store struct {
	entries *cmap.Map[string, entry]

	now           func() time.Time
	sweepInterval time.Duration

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

// Option configures the Store.
type Option func(*Store)

// WithSweepInterval sets the expiry sweep interval. Zero disables sweeping;
// expired entries are then only dropped on read.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		s.sweepInterval = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithShards sets the shard count of the underlying map.
func WithShards(n int) Option {
	return func(s *Store) {
		s.entries = cmap.NewWithShards[string, entry](n)
	}
}

// New creates a new in-memory store and starts its sweeper.
func New(opts ...Option) *Store {
	s := &Store{
		entries:       cmap.New[string, entry](),
		now:           time.Now,
		sweepInterval: DefaultSweepInterval,
		closed:        make(chan struct{}),
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.sweepInterval > 0 {
		go s.sweepLoop()
	} else {
		close(s.done)
	}

	return s
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s.isClosed() {
		return nil, false, ErrClosed
	}

	e, ok := s.entries.Get(key)
	if !ok {
		return nil, false, nil
	}

	now := s.now()
	if e.expired(now) {
		s.entries.DeleteIf(key, func(cur entry) bool { return cur.expired(now) })
		return nil, false, nil
	}

	return clone(e.value), true, nil
}

// Set stores a copy of value under key. ttl <= 0 stores without expiry.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.isClosed() {
		return ErrClosed
	}

	e := entry{value: clone(value)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries.Set(key, e)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	if s.isClosed() {
		return ErrClosed
	}
	s.entries.Delete(key)
	return nil
}

// Ping reports whether the store is usable.
func (s *Store) Ping(_ context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	return nil
}

// Len returns the number of stored entries, including expired entries
// not yet swept.
func (s *Store) Len() int {
	return s.entries.Count()
}

// Sweep removes expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	return s.entries.Sweep(func(_ string, e entry) bool {
		return e.expired(now)
	})
}

// Close stops the sweeper and drops all entries.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
		<-s.done
		s.entries.Clear()
	})
	return nil
}

func (s *Store) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Store) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.closed:
			return
		}
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
