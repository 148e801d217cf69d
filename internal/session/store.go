// Package session owns the per-shopper application state: the cart and the
// mock user. State lives only in process memory and expires after a period
// without requests.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

var ErrNotFound = errors.New("session not found")

// State is the application state of one shopper
type State struct {
	ID        string
	Cart      *cart.Cart
	User      models.User
	CreatedAt time.Time
	UpdatedAt time.Time
	// LastSeen is the last time a request resolved or changed this state
	LastSeen time.Time
}

// Snapshot is a read-only copy of a State
type Snapshot struct {
	ID        string      `json:"id"`
	Lines     []cart.Line `json:"lines"`
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		Lines:     s.Cart.Lines(),
		User:      s.User,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Store keeps states in memory. All access is serialised through its lock,
// so a State is only ever mutated by one caller at a time.
type Store struct {
	mu        sync.RWMutex
	states    map[string]*State
	seedDemo  bool
	ttl       time.Duration
	maxStates int
	now       func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithDemoCart seeds every new cart with cart.DemoLines
func WithDemoCart(enabled bool) Option {
	return func(s *Store) { s.seedDemo = enabled }
}

// WithTTL expires states that have not been seen for d. Zero keeps states
// forever.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithMaxStates caps the number of live states. Creating one past the cap
// evicts the least recently seen state. Zero means no cap.
func WithMaxStates(n int) Option {
	return func(s *Store) { s.maxStates = n }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		states: make(map[string]*State),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new state with a guest user
func (s *Store) Create() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create().snapshot()
}

func (s *Store) create() *State {
	if s.maxStates > 0 && len(s.states) >= s.maxStates {
		s.evictOldest()
	}

	var lines []cart.Line
	if s.seedDemo {
		lines = cart.DemoLines()
	}

	now := s.now().UTC()
	st := &State{
		ID:        uuid.NewString(),
		Cart:      cart.New(lines...),
		User:      models.GuestUser(),
		CreatedAt: now,
		UpdatedAt: now,
		LastSeen:  now,
	}
	s.states[st.ID] = st
	return st
}

func (s *Store) evictOldest() {
	var oldest *State
	for _, st := range s.states {
		if oldest == nil || st.LastSeen.Before(oldest.LastSeen) {
			oldest = st
		}
	}
	if oldest != nil {
		delete(s.states, oldest.ID)
	}
}

// Get returns a snapshot of the state with the given id
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return st.snapshot(), nil
}

// GetOrCreate returns the state for id, creating a fresh one when id is
// empty, unknown or expired. The returned bool reports whether a state was
// created. A state that is returned counts as seen.
func (s *Store) GetOrCreate(id string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if st, ok := s.states[id]; ok {
		if !s.expired(st, now) {
			st.LastSeen = now
			return st.snapshot(), false
		}
		delete(s.states, id)
	}
	return s.create().snapshot(), true
}

func (s *Store) expired(st *State, now time.Time) bool {
	return s.ttl > 0 && now.Sub(st.LastSeen) > s.ttl
}

// Sweep drops every state not seen within the TTL and returns how many were
// removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	removed := 0
	for id, st := range s.states {
		if s.expired(st, now) {
			delete(s.states, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired states every interval until ctx is cancelled. onSweep,
// when non-nil, is called with the number of states removed by each sweep
// that removed any.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// Update runs fn with exclusive access to the state. Changes made by fn are
// kept even when it returns an error, so fn should validate before mutating.
func (s *Store) Update(id string, fn func(*State) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	err := fn(st)
	st.UpdatedAt = s.now().UTC()
	st.LastSeen = st.UpdatedAt
	return st.snapshot(), err
}

// View runs fn with shared access to the state. fn must not mutate it.
func (s *Store) View(id string, fn func(*State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[id]
	if !ok {
		return ErrNotFound
	}
	return fn(st)
}

// Delete drops a state
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

// Len returns the number of live states
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}
