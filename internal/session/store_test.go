package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/cart"
)

func TestStore_Create(t *testing.T) {
	t.Run("empty cart by default", func(t *testing.T) {
		s := NewStore()
		snap := s.Create()

		assert.NotEmpty(t, snap.ID)
		assert.Empty(t, snap.Lines)
		assert.Equal(t, "user-1", snap.User.ID)
		assert.False(t, snap.User.IsLoggedIn)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("demo cart", func(t *testing.T) {
		s := NewStore(WithDemoCart(true))
		snap := s.Create()
		assert.Equal(t, cart.DemoLines(), snap.Lines)
	})

	t.Run("clock", func(t *testing.T) {
		fixed := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
		s := NewStore(WithClock(func() time.Time { return fixed }))
		snap := s.Create()
		assert.Equal(t, fixed, snap.CreatedAt)
		assert.Equal(t, fixed, snap.UpdatedAt)
	})
}

func TestStore_GetOrCreate(t *testing.T) {
	s := NewStore()

	first, created := s.GetOrCreate("")
	assert.True(t, created)

	again, created := s.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	other, created := s.GetOrCreate("not-a-session")
	assert.True(t, created)
	assert.NotEqual(t, "not-a-session", other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Update(t *testing.T) {
	s := NewStore()
	snap := s.Create()

	updated, err := s.Update(snap.ID, func(st *State) error {
		_, err := st.Cart.AddLine("prod-2", "1g", 2)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []cart.Line{{ProductID: "prod-2", Variant: "1g", Quantity: 2}}, updated.Lines)

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Lines, got.Lines)

	boom := errors.New("boom")
	_, err = s.Update(snap.ID, func(*State) error { return boom })
	assert.True(t, errors.Is(err, boom))

	_, err = s.Update("missing", func(*State) error { return nil })
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_SnapshotsAreIsolated(t *testing.T) {
	s := NewStore(WithDemoCart(true))
	snap := s.Create()
	snap.Lines[0].Quantity = 50

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines[0].Quantity)
}

func TestStore_View(t *testing.T) {
	s := NewStore(WithDemoCart(true))
	snap := s.Create()

	var lines int
	err := s.View(snap.ID, func(st *State) error {
		lines = st.Cart.Len()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, lines)

	err = s.View("missing", func(*State) error { return nil })
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	snap := s.Create()
	s.Delete(snap.ID)

	_, err := s.Get(snap.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore()
	snap := s.Create()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(snap.ID, func(st *State) error {
				_, err := st.Cart.AddLine("prod-4", "100g", 1)
				return err
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(snap.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 100, got.Lines[0].Quantity)
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_Sweep(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(WithTTL(30*time.Minute), WithClock(clock.Now))

	idle := s.Create()
	active := s.Create()

	clock.Advance(20 * time.Minute)
	_, created := s.GetOrCreate(active.ID)
	require.False(t, created)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, err := s.Get(idle.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = s.Get(active.ID)
	require.NoError(t, err)

	t.Run("updates keep a state alive", func(t *testing.T) {
		clock.Advance(20 * time.Minute)
		_, err := s.Update(active.ID, func(*State) error { return nil })
		require.NoError(t, err)

		clock.Advance(25 * time.Minute)
		assert.Equal(t, 0, s.Sweep())
	})

	t.Run("expired id gets a fresh state", func(t *testing.T) {
		clock.Advance(31 * time.Minute)
		snap, created := s.GetOrCreate(active.ID)
		assert.True(t, created)
		assert.NotEqual(t, active.ID, snap.ID)
		assert.Equal(t, 1, s.Len())
	})
}

func TestStore_SweepWithoutTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(WithClock(clock.Now))
	s.Create()

	clock.Advance(24 * time.Hour)
	assert.Equal(t, 0, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestStore_MaxStatesEvictsLeastRecentlySeen(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(WithMaxStates(2), WithClock(clock.Now))

	first := s.Create()
	clock.Advance(time.Second)
	second := s.Create()
	clock.Advance(time.Second)

	// touching first makes second the oldest
	_, created := s.GetOrCreate(first.ID)
	require.False(t, created)
	clock.Advance(time.Second)

	for i := 0; i < 1000; i++ {
		s.GetOrCreate("")
		clock.Advance(time.Millisecond)
	}
	assert.Equal(t, 2, s.Len())

	_, err := s.Get(second.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Run(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(WithTTL(time.Minute), WithClock(clock.Now))
	s.Create()
	s.Create()
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond, func(n int) {
			select {
			case swept <- n:
			default:
			}
		})
		close(done)
	}()

	select {
	case n := <-swept:
		assert.Equal(t, 2, n)
	case <-time.After(time.Second):
		t.Fatal("Run did not sweep")
	}
	assert.Equal(t, 0, s.Len())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
