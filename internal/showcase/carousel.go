package showcase

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
)

// DefaultInterval is how long a hero slide stays up before auto-advancing
const DefaultInterval = 5 * time.Second

var ErrSlideOutOfRange = errors.New("slide index out of range")

// CarouselState is what the homepage renders
type CarouselState struct {
	Index  int                `json:"index"`
	Slide  models.HeroSlide   `json:"slide"`
	Slides []models.HeroSlide `json:"slides"`
}

// Carousel rotates the hero slides. Run drives the auto-advance; any manual
// move restarts the countdown so there is never more than one pending
// advance.
type Carousel struct {
	mu       sync.RWMutex
	slides   []models.HeroSlide
	current  int
	moves    uint64 // bumped by every manual move
	interval time.Duration
	moved    chan struct{}
}

// NewCarousel creates a carousel positioned on the first slide
func NewCarousel(slides []models.HeroSlide, interval time.Duration) *Carousel {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Carousel{
		slides:   append([]models.HeroSlide(nil), slides...),
		interval: interval,
		moved:    make(chan struct{}, 1),
	}
}

// State returns the current slide and the full deck
func (c *Carousel) State() CarouselState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	st := CarouselState{
		Index:  c.current,
		Slides: append([]models.HeroSlide(nil), c.slides...),
	}
	if len(c.slides) > 0 {
		st.Slide = c.slides[c.current]
	}
	return st
}

// Index returns the current slide position
func (c *Carousel) Index() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Next moves forward, wrapping from the last slide to the first
func (c *Carousel) Next() CarouselState {
	c.step(1)
	c.signal()
	return c.State()
}

// Prev moves back, wrapping from the first slide to the last
func (c *Carousel) Prev() CarouselState {
	c.step(-1)
	c.signal()
	return c.State()
}

// Select jumps to slide i
func (c *Carousel) Select(i int) (CarouselState, error) {
	c.mu.Lock()
	if i < 0 || i >= len(c.slides) {
		c.mu.Unlock()
		return CarouselState{}, errors.Wrapf(ErrSlideOutOfRange, "%d", i)
	}
	c.current = i
	c.moves++
	c.mu.Unlock()

	c.signal()
	return c.State(), nil
}

func (c *Carousel) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.moves++
	c.advance(delta)
}

func (c *Carousel) advance(delta int) {
	n := len(c.slides)
	if n == 0 {
		return
	}
	c.current = ((c.current+delta)%n + n) % n
}

// armed returns the move count a countdown starts from
func (c *Carousel) armed() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.moves
}

// autoAdvance steps forward unless a manual move happened after the
// countdown was armed at seq. It reports whether it advanced.
func (c *Carousel) autoAdvance(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.moves != seq {
		return false
	}
	c.advance(1)
	return true
}

// signal tells Run to restart its countdown. It never blocks: one pending
// signal is enough.
func (c *Carousel) signal() {
	select {
	case c.moved <- struct{}{}:
	default:
	}
}

// Run auto-advances the carousel every interval until ctx is cancelled.
func (c *Carousel) Run(ctx context.Context) {
	seq := c.armed()
	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			// a manual move that raced the timer wins; its signal is
			// still pending and restarts the countdown
			c.autoAdvance(seq)
			seq = c.armed()
			timer.Reset(c.interval)
		case <-c.moved:
			seq = c.armed()
			timer.Reset(c.interval)
		}
	}
}
