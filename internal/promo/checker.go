package promo

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/notify"
)

const (
	MsgEmptyCode   = "Please enter a promo code"
	MsgInvalidCode = "Invalid promo code"
)

var ErrEmptyCode = errors.New("promo code is required")

// Result is the outcome of a promo code check
type Result struct {
	Code     string `json:"code"`
	Valid    bool   `json:"valid"`
	Discount int64  `json:"discount"`
	Message  string `json:"message"`
}

// Checker validates promo codes entered at the cart.
//
// No promo programme exists yet: every non-empty code is reported as
// invalid and the discount is always zero. The check waits for a fixed
// latency to stand in for the remote validation call.
type Checker struct {
	latency  time.Duration
	checked  atomic.Int64
	rejected atomic.Int64
}

// NewChecker creates a checker that waits latency before answering
func NewChecker(latency time.Duration) *Checker {
	return &Checker{latency: latency}
}

// Check validates code and notifies d of the outcome. An empty code returns
// ErrEmptyCode without waiting. A cancelled ctx aborts the wait.
func (c *Checker) Check(ctx context.Context, code string, d notify.Dispatcher) (Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		notify.Error(ctx, d, MsgEmptyCode)
		return Result{Message: MsgEmptyCode}, ErrEmptyCode
	}

	if err := wait(ctx, c.latency); err != nil {
		return Result{}, errors.Wrap(err, "check promo code")
	}

	c.checked.Add(1)
	c.rejected.Add(1)

	notify.Error(ctx, d, MsgInvalidCode)
	return Result{Code: code, Valid: false, Discount: 0, Message: MsgInvalidCode}, nil
}

// GetStats returns counters for monitoring
func (c *Checker) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"checked":  c.checked.Load(),
		"rejected": c.rejected.Load(),
		"accepted": c.checked.Load() - c.rejected.Load(),
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
