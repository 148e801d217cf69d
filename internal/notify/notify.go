// Package notify carries user-facing notifications (the storefront's toasts)
// out of the service layer without coupling it to a transport.
package notify

import (
	"context"
	"sync"
)

// Level classifies a notification for display
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient message shown to the shopper
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Dispatcher delivers notifications
type Dispatcher interface {
	Notify(ctx context.Context, n Notification)
}

// Success dispatches a success notification
func Success(ctx context.Context, d Dispatcher, msg string) {
	d.Notify(ctx, Notification{Level: LevelSuccess, Message: msg})
}

// Error dispatches an error notification
func Error(ctx context.Context, d Dispatcher, msg string) {
	d.Notify(ctx, Notification{Level: LevelError, Message: msg})
}

// Info dispatches an informational notification
func Info(ctx context.Context, d Dispatcher, msg string) {
	d.Notify(ctx, Notification{Level: LevelInfo, Message: msg})
}

// Collector buffers notifications so a request handler can return them with
// its response.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{items: make([]Notification, 0)}
}

func (c *Collector) Notify(_ context.Context, n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
}

// Notifications returns a copy of everything collected so far
func (c *Collector) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Last returns the most recent notification, if any.
func (c *Collector) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}

type discard struct{}

func (discard) Notify(context.Context, Notification) {}

// Discard drops every notification
var Discard Dispatcher = discard{}
