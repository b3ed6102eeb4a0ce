// Package polling declares the handlers that will synchronize variables by
// polling a remote peer. The HTTP and TCP handlers are placeholders: their
// hooks return ErrNotImplemented until a transport is designed.
package polling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/syncvar/pkg/domain"
)

// DefaultInterval is the polling interval used when none is configured.
const DefaultInterval = 3 * time.Second

// ErrNotImplemented is returned by the hooks of the placeholder handlers.
var ErrNotImplemented = errors.New("polling hook not implemented")

// Handler is a polling synchronization strategy.
type Handler interface {
	// Interval is the time between two poll cycles.
	Interval() time.Duration

	// Request issues a single request to the peer.
	Request(ctx context.Context) error

	// Poll performs one poll cycle.
	Poll(ctx context.Context) error

	// OnChange reacts to a local change of the variable.
	OnChange(variable string, change domain.Change)
}

// Base carries the interval shared by every handler. Its hooks are abstract.
type Base struct {
	interval time.Duration
}

// NewBase creates a Base. A non-positive interval falls back to DefaultInterval.
func NewBase(interval time.Duration) Base {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Base{interval: interval}
}

// Interval returns the configured interval.
func (b Base) Interval() time.Duration {
	if b.interval <= 0 {
		return DefaultInterval
	}
	return b.interval
}

// Request is abstract.
func (b Base) Request(ctx context.Context) error {
	return fmt.Errorf("%w: implement Request", ErrNotImplemented)
}

// Poll is abstract.
func (b Base) Poll(ctx context.Context) error {
	return fmt.Errorf("%w: implement Poll", ErrNotImplemented)
}

// OnChange ignores the change.
func (b Base) OnChange(variable string, change domain.Change) {}

// HTTPPolling will poll a peer over HTTP.
type HTTPPolling struct {
	Base
}

// NewHTTPPolling creates an HTTP polling handler.
func NewHTTPPolling(interval time.Duration) *HTTPPolling {
	return &HTTPPolling{Base: NewBase(interval)}
}

// TCPPolling will poll a peer over a raw TCP connection.
type TCPPolling struct {
	Base
}

// NewTCPPolling creates a TCP polling handler.
func NewTCPPolling(interval time.Duration) *TCPPolling {
	return &TCPPolling{Base: NewBase(interval)}
}

// Run calls h.Poll every h.Interval() until ctx is done or Poll fails.
// A canceled context returns ctx.Err().
func Run(ctx context.Context, h Handler) error {
	ticker := time.NewTicker(h.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := h.Poll(ctx); err != nil {
				return fmt.Errorf("poll failed: %w", err)
			}
		}
	}
}
