package ports

import (
	"context"

	"github.com/aretw0/syncvar/pkg/domain"
)

// Sink receives the changes of bound variables.
// Implementations are called synchronously on the mutating goroutine.
type Sink interface {
	Record(ctx context.Context, variable string, change domain.Change) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, variable string, change domain.Change) error

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, variable string, change domain.Change) error {
	return f(ctx, variable, change)
}
