package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/syncvar/pkg/domain"
)

// LogSink logs every change at Info level.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Record logs the raw change.
func (s *LogSink) Record(ctx context.Context, variable string, change domain.Change) error {
	attrs := []any{
		"variable", variable,
		"path", change.Path,
		"type", change.Type.String(),
	}
	if change.Type != domain.ChangeDelete {
		attrs = append(attrs, "value", change.Value)
	}
	if change.Attributes != nil {
		attrs = append(attrs, "attributes", *change.Attributes)
	}
	s.logger.InfoContext(ctx, "change", attrs...)
	return nil
}
