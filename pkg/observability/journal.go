package observability

import (
	"context"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/ports"
)

// JournalSink appends every change to a journal.
type JournalSink struct {
	journal ports.Journal
}

// NewJournalSink adapts journal to ports.Sink.
func NewJournalSink(journal ports.Journal) *JournalSink {
	return &JournalSink{journal: journal}
}

// Record appends the change.
func (s *JournalSink) Record(ctx context.Context, variable string, change domain.Change) error {
	_, err := s.journal.Append(ctx, variable, change)
	return err
}
