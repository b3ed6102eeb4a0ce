package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/oklog/ulid/v2"
)

// Journal implements ports.Journal in memory.
// Safe for concurrent use.
type Journal struct {
	data map[string][]domain.Record
	mu   sync.RWMutex
}

// NewJournal creates a new in-memory journal.
func NewJournal() *Journal {
	return &Journal{
		data: make(map[string][]domain.Record),
	}
}

// Append records the change. Container payloads are copied as plain values,
// so later mutations of the tree or of the caller's map do not show up in List.
func (j *Journal) Append(ctx context.Context, variable string, change domain.Change) (domain.Record, error) {
	rec := domain.Record{
		ID:        ulid.Make().String(),
		Variable:  variable,
		Timestamp: time.Now().UTC(),
		Change:    copyChange(change),
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.data[variable] = append(j.data[variable], rec)
	return rec, nil
}

// List returns a copy of the record slice.
func (j *Journal) List(ctx context.Context, variable string) ([]domain.Record, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	records := j.data[variable]
	out := make([]domain.Record, len(records))
	copy(out, records)
	return out, nil
}

// Clear removes the records of the variable.
func (j *Journal) Clear(ctx context.Context, variable string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.data, variable)
	return nil
}

// Variables returns the recorded variable names, sorted.
func (j *Journal) Variables(ctx context.Context) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	names := make([]string, 0, len(j.data))
	for name := range j.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func copyChange(c domain.Change) domain.Change {
	c.Value = proxytree.Plain(c.Value)
	if c.Attributes != nil {
		attrs := *c.Attributes
		c.Attributes = &attrs
	}
	return c
}
