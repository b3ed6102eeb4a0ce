package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/syncvar/pkg/adapters/memory"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJournal_Contract(t *testing.T) {
	journal := memory.NewJournal()
	ports.RunJournalContract(t, journal)
}

func TestMemoryJournal_ListIsACopy(t *testing.T) {
	journal := memory.NewJournal()
	ctx := context.Background()

	_, err := journal.Append(ctx, "v", domain.Change{Path: "____root.a", Type: domain.ChangeSet, Value: 1})
	require.NoError(t, err)

	records, err := journal.List(ctx, "v")
	require.NoError(t, err)
	records[0].Change.Path = "tampered"

	records, err = journal.List(ctx, "v")
	require.NoError(t, err)
	assert.Equal(t, "____root.a", records[0].Change.Path)
}

func TestMemoryJournal_ConcurrentAppend(t *testing.T) {
	journal := memory.NewJournal()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = journal.Append(ctx, "v", domain.Change{Path: "____root.n", Type: domain.ChangeSet})
		}()
	}
	wg.Wait()

	records, err := journal.List(ctx, "v")
	require.NoError(t, err)
	assert.Len(t, records, 50)
}
