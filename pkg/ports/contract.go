package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	variable := "contract-test-var-" + time.Now().Format("20060102150405")

	t.Run("Append and List", func(t *testing.T) {
		changes := []domain.Change{
			{Path: domain.RootSentinel + ".a", Type: domain.ChangeSet, Value: "bar"},
			{Path: domain.RootSentinel + ".a", Type: domain.ChangeDelete},
			{
				Path:       domain.RootSentinel + ".b",
				Type:       domain.ChangeDefineProperty,
				Value:      "baz",
				Attributes: &domain.Attributes{Writable: domain.Bool(false)},
			},
		}

		ids := make([]string, 0, len(changes))
		for _, c := range changes {
			rec, err := journal.Append(ctx, variable, c)
			require.NoError(t, err, "Append should not return error")
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, variable, rec.Variable)
			assert.False(t, rec.Timestamp.IsZero())
			ids = append(ids, rec.ID)
		}

		records, err := journal.List(ctx, variable)
		require.NoError(t, err, "List should not return error")
		require.Len(t, records, len(changes))

		for i, rec := range records {
			assert.Equal(t, ids[i], rec.ID, "records must keep append order")
			assert.Equal(t, changes[i].Path, rec.Change.Path)
			assert.Equal(t, changes[i].Type, rec.Change.Type)
			assert.Equal(t, changes[i].Value, rec.Change.Value)
		}
		require.NotNil(t, records[2].Change.Attributes)
		require.NotNil(t, records[2].Change.Attributes.Writable)
		assert.False(t, *records[2].Change.Attributes.Writable)
		assert.Nil(t, records[0].Change.Attributes)
	})

	t.Run("Payload Is Captured At Append", func(t *testing.T) {
		captured := variable + "-captured"
		defer journal.Clear(ctx, captured)

		value := map[string]any{"k": "before", "nested": map[string]any{"n": "before"}}
		node, err := proxytree.Construct(map[string]any{"k": "before"}, nil)
		require.NoError(t, err)

		_, err = journal.Append(ctx, captured, domain.Change{Path: domain.RootSentinel + ".a", Type: domain.ChangeSet, Value: value})
		require.NoError(t, err)
		_, err = journal.Append(ctx, captured, domain.Change{Path: domain.RootSentinel + ".b", Type: domain.ChangeDefineProperty, Value: node})
		require.NoError(t, err)

		value["k"] = "after"
		value["nested"].(map[string]any)["n"] = "after"
		require.NoError(t, node.Set("k", "after"))

		records, err := journal.List(ctx, captured)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, map[string]any{"k": "before", "nested": map[string]any{"n": "before"}}, records[0].Change.Value)
		assert.Equal(t, map[string]any{"k": "before"}, records[1].Change.Value)
	})

	t.Run("Variables", func(t *testing.T) {
		names, err := journal.Variables(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, variable)
	})

	t.Run("List Unknown", func(t *testing.T) {
		records, err := journal.List(ctx, "unknown-"+variable)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, journal.Clear(ctx, variable))

		records, err := journal.List(ctx, variable)
		require.NoError(t, err)
		assert.Empty(t, records)

		names, err := journal.Variables(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, variable)
	})
}
