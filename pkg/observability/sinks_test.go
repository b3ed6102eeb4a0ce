package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/syncvar/pkg/adapters/memory"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/observability"
	"github.com/aretw0/syncvar/pkg/ports"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The sinks must satisfy the port.
var (
	_ ports.Sink = (*observability.LogSink)(nil)
	_ ports.Sink = (*observability.Metrics)(nil)
	_ ports.Sink = (*observability.JournalSink)(nil)
)

func TestLogSink_RecordsRawTuple(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	sink := observability.NewLogSink(logger)

	node, err := proxytree.Construct(map[string]any{"z": 1}, nil)
	require.NoError(t, err)

	err = sink.Record(context.Background(), "grid", domain.Change{
		Path:       "____root.c",
		Type:       domain.ChangeDefineProperty,
		Value:      node,
		Attributes: &domain.Attributes{},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=change")
	assert.Contains(t, out, "variable=grid")
	assert.Contains(t, out, "path=____root.c")
	assert.Contains(t, out, "type=define_property")
	assert.Contains(t, out, "value=map[z:1]")
}

func TestLogSink_DeleteHasNoValue(t *testing.T) {
	var buf bytes.Buffer
	sink := observability.NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sink.Record(context.Background(), "grid", domain.Change{Path: "____root.a", Type: domain.ChangeDelete}))
	assert.NotContains(t, buf.String(), "value=")
}

func TestMetrics_CountsByVariableAndType(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, metrics.Record(ctx, "grid", domain.Change{Type: domain.ChangeSet}))
	require.NoError(t, metrics.Record(ctx, "grid", domain.Change{Type: domain.ChangeSet}))
	require.NoError(t, metrics.Record(ctx, "grid", domain.Change{Type: domain.ChangeDelete}))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Changes().WithLabelValues("grid", "set")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Changes().WithLabelValues("grid", "delete")))

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err, "registering twice should fail")
}

func TestJournalSink_Appends(t *testing.T) {
	journal := memory.NewJournal()
	sink := observability.NewJournalSink(journal)
	ctx := context.Background()

	require.NoError(t, sink.Record(ctx, "grid", domain.Change{Path: "____root.a", Type: domain.ChangeSet, Value: 1}))

	records, err := journal.List(ctx, "grid")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Change.Value)
}
