package syncvar_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/syncvar"
	"github.com/aretw0/syncvar/pkg/adapters/memory"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/observability"
	"github.com/aretw0/syncvar/pkg/polling"
	"github.com/aretw0/syncvar/pkg/ports"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records every dispatched change.
type captureSink struct {
	mu      sync.Mutex
	changes map[string][]domain.Change
}

func newCaptureSink() *captureSink {
	return &captureSink{changes: make(map[string][]domain.Change)}
}

func (c *captureSink) Record(ctx context.Context, variable string, change domain.Change) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes[variable] = append(c.changes[variable], change)
	return nil
}

func TestBinder_BindDispatchesChanges(t *testing.T) {
	sink := newCaptureSink()
	binder := syncvar.New(syncvar.WithSinks(sink))

	grid, err := binder.Bind("grid", map[string]any{"cells": map[string]any{}})
	require.NoError(t, err)

	cells, _ := grid.Get("cells")
	require.NoError(t, cells.(*proxytree.Node).Set("a", 1))

	assert.Equal(t, []domain.Change{
		{Path: "____root.cells.a", Type: domain.ChangeSet, Value: 1},
	}, sink.changes["grid"])
}

func TestBinder_BindScope(t *testing.T) {
	sink := newCaptureSink()
	binder := syncvar.New(syncvar.WithSinks(sink))

	scope := map[string]any{"sharedObject": map[string]any{"a": 1}}
	require.NoError(t, binder.BindScope("shared", scope, "sharedObject"))

	node, ok := scope["sharedObject"].(*proxytree.Node)
	require.True(t, ok)

	looked, err := binder.Lookup("shared")
	require.NoError(t, err)
	assert.Same(t, node, looked)

	require.NoError(t, node.Delete("a"))
	assert.Equal(t, []domain.Change{{Path: "____root.a", Type: domain.ChangeDelete}}, sink.changes["shared"])
}

func TestBinder_InvalidTarget(t *testing.T) {
	binder := syncvar.New()

	_, err := binder.Bind("n", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	err = binder.BindScope("s", map[string]any{"n": 5}, "n")
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)

	// Failed binds release the name.
	assert.Empty(t, binder.Names())
	_, err = binder.Bind("n", map[string]any{})
	assert.NoError(t, err)
}

func TestBinder_DuplicateName(t *testing.T) {
	binder := syncvar.New()

	_, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)

	_, err = binder.Bind("grid", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrAlreadyBound)
}

func TestBinder_LookupAndNames(t *testing.T) {
	binder := syncvar.New()

	_, err := binder.Lookup("missing")
	assert.ErrorIs(t, err, domain.ErrVariableNotFound)

	for _, name := range []string{"b", "a"} {
		_, err := binder.Bind(name, map[string]any{})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b"}, binder.Names())
}

func TestBinder_UnbindStopsDispatch(t *testing.T) {
	sink := newCaptureSink()
	binder := syncvar.New(syncvar.WithSinks(sink))

	old, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)
	binder.Unbind("grid")

	fresh, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)

	require.NoError(t, old.Set("stale", true))
	require.NoError(t, fresh.Set("live", true))

	require.Len(t, sink.changes["grid"], 1)
	assert.Equal(t, "____root.live", sink.changes["grid"][0].Path)
}

func TestBinder_DefaultSinkLogs(t *testing.T) {
	var buf bytes.Buffer
	binder := syncvar.New(syncvar.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	grid, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)
	require.NoError(t, grid.Set("x", 5))

	assert.Contains(t, buf.String(), "path=____root.x")
	assert.Contains(t, buf.String(), "type=set")
	assert.Contains(t, buf.String(), "value=5")
}

func TestBinder_SinkFailureDoesNotReachCaller(t *testing.T) {
	var buf bytes.Buffer
	failing := ports.SinkFunc(func(ctx context.Context, variable string, change domain.Change) error {
		return errors.New("disk full")
	})
	journal := memory.NewJournal()
	binder := syncvar.New(
		syncvar.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		syncvar.WithSinks(failing, observability.NewJournalSink(journal)),
	)

	grid, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)
	assert.NoError(t, grid.Set("x", 1))

	assert.Contains(t, buf.String(), "disk full")
	records, err := journal.List(context.Background(), "grid")
	require.NoError(t, err)
	assert.Len(t, records, 1, "later sinks still receive the change")
}

func TestBinder_RejectedMutationIsNotDispatched(t *testing.T) {
	sink := newCaptureSink()
	binder := syncvar.New(syncvar.WithSinks(sink))

	grid, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)
	require.NoError(t, grid.Define("locked", proxytree.Descriptor{Value: 1}))

	assert.ErrorIs(t, grid.Set("locked", 2), proxytree.ErrNotWritable)
	assert.ErrorIs(t, grid.Delete("locked"), proxytree.ErrNotConfigurable)
	assert.Len(t, sink.changes["grid"], 1)
}

// spyHandler records OnChange calls.
type spyHandler struct {
	polling.Base
	seen []string
}

func (s *spyHandler) OnChange(variable string, change domain.Change) {
	s.seen = append(s.seen, change.Path)
}

func TestBinder_Connect(t *testing.T) {
	binder := syncvar.New()
	ctx := context.Background()

	conn, err := binder.Connect(ctx, "grid", syncvar.ConnectConfig{Method: syncvar.MethodTCP, Host: "localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "grid", conn.Name)
	assert.Equal(t, "localhost:9000", conn.Config.Host)
	assert.IsType(t, &polling.TCPPolling{}, conn.Handler())
	assert.Equal(t, polling.DefaultInterval, conn.Handler().Interval())

	conn, err = binder.Connect(ctx, "grid", syncvar.ConnectConfig{Method: syncvar.MethodHTTP, PollingInterval: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &polling.HTTPPolling{}, conn.Handler())
	assert.Equal(t, time.Second, conn.Handler().Interval())

	_, err = binder.Connect(ctx, "grid", syncvar.ConnectConfig{Method: "carrier-pigeon"})
	assert.ErrorIs(t, err, domain.ErrUnknownMethod)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = binder.Connect(canceled, "grid", syncvar.ConnectConfig{Method: syncvar.MethodHTTP})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBinder_ConnectedHandlerSeesChanges(t *testing.T) {
	binder := syncvar.New()
	grid, err := binder.Bind("grid", map[string]any{})
	require.NoError(t, err)

	conn, err := binder.Connect(context.Background(), "grid", syncvar.ConnectConfig{
		Method:  syncvar.MethodHTTP,
		Handler: &spyHandler{},
	})
	require.NoError(t, err)

	require.NoError(t, grid.Set("x", 1))
	assert.Equal(t, []string{"____root.x"}, conn.Handler().(*spyHandler).seen)
}
