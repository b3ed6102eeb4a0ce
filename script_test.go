package syncvar_test

import (
	"testing"

	"github.com/aretw0/syncvar"
	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScript(t *testing.T) {
	script, err := syncvar.LoadScript("testdata/grid.yaml")
	require.NoError(t, err)

	assert.Equal(t, "grid", script.Name)
	assert.Equal(t, map[string]any{"a": 0}, script.Initial["cells"])
	require.Len(t, script.Steps, 7)
	assert.Equal(t, syncvar.OpDefine, script.Steps[3].Op)
	require.NotNil(t, script.Steps[3].Writable)
	assert.False(t, *script.Steps[3].Writable)
}

func TestScript_Run(t *testing.T) {
	script, err := syncvar.LoadScript("testdata/grid.yaml")
	require.NoError(t, err)

	sink := newCaptureSink()
	binder := syncvar.New(syncvar.WithSinks(sink))

	root, results, err := script.Run(binder)
	require.NoError(t, err)
	require.Len(t, results, 7)

	for i, res := range results {
		switch i {
		case 4:
			assert.ErrorIs(t, res.Err, proxytree.ErrNotWritable, "step %d", i)
		case 6:
			assert.ErrorIs(t, res.Err, syncvar.ErrInvalidPath, "step %d", i)
		default:
			assert.NoError(t, res.Err, "step %d", i)
		}
	}

	assert.Equal(t, map[string]any{
		"size":  2,
		"cells": map[string]any{"b": map[string]any{"color": "blue"}},
	}, root.Snapshot())

	paths := make([]string, 0, len(sink.changes["grid"]))
	for _, c := range sink.changes["grid"] {
		paths = append(paths, c.Path+" "+c.Type.String())
	}
	assert.Equal(t, []string{
		"____root.cells.a set",
		"____root.cells.b set",
		"____root.cells.b.color set",
		"____root.version define_property",
		"____root.cells.a delete",
	}, paths)
}

func TestStep_Apply_InvalidPaths(t *testing.T) {
	root, err := proxytree.Construct(map[string]any{"leaf": 1}, nil)
	require.NoError(t, err)

	for _, path := range []string{"", "leaf.x", "a.", "nope.x"} {
		err := syncvar.Step{Op: syncvar.OpSet, Path: path, Value: 1}.Apply(root)
		assert.ErrorIs(t, err, syncvar.ErrInvalidPath, "path %q", path)
	}

	err = syncvar.Step{Op: "rename", Path: "leaf"}.Apply(root)
	assert.Error(t, err)
}

func TestStep_Apply_DefineKeepValue(t *testing.T) {
	root, err := proxytree.Construct(map[string]any{"a": 1}, nil)
	require.NoError(t, err)

	step := syncvar.Step{
		Op:         syncvar.OpDefine,
		Path:       "a",
		KeepValue:  true,
		Attributes: domain.Attributes{Enumerable: domain.Bool(false)},
	}
	require.NoError(t, step.Apply(root))

	v, _ := root.Get("a")
	assert.Equal(t, 1, v)
	assert.Empty(t, root.Keys())
}
