package proxytree_test

import (
	"math"
	"testing"

	"github.com/aretw0/syncvar/pkg/proxytree"
	"github.com/stretchr/testify/assert"
)

func TestSameValue(t *testing.T) {
	fn := func() {}
	m := map[string]any{}
	node, _ := proxytree.Construct(map[string]any{}, nil)
	other, _ := proxytree.Construct(map[string]any{}, nil)

	assert.True(t, proxytree.SameValue(nil, nil))
	assert.True(t, proxytree.SameValue(1, 1))
	assert.True(t, proxytree.SameValue("a", "a"))
	assert.True(t, proxytree.SameValue(math.NaN(), math.NaN()))
	assert.True(t, proxytree.SameValue(fn, fn))
	assert.True(t, proxytree.SameValue(m, m))
	assert.True(t, proxytree.SameValue(node, node))

	assert.False(t, proxytree.SameValue(nil, 0))
	assert.False(t, proxytree.SameValue(1, int64(1)))
	assert.False(t, proxytree.SameValue(1.0, 2.0))
	assert.False(t, proxytree.SameValue(node, other))
	assert.False(t, proxytree.SameValue(map[string]any{}, map[string]any{}))
}
