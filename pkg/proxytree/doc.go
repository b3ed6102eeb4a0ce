/*
Package proxytree implements the recursive interception engine of syncvar.

Construct deep copies a container (any Go map keyed by strings or integers, a
slice or array, or an existing *Node) into a tree of *Node values. Slice elements
are keyed by their decimal index, so a map inside a list lives at a path such as
"____root.items.0". Every nested container becomes a
*Node, both at construction time and whenever a container is later stored through
Set or Define. Each Node knows its key path, rooted at domain.RootSentinel, and
reports every applied mutation to the domain.ChangeFunc it was built with.

	var changes []domain.Change
	root, err := proxytree.Construct(map[string]any{"a": map[string]any{}}, func(c domain.Change) {
		changes = append(changes, c)
	})
	if err != nil {
		return err
	}
	_ = root.Set("x", 5) // changes: {"____root.x", set, 5}

Mutations that the property storage rejects (writing a non-writable property,
deleting or redefining a non-configurable one) return ErrNotWritable or
ErrNotConfigurable unchanged and emit nothing.

A Node performs no locking. Callers sharing a tree between goroutines must
serialize access themselves.
*/
package proxytree
