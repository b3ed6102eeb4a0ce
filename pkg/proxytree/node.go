package proxytree

import (
	"encoding/json"
	"log/slog"
	"reflect"
	"sort"

	"github.com/aretw0/syncvar/pkg/domain"
)

// Descriptor describes a property definition.
type Descriptor struct {
	// Value is the property value. Containers are wrapped before being stored.
	Value any

	// KeepValue leaves the current value untouched (nil for new keys) and
	// only applies the attributes.
	KeepValue bool

	domain.Attributes
}

// Node is a wrapped container. Its mutating methods apply the change to the
// node's private storage and, only on success, report it to the tree's ChangeFunc.
// A Node built from a slice or array is a list: its keys are decimal indexes.
type Node struct {
	path     string
	onChange domain.ChangeFunc
	props    properties
	list     bool
}

func newNode(path string, onChange domain.ChangeFunc) *Node {
	return &Node{
		path:     path,
		onChange: onChange,
		props:    make(properties),
	}
}

// Path returns the key path of the node itself.
func (n *Node) Path() string {
	return n.path
}

// Get returns the value stored at key. Container values are *Node.
func (n *Node) Get(key string) (any, bool) {
	prop, ok := n.props[key]
	if !ok {
		return nil, false
	}
	return prop.value, true
}

// IsList reports whether the node was built from a slice or array.
func (n *Node) IsList() bool {
	return n.list
}

// Has reports whether key is an own property, enumerable or not.
func (n *Node) Has(key string) bool {
	_, ok := n.props[key]
	return ok
}

// Lookup walks nested nodes along keys and returns the value found at the end.
func (n *Node) Lookup(keys ...string) (any, bool) {
	var current any = n
	for _, key := range keys {
		node, ok := current.(*Node)
		if !ok {
			return nil, false
		}
		if current, ok = node.Get(key); !ok {
			return nil, false
		}
	}
	return current, true
}

// Keys returns the enumerable keys in sorted order. List indexes sort numerically.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.props))
	for key, prop := range n.props {
		if prop.enumerable {
			keys = append(keys, key)
		}
	}
	if !n.list {
		sort.Strings(keys)
		return keys
	}
	sort.Slice(keys, func(a, b int) bool {
		ia, okA := index(keys[a])
		ib, okB := index(keys[b])
		if okA && okB {
			return ia < ib
		}
		if okA != okB {
			return okA
		}
		return keys[a] < keys[b]
	})
	return keys
}

// Len returns the number of enumerable keys.
func (n *Node) Len() int {
	count := 0
	for _, prop := range n.props {
		if prop.enumerable {
			count++
		}
	}
	return count
}

// Descriptor returns the full current definition of key.
func (n *Node) Descriptor(key string) (Descriptor, bool) {
	prop, ok := n.props[key]
	if !ok {
		return Descriptor{}, false
	}
	return Descriptor{
		Value: prop.value,
		Attributes: domain.Attributes{
			Writable:     domain.Bool(prop.writable),
			Enumerable:   domain.Bool(prop.enumerable),
			Configurable: domain.Bool(prop.configurable),
		},
	}, true
}

// Set assigns value to key. A container value is wrapped at the key's path
// before being stored; the emitted change carries the value as given.
func (n *Node) Set(key string, value any) error {
	stored := n.wrapValue(key, value)
	if err := n.props.set(key, stored); err != nil {
		return err
	}
	n.emit(domain.Change{
		Path:  domain.JoinPath(n.path, key),
		Type:  domain.ChangeSet,
		Value: value,
	})
	return nil
}

// Delete removes key. Removing an absent key succeeds.
func (n *Node) Delete(key string) error {
	if err := n.props.remove(key); err != nil {
		return err
	}
	n.emit(domain.Change{
		Path: domain.JoinPath(n.path, key),
		Type: domain.ChangeDelete,
	})
	return nil
}

// Define creates or redefines key with the attributes of desc.
// The emitted change carries the stored (wrapped) value and the given attributes.
func (n *Node) Define(key string, desc Descriptor) error {
	var stored any
	if !desc.KeepValue {
		stored = n.wrapValue(key, desc.Value)
	}
	if err := n.props.define(key, stored, desc.KeepValue, desc.Attributes); err != nil {
		return err
	}
	attrs := desc.Attributes
	n.emit(domain.Change{
		Path:       domain.JoinPath(n.path, key),
		Type:       domain.ChangeDefineProperty,
		Value:      stored,
		Attributes: &attrs,
	})
	return nil
}

func (n *Node) wrapValue(key string, value any) any {
	if !IsContainer(value) {
		return value
	}
	return traverse(value, domain.JoinPath(n.path, key), n.onChange)
}

func (n *Node) emit(change domain.Change) {
	if n.onChange != nil {
		n.onChange(change)
	}
}

// Snapshot returns a plain deep copy of the enumerable contents. Nested map
// nodes become map[string]any and nested list nodes become []any.
func (n *Node) Snapshot() map[string]any {
	out := make(map[string]any, len(n.props))
	for key, prop := range n.props {
		if prop.enumerable {
			out[key] = Plain(prop.value)
		}
	}
	return out
}

func (n *Node) plain() any {
	if n.list {
		return listOf(n.Snapshot())
	}
	return n.Snapshot()
}

// MarshalJSON encodes the enumerable contents, as an array for list nodes.
// Func values are skipped, or encoded as null inside lists.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.jsonValue())
}

func (n *Node) jsonValue() any {
	out := make(map[string]any, len(n.props))
	for key, prop := range n.props {
		if !prop.enumerable {
			continue
		}
		switch v := prop.value.(type) {
		case *Node:
			out[key] = v.jsonValue()
		case nil:
			out[key] = nil
		default:
			if reflect.TypeOf(v).Kind() == reflect.Func {
				if n.list {
					out[key] = nil
				}
				continue
			}
			out[key] = v
		}
	}
	if n.list {
		return listOf(out)
	}
	return out
}

// LogValue renders the node as its snapshot in structured logs.
func (n *Node) LogValue() slog.Value {
	return slog.AnyValue(n.Snapshot())
}
