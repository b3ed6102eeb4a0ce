package proxytree

import (
	"reflect"
	"strconv"

	"github.com/aretw0/syncvar/pkg/domain"
)

// ErrInvalidTarget is returned by Construct and Wrap for values that are not containers.
var ErrInvalidTarget = domain.ErrInvalidTarget

// Construct returns a wrapped deep copy of obj whose key paths start at domain.RootSentinel.
// obj itself is never modified. onChange may be nil.
func Construct(obj any, onChange domain.ChangeFunc) (*Node, error) {
	if !IsContainer(obj) {
		return nil, ErrInvalidTarget
	}
	return traverse(obj, domain.RootSentinel, onChange), nil
}

// Wrap replaces scope[key] with a wrapped copy of its current value.
// The value previously held by scope[key] is not modified by later writes
// through the wrapped tree, and no other key of scope changes.
func Wrap(scope map[string]any, key string, onChange domain.ChangeFunc) error {
	if scope == nil {
		return ErrInvalidTarget
	}
	target, ok := scope[key]
	if !ok || !IsContainer(target) {
		return ErrInvalidTarget
	}

	node, err := Construct(shallowCopy(target), onChange)
	if err != nil {
		return err
	}
	scope[key] = node
	return nil
}

// IsContainer reports whether v is wrapped as a Node rather than stored as a leaf.
// Containers are non-nil *Node values, maps keyed by strings or integers
// (dynamic keys included) and slices or arrays other than byte slices.
// A nil interface is a leaf.
func IsContainer(v any) bool {
	switch t := v.(type) {
	case nil, []byte:
		return false
	case *Node:
		return t != nil
	case map[string]any, []any:
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Map:
		switch rv.Type().Key().Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		case reflect.Interface:
			iter := rv.MapRange()
			for iter.Next() {
				if _, ok := formatKey(iter.Key()); !ok {
					return false
				}
			}
			return true
		}
	}
	return false
}

// isList reports whether obj is indexed by position.
func isList(obj any) bool {
	if node, ok := obj.(*Node); ok {
		return node.list
	}
	kind := reflect.ValueOf(obj).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// traverse builds the Node for obj at prefix, wrapping nested containers with extended paths.
func traverse(obj any, prefix string, onChange domain.ChangeFunc) *Node {
	node := newNode(prefix, onChange)
	node.list = isList(obj)
	for key, value := range entries(obj) {
		if IsContainer(value) {
			value = traverse(value, domain.JoinPath(prefix, key), onChange)
		}
		node.props[key] = plainProperty(value)
	}
	return node
}

// entries lists the enumerable entries of a container with normalized keys.
// List elements are keyed by their decimal index.
func entries(obj any) map[string]any {
	switch t := obj.(type) {
	case *Node:
		out := make(map[string]any, len(t.props))
		for key, prop := range t.props {
			if prop.enumerable {
				out[key] = prop.value
			}
		}
		return out
	case map[string]any:
		return t
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make(map[string]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[strconv.Itoa(i)] = rv.Index(i).Interface()
		}
		return out
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, _ := formatKey(iter.Key())
		out[key] = iter.Value().Interface()
	}
	return out
}

// shallowCopy copies the top level of a container, keeping its list shape.
func shallowCopy(obj any) any {
	src := entries(obj)
	if isList(obj) {
		return listOf(src)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// listOf orders index-keyed values into a slice. Missing indexes are nil
// and keys that are not indexes are ignored.
func listOf(byIndex map[string]any) []any {
	size := 0
	for key := range byIndex {
		if i, ok := index(key); ok && i >= size {
			size = i + 1
		}
	}
	out := make([]any, size)
	for key, v := range byIndex {
		if i, ok := index(key); ok {
			out[i] = v
		}
	}
	return out
}

func index(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

// formatKey normalizes a map key to its string form. Interface keys are
// formatted by their dynamic kind.
func formatKey(k reflect.Value) (string, bool) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", false
		}
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), true
	}
	return "", false
}

// Plain returns a deep copy of v with every container converted to
// map[string]any or []any. Nodes contribute their enumerable contents.
// Leaves are returned as-is.
func Plain(v any) any {
	if !IsContainer(v) {
		return v
	}
	if node, ok := v.(*Node); ok {
		return node.plain()
	}
	src := entries(v)
	out := make(map[string]any, len(src))
	for k, child := range src {
		out[k] = Plain(child)
	}
	if isList(v) {
		return listOf(out)
	}
	return out
}
