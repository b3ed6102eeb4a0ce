package proxytree

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/aretw0/syncvar/pkg/domain"
)

var (
	// ErrNotWritable is returned when assigning to a non-writable property.
	ErrNotWritable = errors.New("cannot assign to read only property")

	// ErrNotConfigurable is returned when deleting or redefining a non-configurable property.
	ErrNotConfigurable = errors.New("cannot change non-configurable property")
)

type property struct {
	value        any
	writable     bool
	enumerable   bool
	configurable bool
}

func plainProperty(value any) *property {
	return &property{value: value, writable: true, enumerable: true, configurable: true}
}

// properties is the private storage of a Node.
// Its rules follow ordinary data properties: assignment creates fully open
// properties, definition defaults omitted attributes to false for new keys and
// keeps them for existing ones.
type properties map[string]*property

func (p properties) set(key string, value any) error {
	prop, ok := p[key]
	if !ok {
		p[key] = plainProperty(value)
		return nil
	}
	if !prop.writable {
		return fmt.Errorf("%w: %q", ErrNotWritable, key)
	}
	prop.value = value
	return nil
}

func (p properties) remove(key string) error {
	prop, ok := p[key]
	if !ok {
		return nil
	}
	if !prop.configurable {
		return fmt.Errorf("%w: cannot delete %q", ErrNotConfigurable, key)
	}
	delete(p, key)
	return nil
}

func (p properties) define(key string, value any, keepValue bool, attrs domain.Attributes) error {
	current, ok := p[key]
	if !ok {
		prop := &property{
			writable:     valueOr(attrs.Writable, false),
			enumerable:   valueOr(attrs.Enumerable, false),
			configurable: valueOr(attrs.Configurable, false),
		}
		if !keepValue {
			prop.value = value
		}
		p[key] = prop
		return nil
	}

	if !current.configurable {
		if valueOr(attrs.Configurable, false) {
			return fmt.Errorf("%w: cannot redefine %q", ErrNotConfigurable, key)
		}
		if attrs.Enumerable != nil && *attrs.Enumerable != current.enumerable {
			return fmt.Errorf("%w: cannot redefine %q", ErrNotConfigurable, key)
		}
		if !current.writable {
			if valueOr(attrs.Writable, false) {
				return fmt.Errorf("%w: cannot redefine %q", ErrNotConfigurable, key)
			}
			if !keepValue && !SameValue(value, current.value) {
				return fmt.Errorf("%w: cannot redefine %q", ErrNotConfigurable, key)
			}
		}
	}

	if !keepValue {
		current.value = value
	}
	current.writable = valueOr(attrs.Writable, current.writable)
	current.enumerable = valueOr(attrs.Enumerable, current.enumerable)
	current.configurable = valueOr(attrs.Configurable, current.configurable)
	return nil
}

func valueOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

// SameValue reports whether a and b are the same value for redefinition checks.
// NaN equals NaN, funcs compare by code pointer, and nodes, maps and other
// reference types compare by identity.
func SameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	case reflect.Func, reflect.Map, reflect.Slice, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}

	if va.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
