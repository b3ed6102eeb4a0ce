package domain

import (
	"fmt"
	"time"
)

// ChangeType represents the kind of mutation applied to a wrapped tree.
type ChangeType int

const (
	// ChangeSet indicates a value was assigned.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a key was removed.
	ChangeDelete

	// ChangeDefineProperty indicates a property was (re)defined with attributes.
	ChangeDefineProperty
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeDefineProperty:
		return "define_property"
	default:
		return "unknown"
	}
}

// MarshalText encodes the change type by name.
func (c ChangeType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a change type name.
func (c *ChangeType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "set":
		*c = ChangeSet
	case "delete":
		*c = ChangeDelete
	case "define_property":
		*c = ChangeDefineProperty
	default:
		return fmt.Errorf("unknown change type %q", text)
	}
	return nil
}

// Attributes holds the optional attributes of a property definition.
// A nil field means the attribute was not given.
type Attributes struct {
	Writable     *bool `json:"writable,omitempty" yaml:"writable,omitempty" mapstructure:"writable"`
	Enumerable   *bool `json:"enumerable,omitempty" yaml:"enumerable,omitempty" mapstructure:"enumerable"`
	Configurable *bool `json:"configurable,omitempty" yaml:"configurable,omitempty" mapstructure:"configurable"`
}

// IsEmpty reports whether no attribute is set.
func (a Attributes) IsEmpty() bool {
	return a.Writable == nil && a.Enumerable == nil && a.Configurable == nil
}

// Bool returns a pointer to b, for building Attributes literals.
func Bool(b bool) *bool {
	return &b
}

// Change is a single applied mutation.
type Change struct {
	// Path is the dotted key path from the root sentinel to the mutated key.
	Path string `json:"path"`

	// Type is the kind of mutation.
	Type ChangeType `json:"type"`

	// Value is the assigned value. Nil for deletes.
	Value any `json:"value,omitempty"`

	// Attributes are the definition attributes excluding the value.
	// Only set for ChangeDefineProperty.
	Attributes *Attributes `json:"attributes,omitempty"`
}

// ChangeFunc receives every applied mutation of a wrapped tree, synchronously.
type ChangeFunc func(change Change)

// Record is a Change as kept by a journal.
type Record struct {
	ID        string    `json:"id"`
	Variable  string    `json:"variable"`
	Timestamp time.Time `json:"timestamp"`
	Change    Change    `json:"change"`
}
