// Package nullable provides a three-state JSON field wrapper that tells
// apart a field omitted from the payload, a field explicitly set to null,
// and a field carrying a value. A plain pointer collapses the first two
// states, which makes it impossible to intentionally clear an optional
// field in a sparse update.
package nullable

import (
	"bytes"
	"encoding/json"
)

// Nullable wraps a value of type T. The zero value means "not supplied".
type Nullable[T any] struct {
	value   T
	present bool
	null    bool
}

// Value returns a Nullable carrying v.
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{value: v, present: true}
}

// Null returns a Nullable that was explicitly set to null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{present: true, null: true}
}

// IsSet reports whether the field appeared in the payload at all,
// either as null or as a value.
func (n Nullable[T]) IsSet() bool { return n.present }

// IsNull reports whether the field was explicitly set to null.
func (n Nullable[T]) IsNull() bool { return n.present && n.null }

// Get returns the wrapped value. The second result is false when the
// field was omitted or null.
func (n Nullable[T]) Get() (T, bool) {
	if !n.present || n.null {
		var zero T
		return zero, false
	}
	return n.value, true
}

// MustGet returns the wrapped value and panics when no value is present.
// Callers are expected to have checked with Get or IsSet first.
func (n Nullable[T]) MustGet() T {
	v, ok := n.Get()
	if !ok {
		panic("nullable: no value present")
	}
	return v
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.present = true
	if bytes.Equal(data, []byte("null")) {
		n.null = true
		var zero T
		n.value = zero
		return nil
	}
	n.null = false
	return json.Unmarshal(data, &n.value)
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.present || n.null {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}
