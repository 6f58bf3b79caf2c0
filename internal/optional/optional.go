// Package optional distinguishes a field that was omitted from a payload
// from one that was sent, possibly as null.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value records whether a JSON field was present and, if so, whether it
// was null. The zero Value is "absent".
type Value[T any] struct {
	Present bool
	Null    bool
	Val     T
}

// Of returns a present, non-null Value.
func Of[T any](v T) Value[T] {
	return Value[T]{Present: true, Val: v}
}

// Null returns a present Value holding JSON null.
func Null[T any]() Value[T] {
	return Value[T]{Present: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what marks the Value as present.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	v.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Null = true
		var zero T
		v.Val = zero
		return nil
	}
	v.Null = false
	return json.Unmarshal(data, &v.Val)
}

// MarshalJSON writes null for absent or null values.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.Present || v.Null {
		return []byte("null"), nil
	}
	return json.Marshal(v.Val)
}

// Ptr returns nil for an absent or null Value, otherwise a pointer to a
// copy of the value.
func (v Value[T]) Ptr() *T {
	if !v.Present || v.Null {
		return nil
	}
	val := v.Val
	return &val
}
