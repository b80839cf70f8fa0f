// Package nullable models JSON fields that distinguish "omitted" from
// "present with null". The zero Value is omitted when the field is tagged
// `omitzero`; Null() encodes as null; Of(v) encodes v.
package nullable

import (
	"bytes"
	"encoding/json"
)

// Value is an optional JSON value with explicit presence.
type Value[T any] struct {
	v       T
	present bool
	valid   bool
}

// Of returns a present, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{v: v, present: true, valid: true}
}

// Null returns a present value that encodes as JSON null.
func Null[T any]() Value[T] {
	return Value[T]{present: true}
}

// FromPtr maps nil to Null and anything else to Of.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Null[T]()
	}
	return Of(*p)
}

// IsZero reports whether the value was never set. encoding/json consults it for `omitzero`.
func (n Value[T]) IsZero() bool { return !n.present }

// IsNull reports whether the value is present but null.
func (n Value[T]) IsNull() bool { return n.present && !n.valid }

// Get returns the value and whether it is present and non-null.
func (n Value[T]) Get() (T, bool) { return n.v, n.valid }

// OrNull returns n when it was set and Null otherwise.
func (n Value[T]) OrNull() Value[T] {
	if n.present {
		return n
	}
	return Null[T]()
}

func (n Value[T]) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

func (n *Value[T]) UnmarshalJSON(data []byte) error {
	n.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.v, n.valid = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &n.v); err != nil {
		return err
	}
	n.valid = true
	return nil
}
