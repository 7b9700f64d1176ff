package shop

import "fmt"

// Reading is the outcome of a perception step: either a parsed value or
// unrecognized. A known zero and an unrecognized value are different things.
type Reading[T any] struct {
	value T
	ok    bool
}

// Known wraps a successfully parsed value.
func Known[T any](v T) Reading[T] {
	return Reading[T]{value: v, ok: true}
}

// Unrecognized reports that nothing usable was read.
func Unrecognized[T any]() Reading[T] {
	return Reading[T]{}
}

func (r Reading[T]) Get() (T, bool) { return r.value, r.ok }

func (r Reading[T]) IsKnown() bool { return r.ok }

// OrZero returns the value, or the zero value when unrecognized.
func (r Reading[T]) OrZero() T { return r.value }

func (r Reading[T]) String() string {
	if !r.ok {
		return "?"
	}
	return fmt.Sprint(r.value)
}
