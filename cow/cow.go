// Package cow provides copy-on-write values and the runtime strategies used by
// code generated with butcher-generator.
//
// A Cow[T] is either an owned T or a scoped reference to a T owned by someone
// else. Generated codecs split a Cow of a struct or union into a view whose
// fields are derived from the source fields by a per-field Strategy, and join
// such a view back into an owned value.
//
// Key types:
//   - Cow: the owned-or-borrowed value
//   - Ref: a runtime-checked handle to borrowed data, bound to a Scope
//   - Scope: the lifetime of a set of borrows
//   - Strategy: Regular, Copy, Flatten, Unbox and Recurse
//   - Codec: the capability implemented by every generated codec
package cow

import (
	"errors"
	"fmt"
)

// ErrEmpty is raised when an empty Cow or a zero Ref is dereferenced.
var ErrEmpty = errors.New("cow: empty value")

type state uint8

const (
	stateEmpty state = iota
	stateOwned
	stateBorrowed
)

// Cow is a value that is either owned or borrowed from data owned elsewhere.
//
// The zero Cow is empty. It is produced by the Unbox strategy for nil pointers
// and turns back into the zero value of T.
type Cow[T any] struct {
	state state
	val   T
	ref   Ref[T]
}

// Owned wraps v as an owned value.
func Owned[T any](v T) Cow[T] {
	return Cow[T]{state: stateOwned, val: v}
}

// Borrowed wraps a reference to *p that stays valid while s is alive.
// A nil scope never ends.
func Borrowed[T any](s *Scope, p *T) Cow[T] {
	return FromRef(NewRef(s, p))
}

// FromRef wraps an existing reference.
func FromRef[T any](r Ref[T]) Cow[T] {
	if r.ptr == nil {
		return Cow[T]{}
	}

	return Cow[T]{state: stateBorrowed, ref: r}
}

// IsOwned reports whether c holds an owned value.
func (c Cow[T]) IsOwned() bool {
	return c.state == stateOwned
}

// IsBorrowed reports whether c holds a reference.
func (c Cow[T]) IsBorrowed() bool {
	return c.state == stateBorrowed
}

// IsZero reports whether c is empty.
func (c Cow[T]) IsZero() bool {
	return c.state == stateEmpty
}

// AsOwned returns the owned value and true, or the zero value and false.
func (c Cow[T]) AsOwned() (T, bool) {
	if c.state != stateOwned {
		var zero T
		return zero, false
	}

	return c.val, true
}

// AsBorrowed returns the reference and true, or a zero Ref and false.
func (c Cow[T]) AsBorrowed() (Ref[T], bool) {
	if c.state != stateBorrowed {
		return Ref[T]{}, false
	}

	return c.ref, true
}

// Get returns a shallow copy of the held value. Empty values yield the zero T.
// It panics with ErrScopeEnded when a borrowed value outlived its scope.
func (c Cow[T]) Get() T {
	switch c.state {
	case stateOwned:
		return c.val
	case stateBorrowed:
		return *c.ref.Get()
	default:
		var zero T
		return zero
	}
}

// Ptr returns a pointer to the held value: the borrowed referent itself, or a
// pointer to a copy of the owned value. Empty values yield nil.
func (c Cow[T]) Ptr() *T {
	switch c.state {
	case stateOwned:
		v := c.val
		return &v
	case stateBorrowed:
		return c.ref.Get()
	default:
		return nil
	}
}

// IntoOwned returns an owned value. Owned values are moved out, borrowed
// values are duplicated with Clone.
func (c Cow[T]) IntoOwned() T {
	switch c.state {
	case stateOwned:
		return c.val
	case stateBorrowed:
		return Clone(*c.ref.Get())
	default:
		var zero T
		return zero
	}
}

// String implements fmt.Stringer.
func (c Cow[T]) String() string {
	switch c.state {
	case stateOwned:
		return fmt.Sprintf("Owned(%v)", c.val)
	case stateBorrowed:
		if !c.ref.scope.Alive() {
			return "Borrowed(<ended>)"
		}

		return fmt.Sprintf("Borrowed(%v)", *c.ref.ptr)
	default:
		return "Empty"
	}
}
