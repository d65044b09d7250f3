package cow

import (
	"errors"
	"sync/atomic"
)

// ErrScopeEnded is raised when borrowed data is read after its scope ended.
var ErrScopeEnded = errors.New("cow: borrow scope has ended")

// Scope bounds the validity of borrowed references. Views decomposed from a
// borrowed input must not be used once the scope of that input has ended.
//
// A nil *Scope is valid and never ends.
type Scope struct {
	ended atomic.Bool
}

// NewScope returns a live scope. Call End when the borrowed data goes away.
func NewScope() *Scope {
	return &Scope{}
}

// End closes the scope. Every Ref bound to it panics on access afterwards.
func (s *Scope) End() {
	if s != nil {
		s.ended.Store(true)
	}
}

// Alive reports whether references bound to s may still be read.
func (s *Scope) Alive() bool {
	return s == nil || !s.ended.Load()
}

func (s *Scope) check() {
	if !s.Alive() {
		panic(ErrScopeEnded)
	}
}

// With runs fn with a fresh scope and ends it when fn returns.
func With(fn func(s *Scope)) {
	s := NewScope()
	defer s.End()

	fn(s)
}

// Ref is a borrowed reference bound to a Scope.
type Ref[T any] struct {
	scope *Scope
	ptr   *T
}

// NewRef binds p to s. It panics if p is nil.
func NewRef[T any](s *Scope, p *T) Ref[T] {
	if p == nil {
		panic("cow: borrow of nil pointer")
	}

	return Ref[T]{scope: s, ptr: p}
}

// Reborrow binds p to the scope of r. It is used to reach a field of a
// borrowed value without copying it.
func Reborrow[T, U any](r Ref[T], p *U) Ref[U] {
	return NewRef(r.scope, p)
}

// Get returns the referenced pointer.
// It panics with ErrScopeEnded after the scope ended and with ErrEmpty on a zero Ref.
func (r Ref[T]) Get() *T {
	if r.ptr == nil {
		panic(ErrEmpty)
	}

	r.scope.check()

	return r.ptr
}

// Scope returns the scope r is bound to.
func (r Ref[T]) Scope() *Scope {
	return r.scope
}

// Valid reports whether r can be read.
func (r Ref[T]) Valid() bool {
	return r.ptr != nil && r.scope.Alive()
}
