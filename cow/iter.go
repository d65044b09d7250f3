package cow

import "iter"

// Seq is a lazy, single-pass, forward-only sequence of Cow elements produced
// by Elements. It cannot be restarted.
type Seq[E any] struct {
	items []E
	scope *Scope
	owned bool
	pos   int
}

// Elements returns a sequence over the elements of c.
//
// An owned slice is consumed element by element, each element moved out as
// Owned. The backing array is left untouched since other slices may share it.
// A borrowed slice yields Borrowed references to its elements, bound to the
// scope of c.
func Elements[E any](c Cow[[]E]) *Seq[E] {
	if v, ok := c.AsOwned(); ok {
		return &Seq[E]{items: v, owned: true}
	}

	if r, ok := c.AsBorrowed(); ok {
		return &Seq[E]{items: *r.Get(), scope: r.Scope()}
	}

	return &Seq[E]{}
}

// Next returns the next element and true, or the empty Cow and false once the
// sequence is exhausted.
func (s *Seq[E]) Next() (Cow[E], bool) {
	if s.pos >= len(s.items) {
		s.items = nil
		s.pos = 0

		return Cow[E]{}, false
	}

	i := s.pos
	s.pos++

	if s.owned {
		return Owned(s.items[i]), true
	}

	return Borrowed(s.scope, &s.items[i]), true
}

// Remaining returns the number of elements not yet produced.
func (s *Seq[E]) Remaining() int {
	return len(s.items) - s.pos
}

// All adapts the remaining elements to a range-over-func iterator. Breaking
// out of the loop leaves the rest of the sequence available to Next.
func (s *Seq[E]) All() iter.Seq[Cow[E]] {
	return func(yield func(Cow[E]) bool) {
		for {
			v, ok := s.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect drains the sequence into a slice.
func (s *Seq[E]) Collect() []Cow[E] {
	out := make([]Cow[E], 0, s.Remaining())
	for v := range s.All() {
		out = append(out, v)
	}

	return out
}
