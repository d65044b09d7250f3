package cow

// Unnest collapses a Cow of a Cow into a single owned Cow.
//
//   - Owned(Owned(v)) moves v out without copying.
//   - Owned(Borrowed(p)) duplicates *p.
//   - Borrowed(Owned(v)) and Borrowed(Borrowed(p)) duplicate the innermost
//     value only; the inner Cow itself is never copied.
//
// An empty outer or inner Cow yields the empty Cow.
func Unnest[T any](c Cow[Cow[T]]) Cow[T] {
	var inner *Cow[T]

	switch c.state {
	case stateOwned:
		if c.val.IsZero() {
			return Cow[T]{}
		}

		return Owned(c.val.IntoOwned())
	case stateBorrowed:
		inner = c.ref.Get()
	default:
		return Cow[T]{}
	}

	switch inner.state {
	case stateOwned:
		return Owned(Clone(inner.val))
	case stateBorrowed:
		return Owned(Clone(*inner.ref.Get()))
	default:
		return Cow[T]{}
	}
}
