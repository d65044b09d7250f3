package cow

// AsDeref collapses one indirection level: a Cow[T] becomes a Cow[U] where T
// borrows through to U. Owned values are converted into U's owned form,
// borrowed values are re-borrowed to the U inside the referent under the same
// scope.
//
// PT is inferred from T, so callers write AsDeref[Name, string](c).
func AsDeref[T, U any, PT Borrower[T, U]](c Cow[T]) Cow[U] {
	if v, ok := c.AsOwned(); ok {
		return Owned(*PT(&v).Deref())
	}

	if r, ok := c.AsBorrowed(); ok {
		return FromRef(Reborrow(r, PT(r.Get()).Deref()))
	}

	return Cow[U]{}
}
