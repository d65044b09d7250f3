package cow

//go:generate go tool stringer -type=Tag -linecomment

// Tag names a field strategy.
type Tag uint8

const (
	TagRegular Tag = iota // regular
	TagCopy               // copy
	TagFlatten            // flatten
	TagUnbox              // unbox
	TagRecurse            // rebutcher
)

// tagNames lists the spellings accepted in annotations. "recurse" is an alias
// of "rebutcher".
var tagNames = map[string]Tag{
	"regular":   TagRegular,
	"copy":      TagCopy,
	"flatten":   TagFlatten,
	"unbox":     TagUnbox,
	"rebutcher": TagRecurse,
	"recurse":   TagRecurse,
}

// ParseTag returns the Tag spelled by name.
func ParseTag(name string) (Tag, bool) {
	t, ok := tagNames[name]
	return t, ok
}

// TagNames returns every accepted spelling, canonical names first.
func TagNames() []string {
	return []string{"regular", "copy", "flatten", "unbox", "rebutcher", "recurse"}
}

// Strategy derives a view field of type O from a source field of type T and
// recovers the owned source field from it.
type Strategy[T, O any] interface {
	Tag() Tag
	// FromOwned consumes an owned field.
	FromOwned(v T) O
	// FromBorrowed derives the output from a borrowed field without copying,
	// unless the strategy itself copies.
	FromBorrowed(r Ref[T]) O
	// Recover turns an unmodified output back into an owned field.
	Recover(o O) T
}

// Codec is implemented by generated codecs. V is the view type of T.
type Codec[T, V any] interface {
	Decompose(in Cow[T]) V
	Recompose(v V) T
}

var (
	_ Strategy[int, Cow[int]]  = Regular[int]{}
	_ Strategy[int, int]       = Copy[int]{}
	_ Strategy[*int, Cow[int]] = Unbox[int]{}
)

// Regular wraps a field in a Cow. Borrowed fields are referenced, not copied.
type Regular[T any] struct{}

func (Regular[T]) Tag() Tag { return TagRegular }

func (Regular[T]) FromOwned(v T) Cow[T] { return Owned(v) }

func (Regular[T]) FromBorrowed(r Ref[T]) Cow[T] { return FromRef(r) }

func (Regular[T]) Recover(c Cow[T]) T { return c.IntoOwned() }

// Copy hands the field out as a plain value. Borrowed fields are cloned, so
// the result never aliases the input.
type Copy[T any] struct{}

func (Copy[T]) Tag() Tag { return TagCopy }

func (Copy[T]) FromOwned(v T) T { return v }

func (Copy[T]) FromBorrowed(r Ref[T]) T { return Clone(*r.Get()) }

func (Copy[T]) Recover(v T) T { return v }

// Borrower is satisfied by *T when T borrows through to a U.
type Borrower[T, U any] interface {
	*T
	Deref() *U
}

// Derefer is satisfied by *T when T borrows through to a U and can be rebuilt
// from an owned U.
type Derefer[T, U any] interface {
	Borrower[T, U]
	Rewrap(u U)
}

// Flatten exposes a wrapper field T through the U it borrows through to.
type Flatten[T, U any, PT Derefer[T, U]] struct{}

func (Flatten[T, U, PT]) Tag() Tag { return TagFlatten }

func (Flatten[T, U, PT]) FromOwned(v T) Cow[U] {
	return AsDeref[T, U, PT](Owned(v))
}

func (Flatten[T, U, PT]) FromBorrowed(r Ref[T]) Cow[U] {
	return AsDeref[T, U, PT](FromRef(r))
}

func (Flatten[T, U, PT]) Recover(c Cow[U]) T {
	var v T
	PT(&v).Rewrap(c.IntoOwned())

	return v
}

// Unbox removes one pointer level. A nil pointer becomes the empty Cow and
// back.
type Unbox[T any] struct{}

func (Unbox[T]) Tag() Tag { return TagUnbox }

func (Unbox[T]) FromOwned(p *T) Cow[T] {
	if p == nil {
		return Cow[T]{}
	}

	return Owned(*p)
}

func (Unbox[T]) FromBorrowed(r Ref[*T]) Cow[T] {
	p := *r.Get()
	if p == nil {
		return Cow[T]{}
	}

	return FromRef(Reborrow(r, p))
}

func (Unbox[T]) Recover(c Cow[T]) *T {
	if c.IsZero() {
		return nil
	}

	v := c.IntoOwned()

	return &v
}

// Recurse decomposes the field again with its own codec C.
type Recurse[T, V any, C Codec[T, V]] struct{}

func (Recurse[T, V, C]) Tag() Tag { return TagRecurse }

func (Recurse[T, V, C]) FromOwned(v T) V {
	var c C
	return c.Decompose(Owned(v))
}

func (Recurse[T, V, C]) FromBorrowed(r Ref[T]) V {
	var c C
	return c.Decompose(FromRef(r))
}

func (Recurse[T, V, C]) Recover(v V) T {
	var c C
	return c.Recompose(v)
}
