package cow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label struct {
	text string
}

func (l *label) Deref() *string  { return &l.text }
func (l *label) Rewrap(s string) { l.text = s }

type pair struct {
	A int
	B []string
}

type pairView struct {
	A Cow[int]
	B Cow[[]string]
}

type pairCodec struct{}

func (pairCodec) Decompose(in Cow[pair]) pairView {
	if v, ok := in.AsOwned(); ok {
		return pairView{
			A: Regular[int]{}.FromOwned(v.A),
			B: Regular[[]string]{}.FromOwned(v.B),
		}
	}

	r, _ := in.AsBorrowed()
	p := r.Get()

	return pairView{
		A: Regular[int]{}.FromBorrowed(Reborrow(r, &p.A)),
		B: Regular[[]string]{}.FromBorrowed(Reborrow(r, &p.B)),
	}
}

func (pairCodec) Recompose(v pairView) pair {
	return pair{
		A: Regular[int]{}.Recover(v.A),
		B: Regular[[]string]{}.Recover(v.B),
	}
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "regular", TagRegular.String())
	assert.Equal(t, "copy", TagCopy.String())
	assert.Equal(t, "flatten", TagFlatten.String())
	assert.Equal(t, "unbox", TagUnbox.String())
	assert.Equal(t, "rebutcher", TagRecurse.String())
	assert.Equal(t, "Tag(9)", Tag(9).String())
}

func TestParseTag(t *testing.T) {
	for _, name := range TagNames() {
		tag, ok := ParseTag(name)
		require.True(t, ok, name)

		if name != "recurse" {
			assert.Equal(t, name, tag.String())
		}
	}

	tag, ok := ParseTag("recurse")
	assert.True(t, ok)
	assert.Equal(t, TagRecurse, tag)

	_, ok = ParseTag("rebutch")
	assert.False(t, ok)
}

func TestRegular(t *testing.T) {
	src := newCounted(1, 2, 3)
	s := Regular[counted]{}

	owned := s.FromOwned(src)
	assert.True(t, owned.IsOwned())

	borrowed := s.FromBorrowed(NewRef(nil, &src))
	require.True(t, borrowed.IsBorrowed())
	assert.Same(t, &src, borrowed.Ptr())
	assert.Equal(t, 0, *src.clones, "borrowing must not clone")

	back := s.Recover(borrowed)
	assert.Equal(t, src.Data, back.Data)
	assert.Equal(t, 1, *src.clones)
	assert.Equal(t, TagRegular, s.Tag())
}

func TestCopy_Independence(t *testing.T) {
	src := []int{1, 2, 3}
	s := Copy[[]int]{}

	out := s.FromBorrowed(NewRef(nil, &src))
	out[0] = 100

	assert.Equal(t, []int{1, 2, 3}, src)
	assert.Equal(t, []int{100, 2, 3}, s.Recover(out))
	assert.Equal(t, []int{4}, s.FromOwned([]int{4}))
}

func TestFlatten(t *testing.T) {
	s := Flatten[label, string, *label]{}
	src := label{text: "alice"}

	owned := s.FromOwned(src)
	assert.True(t, owned.IsOwned())
	assert.Equal(t, "alice", owned.Get())

	borrowed := s.FromBorrowed(NewRef(nil, &src))
	require.True(t, borrowed.IsBorrowed())
	assert.Same(t, &src.text, borrowed.Ptr(), "borrowed flatten must point into the source")

	assert.Equal(t, src, s.Recover(borrowed))
	assert.Equal(t, src, s.Recover(owned))
	assert.Equal(t, TagFlatten, s.Tag())
}

func TestUnbox(t *testing.T) {
	s := Unbox[pair]{}
	src := &pair{A: 1, B: []string{"x"}}

	owned := s.FromOwned(src)
	assert.True(t, owned.IsOwned())
	assert.Equal(t, *src, owned.Get())

	borrowed := s.FromBorrowed(NewRef(nil, &src))
	require.True(t, borrowed.IsBorrowed())
	assert.Same(t, src, borrowed.Ptr())

	assert.Equal(t, src, s.Recover(borrowed))
	assert.NotSame(t, src, s.Recover(borrowed))
}

func TestUnbox_Nil(t *testing.T) {
	s := Unbox[pair]{}

	var src *pair

	assert.True(t, s.FromOwned(nil).IsZero())
	assert.True(t, s.FromBorrowed(NewRef(nil, &src)).IsZero())
	assert.Nil(t, s.Recover(Cow[pair]{}))
}

func TestRecurse(t *testing.T) {
	s := Recurse[pair, pairView, pairCodec]{}
	src := pair{A: 7, B: []string{"a", "b"}}

	owned := s.FromOwned(src)
	assert.True(t, owned.A.IsOwned())
	assert.Equal(t, src, s.Recover(owned))

	borrowed := s.FromBorrowed(NewRef(nil, &src))
	assert.Same(t, &src.A, borrowed.A.Ptr())
	assert.Same(t, &src.B, borrowed.B.Ptr())
	assert.Equal(t, src, s.Recover(borrowed))
	assert.Equal(t, TagRecurse, s.Tag())
}

func TestAsDeref(t *testing.T) {
	src := label{text: "bob"}

	owned := AsDeref[label, string](Owned(src))
	assert.True(t, owned.IsOwned())
	assert.Equal(t, "bob", owned.Get())

	borrowed := AsDeref[label, string](Borrowed(nil, &src))
	assert.True(t, borrowed.IsBorrowed())
	assert.Same(t, &src.text, borrowed.Ptr())

	assert.True(t, AsDeref[label, string](Cow[label]{}).IsZero())
}
