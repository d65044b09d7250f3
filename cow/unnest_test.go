package cow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnnest(t *testing.T) {
	x := 42
	inner := Borrowed(nil, &x)
	ownedInner := Owned(42)

	tests := []struct {
		name  string
		input Cow[Cow[int]]
	}{
		{"owned owned", Owned(Owned(42))},
		{"owned borrowed", Owned(Borrowed(nil, &x))},
		{"borrowed owned", Borrowed(nil, &ownedInner)},
		{"borrowed borrowed", Borrowed(nil, &inner)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Unnest(tt.input)

			assert.True(t, got.IsOwned())
			assert.Equal(t, Owned(42), got)
		})
	}
}

func TestUnnest_CopiesOnlyInnermost(t *testing.T) {
	t.Run("owned owned moves", func(t *testing.T) {
		v := newCounted(1)
		got := Unnest(Owned(Owned(v)))

		assert.Equal(t, 0, *v.clones)
		assert.Equal(t, []int{1}, got.Get().Data)
	})

	t.Run("owned borrowed clones referent once", func(t *testing.T) {
		v := newCounted(1)
		Unnest(Owned(Borrowed(nil, &v)))

		assert.Equal(t, 1, *v.clones)
	})

	t.Run("borrowed owned clones inner value once", func(t *testing.T) {
		v := newCounted(1)
		in := Owned(v)
		Unnest(Borrowed(nil, &in))

		assert.Equal(t, 1, *v.clones)
	})

	t.Run("borrowed borrowed clones referent once", func(t *testing.T) {
		v := newCounted(1)
		in := Borrowed(nil, &v)
		got := Unnest(Borrowed(nil, &in))

		assert.Equal(t, 1, *v.clones)

		got.Ptr().Data[0] = 5
		assert.Equal(t, []int{1}, v.Data)
	})
}

func TestUnnest_Empty(t *testing.T) {
	assert.True(t, Unnest(Cow[Cow[int]]{}).IsZero())
	assert.True(t, Unnest(Owned(Cow[int]{})).IsZero())
}
