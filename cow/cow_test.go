package cow

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counted is a clone-counting test double.
type counted struct {
	clones *int
	Data   []int
}

func newCounted(data ...int) counted {
	return counted{clones: new(int), Data: data}
}

func (c counted) Clone() counted {
	*c.clones++
	return counted{clones: c.clones, Data: slices.Clone(c.Data)}
}

func TestCow_Owned(t *testing.T) {
	c := Owned(42)

	assert.True(t, c.IsOwned())
	assert.False(t, c.IsBorrowed())
	assert.False(t, c.IsZero())

	v, ok := c.AsOwned()
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = c.AsBorrowed()
	assert.False(t, ok)
	assert.Equal(t, 42, c.Get())
	assert.Equal(t, "Owned(42)", c.String())
}

func TestCow_Borrowed(t *testing.T) {
	x := 42
	c := Borrowed(nil, &x)

	assert.True(t, c.IsBorrowed())
	assert.False(t, c.IsOwned())
	assert.Same(t, &x, c.Ptr())
	assert.Equal(t, "Borrowed(42)", c.String())

	r, ok := c.AsBorrowed()
	require.True(t, ok)
	assert.Same(t, &x, r.Get())
}

func TestCow_Zero(t *testing.T) {
	var c Cow[string]

	assert.True(t, c.IsZero())
	assert.Equal(t, "", c.Get())
	assert.Nil(t, c.Ptr())
	assert.Equal(t, "", c.IntoOwned())
	assert.Equal(t, "Empty", c.String())
}

func TestCow_IntoOwned(t *testing.T) {
	t.Run("owned value is moved", func(t *testing.T) {
		src := newCounted(1, 2)
		out := Owned(src).IntoOwned()

		assert.Equal(t, 0, *src.clones)
		assert.Equal(t, []int{1, 2}, out.Data)
	})

	t.Run("borrowed value is cloned", func(t *testing.T) {
		src := newCounted(1, 2)
		out := Borrowed(nil, &src).IntoOwned()

		assert.Equal(t, 1, *src.clones)
		out.Data[0] = 9
		assert.Equal(t, []int{1, 2}, src.Data)
	})
}

func TestFromRef_ZeroRef(t *testing.T) {
	assert.True(t, FromRef(Ref[int]{}).IsZero())
}
