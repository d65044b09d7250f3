package analyze

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypePath(t *testing.T) {
	p1 := NewTypePath("WebEvent")
	assert.Equal(t, "WebEvent", p1.String())

	p2 := p1.Field("Click")
	assert.Equal(t, "WebEvent.Click", p2.String())

	p3 := p2.Field("At")
	assert.Equal(t, "WebEvent.Click.At", p3.String())

	// Parents are not modified.
	assert.Equal(t, "WebEvent", p1.String())

	loc := p3.At(token.Position{Filename: "events.go", Line: 3, Column: 1})
	assert.Equal(t, "WebEvent", loc.TypeName())
	assert.Equal(t, "events.go:3:1: WebEvent.Click.At", loc.String())
}
