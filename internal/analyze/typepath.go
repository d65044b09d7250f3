package analyze

import (
	"go/token"
	"strings"

	"butcher-generator/internal/diagnostic"
)

// TypePath builds a readable path string for a declaration member.
// Examples:
//   - "WebEvent" for a declaration
//   - "WebEvent.Click" for a union variant
//   - "WebEvent.Click.At" for a field of that variant
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field or variant name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// At returns the diagnostic location of the path at pos.
func (p *TypePath) At(pos token.Position) diagnostic.Location {
	return diagnostic.Location{Path: p.String(), Pos: pos}
}
