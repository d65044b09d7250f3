package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"
)

// Error codes attached to diagnostics.
const (
	CodeAnnotationSyntax = "annotation_syntax"
	CodeUnknownStrategy  = "unknown_strategy"
	CodeUnsupportedShape = "unsupported_type_shape"
	CodeGeneric          = "error"
)

// Location attributes an error to a declaration or one of its fields.
type Location struct {
	// Path is the type path, e.g. "WebEvent.Click.X".
	Path string
	// Pos is the source position, when known.
	Pos token.Position
}

// TypeName returns the declaration part of the path.
func (l Location) TypeName() string {
	name, _, _ := strings.Cut(l.Path, ".")
	return name
}

// String renders "file:line:col: Path", dropping unknown parts.
func (l Location) String() string {
	switch {
	case l.Pos.IsValid() && l.Path != "":
		return l.Pos.String() + ": " + l.Path
	case l.Pos.IsValid():
		return l.Pos.String()
	default:
		return l.Path
	}
}

// AnnotationSyntaxError reports a malformed butcher annotation or directive.
type AnnotationSyntaxError struct {
	Location
	Annotation string
	Reason     string
}

func (e *AnnotationSyntaxError) Error() string {
	if e.Annotation == "" {
		return fmt.Sprintf("%s: %s", e.Location, e.Reason)
	}

	return fmt.Sprintf("%s: malformed annotation %q: %s", e.Location, e.Annotation, e.Reason)
}

// UnknownStrategyError reports a strategy name outside the closed set.
type UnknownStrategyError struct {
	Location
	Strategy string
	// Suggestion is the closest known strategy name, if any is close enough.
	Suggestion string
}

func (e *UnknownStrategyError) Error() string {
	msg := fmt.Sprintf("%s: unknown strategy %q", e.Location, e.Strategy)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}

	return msg
}

// UnsupportedTypeShapeError reports a type expression form the generator
// cannot walk or use.
type UnsupportedTypeShapeError struct {
	Location
	// Node is the go/ast node kind, e.g. "*ast.CallExpr".
	Node string
	// Type is the offending type text.
	Type   string
	Reason string
}

func (e *UnsupportedTypeShapeError) Error() string {
	msg := fmt.Sprintf("%s: unsupported type shape %s", e.Location, e.Node)
	if e.Type != "" {
		msg += fmt.Sprintf(" in %q", e.Type)
	}

	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// CodeOf returns the diagnostic code for err.
func CodeOf(err error) string {
	var (
		syntaxErr  *AnnotationSyntaxError
		unknownErr *UnknownStrategyError
		shapeErr   *UnsupportedTypeShapeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return CodeAnnotationSyntax
	case errors.As(err, &unknownErr):
		return CodeUnknownStrategy
	case errors.As(err, &shapeErr):
		return CodeUnsupportedShape
	default:
		return CodeGeneric
	}
}

// LocationOf extracts the location of a typed generation error.
func LocationOf(err error) (Location, bool) {
	var (
		syntaxErr  *AnnotationSyntaxError
		unknownErr *UnknownStrategyError
		shapeErr   *UnsupportedTypeShapeError
	)

	switch {
	case errors.As(err, &syntaxErr):
		return syntaxErr.Location, true
	case errors.As(err, &unknownErr):
		return unknownErr.Location, true
	case errors.As(err, &shapeErr):
		return shapeErr.Location, true
	default:
		return Location{}, false
	}
}
