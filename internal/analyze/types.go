package analyze

import (
	"go/ast"
	"go/token"

	"butcher-generator/cow"
	"butcher-generator/internal/common"
)

// DeclKind is the body kind of a declaration.
type DeclKind int

const (
	DeclRecord DeclKind = iota // struct with named fields
	DeclUnion                  // tagged union of variants
)

// String returns a human-readable representation of the DeclKind.
func (k DeclKind) String() string {
	switch k {
	case DeclRecord:
		return "record"
	case DeclUnion:
		return "union"
	default:
		return common.UnknownStr
	}
}

// ParamKind distinguishes the parameters of a declaration.
type ParamKind int

const (
	ParamType  ParamKind = iota // type parameter
	ParamScope                  // borrow-duration parameter
	ParamConst                  // const-valued parameter, dropped from signatures
)

// String returns a human-readable representation of the ParamKind.
func (k ParamKind) String() string {
	switch k {
	case ParamType:
		return "type"
	case ParamScope:
		return "scope"
	case ParamConst:
		return "const"
	default:
		return common.UnknownStr
	}
}

// Param is one declaration parameter. Params keep declaration order.
type Param struct {
	Name       string
	Kind       ParamKind
	Constraint ast.Expr // nil for non-type parameters
}

// Bound is an extra capability requirement on a type parameter, taken
// verbatim from a bound= clause.
type Bound struct {
	Param      string
	Capability ast.Expr
	Raw        string // e.g. "T: fmt.Stringer"
}

// Annotation is the parsed butcher tag of a field.
type Annotation struct {
	Raw    string   // tag text as written, "" when absent
	Tag    cow.Tag  // resolved strategy, TagRegular when absent
	Target ast.Expr // flatten target, nil unless given
	Bounds []Bound
}

// Field is one field of a record or union variant.
type Field struct {
	Name     string
	Index    int
	Type     ast.Expr
	Embedded bool
	// Tag is the complete struct tag, unquoted.
	Tag      string
	Strategy Annotation
	Pos      token.Position
}

// Variant is one variant of a union. Fields may be empty.
type Variant struct {
	Name   string
	Fields []Field
	Pos    token.Position
}

// Declaration is a record or union selected for generation.
// It is read once and never mutated afterwards.
type Declaration struct {
	Name     string
	Params   []Param
	Kind     DeclKind
	Fields   []Field   // DeclRecord
	Variants []Variant // DeclUnion
	Doc      string
	Template bool // declared in a template file
	Pos      token.Position
}

// Param returns the parameter called name.
func (d *Declaration) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}

	return Param{}, false
}

// Import is one import of the source file.
type Import struct {
	Name string // explicit alias, "" when absent
	Path string
}

// Alias returns the name the import is referred to by.
func (i Import) Alias() string {
	if i.Name != "" {
		return i.Name
	}

	return common.PkgAlias(i.Path)
}

// TypeRef is a type expression together with the imports it needs.
type TypeRef struct {
	Expr    ast.Expr
	Imports []Import
}

// File is everything read from one source file.
type File struct {
	Path     string
	Dir      string
	Package  string
	Template bool // file carries the template build constraint
	Imports  []Import
	Decls    []Declaration
	// Passthrough holds the other top-level declarations of a template file.
	// They are re-emitted unchanged next to the generated code.
	Passthrough []ast.Decl
	Comments    []*ast.CommentGroup
	FileSet     *token.FileSet
}
