package plan

import (
	"go/ast"
	"go/token"

	"butcher-generator/cow"
	"butcher-generator/internal/analyze"
	"butcher-generator/internal/diagnostic"
)

// Plan is the final output of the resolution pipeline.
// It contains everything needed for code generation of one file.
type Plan struct {
	// Path of the source file.
	Path string
	// Package name of the source file.
	Package string
	// Template is true when the source is a template file.
	Template bool
	// Imports of the source file.
	Imports []analyze.Import
	// Decls in source order.
	Decls []ResolvedDeclaration
	// Passthrough declarations of a template file.
	Passthrough []ast.Decl
	// Comments of the source file, used to print Passthrough.
	Comments []*ast.CommentGroup
	// FileSet the source was parsed with.
	FileSet *token.FileSet
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// HasUnions reports whether any declaration is a union.
func (p *Plan) HasUnions() bool {
	for i := range p.Decls {
		if p.Decls[i].IsUnion() {
			return true
		}
	}

	return false
}

// TypeParam is an emitted type parameter with its merged constraints.
type TypeParam struct {
	Name string
	// Constraints holds the source constraint followed by bound clauses.
	// More than one element is emitted as an interface intersection.
	Constraints []ast.Expr
}

// ResolvedDeclaration is a declaration with self references substituted and
// one strategy per field.
type ResolvedDeclaration struct {
	Decl *analyze.Declaration
	// Signature is the instantiated source type, e.g. Node[T].
	Signature ast.Expr
	// ViewName is the view type name, e.g. ButcheredNode.
	ViewName string
	// ViewSignature is the instantiated view type, e.g. ButcheredNode[T].
	ViewSignature ast.Expr
	// CodecName is the codec type name, e.g. NodeCodec.
	CodecName string
	// CodecSignature is the instantiated codec type, e.g. NodeCodec[T].
	CodecSignature ast.Expr
	// TypeParams is the emitted parameter list.
	TypeParams []TypeParam
	// Fields of a record.
	Fields []ResolvedField
	// Variants of a union.
	Variants []ResolvedVariant
}

// Name returns the source declaration name.
func (d *ResolvedDeclaration) Name() string {
	return d.Decl.Name
}

// IsUnion reports whether the declaration is a union.
func (d *ResolvedDeclaration) IsUnion() bool {
	return d.Decl.Kind == analyze.DeclUnion
}

// ResolvedField is a field with its strategy applied.
type ResolvedField struct {
	Name     string
	Embedded bool
	// SourceTag is the struct tag of the source field.
	SourceTag string
	// Type is the declared type with Self substituted.
	Type ast.Expr
	// ViewType is the type of the field in the view.
	ViewType ast.Expr
	// Strategy is the strategy value called by generated code, e.g. cow.Regular[string]{}.
	Strategy ast.Expr
	// Descriptor is the strategy descriptor the field resolved to.
	Descriptor StrategyDescriptor
	// Imports needed by a flatten target found through Deref.
	Imports []analyze.Import
	Pos     token.Position
}

// Tag returns the strategy tag of the field.
func (f *ResolvedField) Tag() cow.Tag {
	return f.Descriptor.Tag
}

// ResolvedVariant is a union variant with resolved payload fields.
type ResolvedVariant struct {
	Name   string
	Fields []ResolvedField
}
