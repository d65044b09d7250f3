package plan

import (
	"fmt"
	"go/ast"

	"butcher-generator/cow"
	"butcher-generator/internal/diagnostic"
)

// RuntimePkg is the import path of the runtime package called by generated code.
const RuntimePkg = "butcher-generator/cow"

// runtimeAlias is the package name generated code refers to RuntimePkg by.
const runtimeAlias = "cow"

// StrategyDescriptor governs how one strategy derives a view field.
type StrategyDescriptor struct {
	Tag cow.Tag
	// Requires is the capability the field type needs, for diagnostics and docs.
	Requires string
	// derive returns the view field type and the strategy value for a field.
	derive func(in fieldInput) (view, strategy ast.Expr, err error)
}

// fieldInput is what a descriptor derives a field from.
type fieldInput struct {
	Type   ast.Expr // declared type, Self substituted
	Target ast.Expr // flatten target, nil when unknown
	Prefix string   // view name prefix
	Loc    diagnostic.Location
}

var descriptors = map[cow.Tag]StrategyDescriptor{
	cow.TagRegular: {
		Tag:      cow.TagRegular,
		Requires: "T duplicable",
		derive: func(in fieldInput) (ast.Expr, ast.Expr, error) {
			return runtimeType("Cow", in.Type), strategyValue("Regular", in.Type), nil
		},
	},
	cow.TagCopy: {
		Tag:      cow.TagCopy,
		Requires: "T duplicable",
		derive: func(in fieldInput) (ast.Expr, ast.Expr, error) {
			return in.Type, strategyValue("Copy", in.Type), nil
		},
	},
	cow.TagFlatten: {
		Tag:      cow.TagFlatten,
		Requires: "*T has Deref() *U and Rewrap(U)",
		derive: func(in fieldInput) (ast.Expr, ast.Expr, error) {
			if in.Target == nil {
				return nil, nil, &diagnostic.AnnotationSyntaxError{
					Location: in.Loc,
					Reason:   "flatten needs target=<Type> or a resolvable Deref() *U method",
				}
			}

			ptr := &ast.StarExpr{X: in.Type}

			return runtimeType("Cow", in.Target), strategyValue("Flatten", in.Type, in.Target, ptr), nil
		},
	},
	cow.TagUnbox: {
		Tag:      cow.TagUnbox,
		Requires: "field is a pointer *E",
		derive: func(in fieldInput) (ast.Expr, ast.Expr, error) {
			star, ok := in.Type.(*ast.StarExpr)
			if !ok {
				return nil, nil, &diagnostic.AnnotationSyntaxError{
					Location: in.Loc,
					Reason:   "unbox needs a pointer field type",
				}
			}

			return runtimeType("Cow", star.X), strategyValue("Unbox", star.X), nil
		},
	},
	cow.TagRecurse: {
		Tag:      cow.TagRecurse,
		Requires: "T has a generated codec",
		derive: func(in fieldInput) (ast.Expr, ast.Expr, error) {
			view, ok := renameNamed(in.Type, func(name string) string { return ViewName(in.Prefix, name) })
			if !ok {
				return nil, nil, &diagnostic.UnsupportedTypeShapeError{
					Location: in.Loc,
					Node:     fmt.Sprintf("%T", in.Type),
					Reason:   "rebutcher needs a named type",
				}
			}

			codec, _ := renameNamed(in.Type, CodecName)

			return view, strategyValue("Recurse", in.Type, view, codec), nil
		},
	},
}

// Descriptor returns the descriptor of tag.
func Descriptor(tag cow.Tag) (StrategyDescriptor, bool) {
	d, ok := descriptors[tag]
	return d, ok
}

// runtimeType builds cow.<name>[args...].
func runtimeType(name string, args ...ast.Expr) ast.Expr {
	return instantiate(&ast.SelectorExpr{X: ast.NewIdent(runtimeAlias), Sel: ast.NewIdent(name)}, args...)
}

// strategyValue builds cow.<name>[args...]{}.
func strategyValue(name string, args ...ast.Expr) ast.Expr {
	return &ast.CompositeLit{Type: runtimeType(name, args...)}
}

// renameNamed renames the type name of a possibly qualified, possibly
// instantiated named type: pkg.Bar[X] becomes pkg.<rename(Bar)>[X].
func renameNamed(expr ast.Expr, rename func(string) string) (ast.Expr, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return ast.NewIdent(rename(t.Name)), true
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{X: t.X, Sel: ast.NewIdent(rename(t.Sel.Name))}, true
	case *ast.IndexExpr:
		x, ok := renameNamed(t.X, rename)
		if !ok {
			return nil, false
		}

		return &ast.IndexExpr{X: x, Index: t.Index}, true
	case *ast.IndexListExpr:
		x, ok := renameNamed(t.X, rename)
		if !ok {
			return nil, false
		}

		return &ast.IndexListExpr{X: x, Indices: t.Indices}, true
	default:
		return nil, false
	}
}
