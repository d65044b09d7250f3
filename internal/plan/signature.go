package plan

import (
	"go/ast"

	"butcher-generator/internal/analyze"
)

// DefaultPrefix is prepended to source names to name view types.
const DefaultPrefix = "Butchered"

// codecSuffix is appended to source names to name codec types.
const codecSuffix = "Codec"

// Signature builds the instantiated type name[p1, p2, ...]. Type and scope
// parameters are kept in declaration order, const parameters are dropped.
// A declaration without kept parameters yields a bare identifier.
func Signature(name string, params []analyze.Param) ast.Expr {
	var args []ast.Expr

	for _, p := range params {
		if p.Kind == analyze.ParamConst {
			continue
		}

		args = append(args, ast.NewIdent(p.Name))
	}

	return instantiate(ast.NewIdent(name), args...)
}

// ViewName returns the view type name of name.
func ViewName(prefix, name string) string {
	return prefix + name
}

// CodecName returns the codec type name of name.
func CodecName(name string) string {
	return name + codecSuffix
}

// instantiate applies type arguments to x.
func instantiate(x ast.Expr, args ...ast.Expr) ast.Expr {
	switch len(args) {
	case 0:
		return x
	case 1:
		return &ast.IndexExpr{X: x, Index: args[0]}
	default:
		return &ast.IndexListExpr{X: x, Indices: args}
	}
}
