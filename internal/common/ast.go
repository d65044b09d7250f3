package common

import (
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
)

// ExprString renders a type expression as Go source.
// It returns "<invalid>" for nodes the printer rejects.
func ExprString(expr ast.Expr) string {
	var sb strings.Builder
	if err := printer.Fprint(&sb, token.NewFileSet(), expr); err != nil {
		return "<invalid>"
	}

	return sb.String()
}
