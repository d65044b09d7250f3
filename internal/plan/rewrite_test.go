package plan

import (
	"go/ast"
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"butcher-generator/internal/common"
	"butcher-generator/internal/diagnostic"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()

	expr, err := parser.ParseExpr(src)
	require.NoError(t, err)

	return expr
}

func TestRewriteSelf(t *testing.T) {
	sig := mustParse(t, "Node[T, K]")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ident", in: "Self", want: "Node[T, K]"},
		{name: "other ident", in: "int", want: "int"},
		{name: "qualified self untouched", in: "pkg.Self", want: "pkg.Self"},
		{name: "pointer", in: "*Self", want: "*Node[T, K]"},
		{name: "slice", in: "[]Self", want: "[]Node[T, K]"},
		{name: "array keeps length", in: "[N + 1]*Self", want: "[N + 1]*Node[T, K]"},
		{name: "map", in: "map[string][]Self", want: "map[string][]Node[T, K]"},
		{name: "chan", in: "<-chan Self", want: "<-chan Node[T, K]"},
		{name: "func", in: "func(Self, ...Self) (Self, error)", want: "func(Node[T, K], ...Node[T, K]) (Node[T, K], error)"},
		{name: "paren", in: "*(Self)", want: "*(Node[T, K])"},
		{name: "generic args", in: "pkg.List[Self]", want: "pkg.List[Node[T, K]]"},
		{name: "generic arg list", in: "Pair[Self, *Self]", want: "Pair[Node[T, K], *Node[T, K]]"},
		{name: "interface", in: "interface{ Next() Self }", want: "interface{ Next() Node[T, K] }"},
		{name: "struct payload", in: "struct{ A Self }", want: "struct{ A Node[T, K] }"},
		{name: "type set", in: "interface{ ~[]Self | Self }", want: "interface{ ~[]Node[T, K] | Node[T, K] }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustParse(t, tt.in)
			before := common.ExprString(in)

			got, err := RewriteSelf(in, sig, diagnostic.Location{Path: "Node.F"})
			require.NoError(t, err)

			assert.Equal(t, mustFormat(t, tt.want), common.ExprString(got))
			assert.Equal(t, before, common.ExprString(in), "input must not be modified")
		})
	}
}

// mustFormat normalizes expected text through the same printer.
func mustFormat(t *testing.T, src string) string {
	t.Helper()

	return common.ExprString(mustParse(t, src))
}

func TestRewriteSelf_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		in   string
		node string
	}{
		{name: "call", in: "[]f(Self)", node: "*ast.CallExpr"},
		{name: "arithmetic", in: "*(Self + Self)", node: "*ast.BinaryExpr"},
		{name: "negation", in: "*(-Self)", node: "*ast.UnaryExpr"},
		{name: "composite literal", in: "map[string]struct{ A [2]int }{}", node: "*ast.CompositeLit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RewriteSelf(mustParse(t, tt.in), ast.NewIdent("Node"), diagnostic.Location{Path: "Node.F"})

			var shapeErr *diagnostic.UnsupportedTypeShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, tt.node, shapeErr.Node)
			assert.Equal(t, "Node.F", shapeErr.Path)
		})
	}
}

func TestUsesSelf(t *testing.T) {
	assert.True(t, UsesSelf(mustParse(t, "map[string]*Self")))
	assert.True(t, UsesSelf(mustParse(t, "func() Self")))
	assert.False(t, UsesSelf(mustParse(t, "pkg.Self")))
	assert.False(t, UsesSelf(mustParse(t, "[]Node")))
}
