package common

import (
	"go/ast"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPkgAlias(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"strconv", "strconv"},
		{"butcher-generator/cow", "cow"},
		{"github.com/google/go-cmp/cmp", "cmp"},
		{"gopkg.in/yaml.v3", "yaml"},
		{"github.com/mattn/go-isatty", "isatty"},
		{"github.com/ugorji/go/codec/v2", "codec"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, PkgAlias(tt.path))
		})
	}
}

func TestSlices(t *testing.T) {
	assert.Equal(t, []string{"comparable", "fmt.Stringer"}, Uniq([]string{"comparable", "fmt.Stringer", "comparable"}))
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
}

func TestExprString(t *testing.T) {
	expr := &ast.IndexExpr{
		X:     &ast.SelectorExpr{X: ast.NewIdent("cow"), Sel: ast.NewIdent("Cow")},
		Index: &ast.StarExpr{X: ast.NewIdent("Node")},
	}

	assert.Equal(t, "cow.Cow[*Node]", ExprString(expr))
}
