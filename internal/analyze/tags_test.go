package analyze

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"butcher-generator/cow"
	"butcher-generator/internal/diagnostic"
)

func TestParseAnnotation(t *testing.T) {
	loc := diagnostic.Location{Path: "Order.Items"}

	tests := []struct {
		name       string
		raw        string
		wantTag    cow.Tag
		wantTarget bool
		wantBounds []string
	}{
		{name: "empty", raw: "", wantTag: cow.TagRegular},
		{name: "regular", raw: "regular", wantTag: cow.TagRegular},
		{name: "copy", raw: " copy ", wantTag: cow.TagCopy},
		{name: "unbox", raw: "unbox", wantTag: cow.TagUnbox},
		{name: "rebutcher", raw: "rebutcher", wantTag: cow.TagRecurse},
		{name: "recurse alias", raw: "recurse", wantTag: cow.TagRecurse},
		{name: "flatten target", raw: "flatten,target=string", wantTag: cow.TagFlatten, wantTarget: true},
		{
			name:       "bounds",
			raw:        "copy,bound=T:comparable,bound=U: fmt.Stringer",
			wantTag:    cow.TagCopy,
			wantBounds: []string{"T: comparable", "U: fmt.Stringer"},
		},
		{
			name:       "bound with commas inside brackets",
			raw:        "bound=K:interface{ ~int | ~string; comparable },bound=V:map[K]V",
			wantTag:    cow.TagRegular,
			wantBounds: []string{"K: interface{ ~int | ~string; comparable }", "V: map[K]V"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann, err := ParseAnnotation(tt.raw, loc)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTag, ann.Tag)
			assert.Equal(t, tt.wantTarget, ann.Target != nil)

			var raws []string
			for _, b := range ann.Bounds {
				raws = append(raws, b.Raw)
			}

			assert.Equal(t, tt.wantBounds, raws)
		})
	}
}

func TestParseAnnotation_Target(t *testing.T) {
	ann, err := ParseAnnotation("flatten,target=pkg.Text[T]", diagnostic.Location{})
	require.NoError(t, err)

	idx, ok := ann.Target.(*ast.IndexExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.SelectorExpr{}, idx.X)
}

func TestParseAnnotation_UnknownStrategy(t *testing.T) {
	_, err := ParseAnnotation("unbx", diagnostic.Location{Path: "Node.Next"})

	var unknownErr *diagnostic.UnknownStrategyError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "unbx", unknownErr.Strategy)
	assert.Equal(t, "unbox", unknownErr.Suggestion)
	assert.Equal(t, "Node.Next", unknownErr.Path)
}

func TestParseAnnotation_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing strategy", raw: ",copy"},
		{name: "target without flatten", raw: "copy,target=string"},
		{name: "duplicate target", raw: "flatten,target=string,target=int"},
		{name: "empty bound", raw: "copy,bound="},
		{name: "bound without colon", raw: "copy,bound=T"},
		{name: "bound bad param", raw: "copy,bound=1T:any"},
		{name: "bound no capability", raw: "copy,bound=T:"},
		{name: "bound bad capability", raw: "copy,bound=T:)("},
		{name: "unknown clause", raw: "copy,serialize=yes"},
		{name: "not key value", raw: "copy,unbox"},
		{name: "unbalanced", raw: "copy,bound=T:map[string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnnotation(tt.raw, diagnostic.Location{Path: "X.F"})

			var syntaxErr *diagnostic.AnnotationSyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, "X.F", syntaxErr.Path)
		})
	}
}
