package plan

import (
	"context"
	"errors"
	"go/ast"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"butcher-generator/cow"
	"butcher-generator/internal/analyze"
	"butcher-generator/internal/common"
	"butcher-generator/internal/diagnostic"
)

func readSource(t *testing.T, src string) *analyze.File {
	t.Helper()

	file, err := analyze.NewReader().ReadSource(context.Background(), "src/p.go", []byte(src))
	require.NoError(t, err)

	return file
}

type fieldSummary struct {
	Name     string
	Tag      string
	View     string
	Strategy string
}

func summarize(fields []ResolvedField) []fieldSummary {
	out := make([]fieldSummary, 0, len(fields))
	for _, f := range fields {
		out = append(out, fieldSummary{
			Name:     f.Name,
			Tag:      f.Tag().String(),
			View:     common.ExprString(f.ViewType),
			Strategy: common.ExprString(f.Strategy),
		})
	}

	return out
}

const listTemplate = "//go:build butcher\n\npackage list\n\n" +
	"//butcher:derive\n" +
	"type Node[T any] struct {\n" +
	"\tValue T\n" +
	"\tLabel string `butcher:\"copy\"`\n" +
	"\tNext  *Self  `butcher:\"unbox\"`\n" +
	"\tMeta  Meta   `butcher:\"rebutcher\"`\n" +
	"\tTags  pkg.Set[T] `butcher:\"recurse\"`\n" +
	"\tName  Name   `butcher:\"flatten,target=string\"`\n" +
	"}\n"

func TestResolver_Record(t *testing.T) {
	p, err := NewResolver().Resolve(context.Background(), readSource(t, listTemplate))
	require.NoError(t, err)

	assert.Equal(t, "list", p.Package)
	assert.True(t, p.Template)
	assert.False(t, p.HasUnions())
	require.Len(t, p.Decls, 1)

	d := p.Decls[0]
	assert.Equal(t, "Node", d.Name())
	assert.Equal(t, "Node[T]", common.ExprString(d.Signature))
	assert.Equal(t, "ButcheredNode", d.ViewName)
	assert.Equal(t, "ButcheredNode[T]", common.ExprString(d.ViewSignature))
	assert.Equal(t, "NodeCodec[T]", common.ExprString(d.CodecSignature))

	want := []fieldSummary{
		{"Value", "regular", "cow.Cow[T]", "cow.Regular[T]{}"},
		{"Label", "copy", "string", "cow.Copy[string]{}"},
		{"Next", "unbox", "cow.Cow[Node[T]]", "cow.Unbox[Node[T]]{}"},
		{"Meta", "rebutcher", "ButcheredMeta", "cow.Recurse[Meta, ButcheredMeta, MetaCodec]{}"},
		{"Tags", "rebutcher", "pkg.ButcheredSet[T]", "cow.Recurse[pkg.Set[T], pkg.ButcheredSet[T], pkg.SetCodec[T]]{}"},
		{"Name", "flatten", "cow.Cow[string]", "cow.Flatten[Name, string, *Name]{}"},
	}

	if diff := cmp.Diff(want, summarize(d.Fields)); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, d.TypeParams, 1)
	assert.Equal(t, "T", d.TypeParams[0].Name)
	assert.Equal(t, []string{"any"}, common.Map(d.TypeParams[0].Constraints, common.ExprString))
}

func TestResolver_Prefix(t *testing.T) {
	p, err := NewResolver(WithPrefix("View")).Resolve(context.Background(), readSource(t, listTemplate))
	require.NoError(t, err)

	d := p.Decls[0]
	assert.Equal(t, "ViewNode", d.ViewName)
	assert.Equal(t, "ViewMeta", common.ExprString(d.Fields[3].ViewType))
}

func TestResolver_Union(t *testing.T) {
	src := "//go:build butcher\n\npackage events\n\n" +
		"//butcher:union\n" +
		"type WebEvent struct {\n" +
		"\tPageLoad struct{}\n" +
		"\tKeyPress struct{ Key rune `butcher:\"copy\"` }\n" +
		"\tClick    struct{ At Point `butcher:\"rebutcher\"` }\n" +
		"}\n"

	p, err := NewResolver().Resolve(context.Background(), readSource(t, src))
	require.NoError(t, err)
	require.True(t, p.HasUnions())

	d := p.Decls[0]
	require.True(t, d.IsUnion())
	require.Len(t, d.Variants, 3)

	assert.Equal(t, "PageLoad", d.Variants[0].Name)
	assert.Empty(t, d.Variants[0].Fields)

	want := []fieldSummary{{"At", "rebutcher", "ButcheredPoint", "cow.Recurse[Point, ButcheredPoint, PointCodec]{}"}}
	if diff := cmp.Diff(want, summarize(d.Variants[2].Fields)); diff != "" {
		t.Errorf("Click fields mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_Bounds(t *testing.T) {
	src := "package p\n\n" +
		"//butcher:derive\n" +
		"type Pair[K comparable, V any, W any] struct {\n" +
		"\tA K `butcher:\"bound=K:fmt.Stringer\"`\n" +
		"\tB V `butcher:\"copy,bound=V:fmt.Stringer,bound=V:io.Reader\"`\n" +
		"\tC V `butcher:\"bound=V:fmt.Stringer\"`\n" +
		"\tD W\n" +
		"}\n"

	p, err := NewResolver().Resolve(context.Background(), readSource(t, src))
	require.NoError(t, err)

	got := make(map[string][]string)
	for _, tp := range p.Decls[0].TypeParams {
		got[tp.Name] = common.Map(tp.Constraints, common.ExprString)
	}

	want := map[string][]string{
		"K": {"comparable", "fmt.Stringer"},
		"V": {"fmt.Stringer", "io.Reader"},
		"W": {"any"},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("type params mismatch (-want +got):\n%s", diff)
	}
}

type stubDeref struct {
	target analyze.TypeRef
	err    error
	dirs   []string
}

func (s *stubDeref) DerefTarget(_ context.Context, dir string, _ ast.Expr) (analyze.TypeRef, error) {
	s.dirs = append(s.dirs, dir)
	return s.target, s.err
}

func TestResolver_FlattenDeref(t *testing.T) {
	src := "package p\n\n//butcher:derive\ntype Person struct {\n\tNick Name `butcher:\"flatten\"`\n}\n"

	stub := &stubDeref{target: analyze.TypeRef{Expr: ast.NewIdent("string")}}

	p, err := NewResolver(WithDerefResolver(stub)).Resolve(context.Background(), readSource(t, src))
	require.NoError(t, err)

	assert.Equal(t, []string{"src"}, stub.dirs)
	assert.Equal(t, "cow.Flatten[Name, string, *Name]{}", common.ExprString(p.Decls[0].Fields[0].Strategy))
	assert.Empty(t, p.Decls[0].Fields[0].Imports)
}

func timeTarget() analyze.TypeRef {
	return analyze.TypeRef{
		Expr:    &ast.SelectorExpr{X: ast.NewIdent("time"), Sel: ast.NewIdent("Time")},
		Imports: []analyze.Import{{Path: "time"}},
	}
}

func TestResolver_FlattenDerefImports(t *testing.T) {
	src := "package p\n\n//butcher:derive\ntype Event struct {\n\tWhen Stamp `butcher:\"flatten\"`\n}\n"

	stub := &stubDeref{target: timeTarget()}

	p, err := NewResolver(WithDerefResolver(stub)).Resolve(context.Background(), readSource(t, src))
	require.NoError(t, err)

	field := p.Decls[0].Fields[0]
	assert.Equal(t, "cow.Cow[time.Time]", common.ExprString(field.ViewType))
	assert.Equal(t, []analyze.Import{{Path: "time"}}, field.Imports)
}

func TestResolver_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		deref    DerefResolver
		wantPath string
		wantCode string
	}{
		{
			name:     "unbox non-pointer",
			src:      "package p\n\n//butcher:derive\ntype A struct{ X int `butcher:\"unbox\"` }\n",
			wantPath: "A.X",
			wantCode: diagnostic.CodeAnnotationSyntax,
		},
		{
			name:     "rebutcher unnamed",
			src:      "package p\n\n//butcher:derive\ntype A struct{ X []B `butcher:\"rebutcher\"` }\n",
			wantPath: "A.X",
			wantCode: diagnostic.CodeUnsupportedShape,
		},
		{
			name:     "flatten without target",
			src:      "package p\n\n//butcher:derive\ntype A struct{ X Name `butcher:\"flatten\"` }\n",
			wantPath: "A.X",
			wantCode: diagnostic.CodeAnnotationSyntax,
		},
		{
			name:     "flatten deref failure",
			src:      "package p\n\n//butcher:derive\ntype A struct{ X Name `butcher:\"flatten\"` }\n",
			deref:    &stubDeref{err: errors.New("no Deref")},
			wantPath: "A.X",
			wantCode: diagnostic.CodeAnnotationSyntax,
		},
		{
			name:     "flatten target package shadowed",
			src:      "package p\n\nimport time \"example.com/clock\"\n\n//butcher:derive\ntype A struct{ X time.Stamp `butcher:\"flatten\"` }\n",
			deref:    &stubDeref{target: timeTarget()},
			wantPath: "A.X",
			wantCode: diagnostic.CodeAnnotationSyntax,
		},
		{
			name:     "unknown bound param",
			src:      "package p\n\n//butcher:derive\ntype A[T any] struct{ X T `butcher:\"bound=U:any\"` }\n",
			wantPath: "A.X",
			wantCode: diagnostic.CodeAnnotationSyntax,
		},
		{
			name:     "self outside template",
			src:      "package p\n\n//butcher:derive\ntype A struct{ X *Self }\n",
			wantPath: "A.X",
			wantCode: diagnostic.CodeAnnotationSyntax,
		},
		{
			name:     "unsupported shape",
			src:      "//go:build butcher\n\npackage p\n\n//butcher:derive\ntype A struct{ List[Self + Self] }\n",
			wantPath: "A.List",
			wantCode: diagnostic.CodeUnsupportedShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []ResolverOption
			if tt.deref != nil {
				opts = append(opts, WithDerefResolver(tt.deref))
			}

			p, err := NewResolver(opts...).Resolve(context.Background(), readSource(t, tt.src))
			require.Error(t, err)
			require.True(t, p.Diagnostics.HasErrors())
			assert.Empty(t, p.Decls)

			loc, ok := diagnostic.LocationOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantPath, loc.Path)
			assert.Equal(t, tt.wantCode, diagnostic.CodeOf(err))
		})
	}
}

func TestResolver_NoDeclarations(t *testing.T) {
	p, err := NewResolver().Resolve(context.Background(), readSource(t, "package p\n"))
	require.NoError(t, err)
	assert.Empty(t, p.Decls)
	assert.Len(t, p.Diagnostics.Warnings, 1)
}

func TestDescriptor(t *testing.T) {
	for _, tag := range []cow.Tag{cow.TagRegular, cow.TagCopy, cow.TagFlatten, cow.TagUnbox, cow.TagRecurse} {
		d, ok := Descriptor(tag)
		require.True(t, ok, tag.String())
		assert.Equal(t, tag, d.Tag)
		assert.NotEmpty(t, d.Requires)
	}

	_, ok := Descriptor(cow.Tag(99))
	assert.False(t, ok)
}

func TestResolver_DescribesDeclarations(t *testing.T) {
	src := "//go:build butcher\n\npackage p\n\n//butcher:derive\ntype A struct{ X, Y int }\n\n" +
		"//butcher:union\ntype U struct {\n\tOn  struct{}\n\tOff struct{}\n}\n"

	p, err := NewResolver().Resolve(context.Background(), readSource(t, src))
	require.NoError(t, err)

	msgs := common.Map(p.Diagnostics.Infos, func(d diagnostic.Diagnostic) string { return d.Message })
	assert.Equal(t, []string{
		"A: record with 2 field(s) -> ButcheredA",
		"U: union with 2 variant(s) -> ButcheredU",
	}, msgs)
}
