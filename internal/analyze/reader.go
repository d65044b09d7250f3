package analyze

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"butcher-generator/internal/ctxlog"
	"butcher-generator/internal/diagnostic"
)

// DefaultBuildTag marks template files.
const DefaultBuildTag = "butcher"

// Directives recognized in declaration doc comments.
const (
	directivePrefix = "//butcher:"
	directiveDerive = "derive"
	directiveUnion  = "union"
)

// Overrides maps a declaration name to field annotations that replace the
// field's tag. Union variant fields are keyed "Variant.Field".
type Overrides map[string]map[string]string

// Reader parses source files into declarations.
type Reader struct {
	buildTag  string
	overrides Overrides
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithBuildTag sets the build tag that marks template files.
func WithBuildTag(tag string) ReaderOption {
	return func(r *Reader) {
		if tag != "" {
			r.buildTag = tag
		}
	}
}

// WithOverrides sets annotations that take precedence over struct tags.
func WithOverrides(o Overrides) ReaderOption {
	return func(r *Reader) {
		r.overrides = o
	}
}

// NewReader creates a new Reader.
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{buildTag: DefaultBuildTag}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ReadFile reads the declarations of the file at path.
func (r *Reader) ReadFile(ctx context.Context, path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return r.ReadSource(ctx, path, src)
}

// ReadSource reads the declarations of src, reported under filename.
// All annotation errors of the file are returned together.
func (r *Reader) ReadSource(ctx context.Context, filename string, src []byte) (*File, error) {
	fset := token.NewFileSet()

	astFile, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	file := &File{
		Path:     filename,
		Dir:      filepath.Dir(filename),
		Package:  astFile.Name.Name,
		FileSet:  fset,
		Comments: astFile.Comments,
	}

	if ast.IsGenerated(astFile) {
		return file, nil
	}

	if file.Template, err = r.isTemplate(astFile); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	for _, spec := range astFile.Imports {
		imp := Import{Path: strings.Trim(spec.Path.Value, "\"`")}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}

		file.Imports = append(file.Imports, imp)
	}

	var diags diagnostic.Diagnostics

	for _, decl := range astFile.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok {
			r.passthrough(file, decl)
			continue
		}

		if gen.Tok == token.IMPORT {
			continue
		}

		if gen.Tok != token.TYPE {
			r.passthrough(file, decl)
			continue
		}

		var rest []ast.Spec

		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)

			doc := ts.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}

			derive, union, err := parseDirectives(doc, NewTypePath(ts.Name.Name).At(fset.Position(ts.Pos())))
			if err != nil {
				diags.AddError(err)
				continue
			}

			if !derive {
				rest = append(rest, spec)
				continue
			}

			d, ok := r.readDeclaration(fset, file, ts, doc, union, &diags)
			if !ok {
				continue
			}

			ctxlog.FromContext(ctx).Debug("read declaration",
				"name", d.Name, "kind", d.Kind, "params", len(d.Params), "template", d.Template)

			file.Decls = append(file.Decls, d)
		}

		if len(rest) > 0 {
			kept := *gen
			kept.Specs = rest
			r.passthrough(file, &kept)
		}
	}

	if err := diags.Err(); err != nil {
		return nil, err
	}

	return file, nil
}

func (r *Reader) passthrough(file *File, decl ast.Decl) {
	if file.Template {
		file.Passthrough = append(file.Passthrough, decl)
	}
}

// isTemplate reports whether the file's build constraint selects it only
// when the template build tag is set.
func (r *Reader) isTemplate(f *ast.File) (bool, error) {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}

		for _, c := range cg.List {
			if !constraint.IsGoBuild(c.Text) {
				continue
			}

			expr, err := constraint.Parse(c.Text)
			if err != nil {
				return false, fmt.Errorf("build constraint: %w", err)
			}

			with := expr.Eval(func(tag string) bool { return tag == r.buildTag })
			without := expr.Eval(func(string) bool { return false })

			return with && !without, nil
		}
	}

	return false, nil
}

// parseDirectives reports whether doc selects the declaration and whether it
// is a union template.
func parseDirectives(doc *ast.CommentGroup, loc diagnostic.Location) (derive, union bool, err error) {
	if doc == nil {
		return false, false, nil
	}

	for _, c := range doc.List {
		name, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}

		switch strings.TrimSpace(name) {
		case directiveDerive:
			derive = true
		case directiveUnion:
			derive, union = true, true
		default:
			return false, false, &diagnostic.AnnotationSyntaxError{
				Location:   loc,
				Annotation: c.Text,
				Reason:     "unknown directive",
			}
		}
	}

	return derive, union, nil
}

func (r *Reader) readDeclaration(
	fset *token.FileSet, file *File, ts *ast.TypeSpec, doc *ast.CommentGroup, union bool, diags *diagnostic.Diagnostics,
) (Declaration, bool) {
	path := NewTypePath(ts.Name.Name)
	pos := fset.Position(ts.Pos())

	st, ok := ts.Type.(*ast.StructType)
	if !ok || ts.Assign.IsValid() {
		diags.AddError(&diagnostic.AnnotationSyntaxError{
			Location: path.At(pos),
			Reason:   "butcher directives apply to struct type definitions only",
		})

		return Declaration{}, false
	}

	d := Declaration{
		Name:     ts.Name.Name,
		Params:   readParams(ts.TypeParams),
		Template: file.Template,
		Pos:      pos,
	}

	if doc != nil {
		d.Doc = doc.Text()
	}

	overrides := r.overrides[d.Name]
	before := len(diags.Errors)

	if union {
		if !file.Template {
			diags.AddError(&diagnostic.AnnotationSyntaxError{
				Location: path.At(pos),
				Reason:   fmt.Sprintf("union templates must be declared in a file built with the %q tag", r.buildTag),
			})

			return Declaration{}, false
		}

		d.Kind = DeclUnion
		d.Variants = readVariants(fset, st, path, overrides, diags)
	} else {
		d.Kind = DeclRecord
		d.Fields = readFields(fset, st.Fields, path, overrides, "", diags)
	}

	return d, len(diags.Errors) == before
}

func readParams(list *ast.FieldList) []Param {
	if list == nil {
		return nil
	}

	var params []Param

	for _, f := range list.List {
		for _, name := range f.Names {
			params = append(params, Param{Name: name.Name, Kind: ParamType, Constraint: f.Type})
		}
	}

	return params
}

func readVariants(
	fset *token.FileSet, st *ast.StructType, path *TypePath, overrides map[string]string, diags *diagnostic.Diagnostics,
) []Variant {
	var variants []Variant

	for _, f := range st.Fields.List {
		pos := fset.Position(f.Pos())

		if len(f.Names) == 0 {
			diags.AddError(&diagnostic.AnnotationSyntaxError{
				Location: path.At(pos),
				Reason:   "union variants must be named fields",
			})

			continue
		}

		payload, ok := f.Type.(*ast.StructType)

		for _, name := range f.Names {
			vpath := path.Field(name.Name)

			if name.Name == "_" {
				diags.AddError(&diagnostic.AnnotationSyntaxError{
					Location: vpath.At(pos),
					Reason:   "union variants must not be blank",
				})

				continue
			}

			if !ok {
				diags.AddError(&diagnostic.AnnotationSyntaxError{
					Location: vpath.At(pos),
					Reason:   "union variant must be an anonymous struct, e.g. struct{ X int }",
				})

				continue
			}

			if raw, has := lookupTag(f); has {
				diags.AddError(&diagnostic.AnnotationSyntaxError{
					Location:   vpath.At(pos),
					Annotation: raw,
					Reason:     "union variants take no annotation, annotate the payload fields",
				})

				continue
			}

			variants = append(variants, Variant{
				Name:   name.Name,
				Fields: readFields(fset, payload.Fields, vpath, overrides, name.Name+".", diags),
				Pos:    fset.Position(name.Pos()),
			})
		}
	}

	return variants
}

func readFields(
	fset *token.FileSet, list *ast.FieldList, path *TypePath, overrides map[string]string, keyPrefix string,
	diags *diagnostic.Diagnostics,
) []Field {
	if list == nil {
		return nil
	}

	var fields []Field

	for _, f := range list.List {
		names := make([]string, 0, len(f.Names))
		for _, n := range f.Names {
			names = append(names, n.Name)
		}

		embedded := len(names) == 0
		if embedded {
			name, ok := embeddedName(f.Type)
			if !ok {
				diags.AddError(&diagnostic.UnsupportedTypeShapeError{
					Location: path.At(fset.Position(f.Pos())),
					Node:     fmt.Sprintf("%T", f.Type),
					Reason:   "embedded field has no name",
				})

				continue
			}

			names = append(names, name)
		}

		raw, _ := lookupTag(f)
		structTag := unquoteTag(f)

		for _, name := range names {
			fpath := path.Field(name)
			pos := fset.Position(f.Pos())

			if name == "_" {
				diags.AddError(&diagnostic.AnnotationSyntaxError{
					Location: fpath.At(pos),
					Reason:   "blank fields cannot be mirrored in a view, name the field",
				})

				continue
			}

			fieldRaw := raw
			if override, ok := overrides[keyPrefix+name]; ok {
				fieldRaw = override
			}

			ann, err := ParseAnnotation(fieldRaw, fpath.At(pos))
			if err != nil {
				diags.AddError(err)
				continue
			}

			fields = append(fields, Field{
				Name:     name,
				Index:    len(fields),
				Type:     f.Type,
				Embedded: embedded,
				Tag:      structTag,
				Strategy: ann,
				Pos:      pos,
			})
		}
	}

	return fields
}

// lookupTag returns the butcher tag value of f.
func lookupTag(f *ast.Field) (string, bool) {
	return reflect.StructTag(unquoteTag(f)).Lookup(TagKey)
}

func unquoteTag(f *ast.Field) string {
	if f.Tag == nil {
		return ""
	}

	tag, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return ""
	}

	return tag
}

// embeddedName returns the implicit field name of an embedded type.
func embeddedName(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name, true
	case *ast.SelectorExpr:
		return e.Sel.Name, true
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	default:
		return "", false
	}
}

// FindSources returns the Go files under dir that contain butcher directives.
// Test files are skipped.
func FindSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		path := filepath.Join(dir, name)

		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		if bytes.Contains(src, []byte(directivePrefix+directiveDerive)) ||
			bytes.Contains(src, []byte(directivePrefix+directiveUnion)) {
			files = append(files, path)
		}
	}

	sort.Strings(files)

	return files, nil
}
