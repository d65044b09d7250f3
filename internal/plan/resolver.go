package plan

import (
	"context"
	"errors"
	"fmt"
	"go/ast"

	"butcher-generator/cow"
	"butcher-generator/internal/analyze"
	"butcher-generator/internal/common"
	"butcher-generator/internal/ctxlog"
	"butcher-generator/internal/diagnostic"
)

// DerefResolver finds the U a flatten field type borrows through to.
// *analyze.Loader implements it.
type DerefResolver interface {
	DerefTarget(ctx context.Context, dir string, typ ast.Expr) (analyze.TypeRef, error)
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	prefix string
	deref  DerefResolver
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPrefix sets the view type prefix.
func WithPrefix(prefix string) ResolverOption {
	return func(r *Resolver) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithDerefResolver enables flatten fields without an explicit target.
func WithDerefResolver(d DerefResolver) ResolverOption {
	return func(r *Resolver) {
		r.deref = d
	}
}

// NewResolver creates a new Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve runs the full resolution pipeline for one file. Every error of
// every declaration is collected; the plan is only usable when err is nil.
func (r *Resolver) Resolve(ctx context.Context, file *analyze.File) (*Plan, error) {
	p := &Plan{
		Path:        file.Path,
		Package:     file.Package,
		Template:    file.Template,
		Imports:     file.Imports,
		Passthrough: file.Passthrough,
		Comments:    file.Comments,
		FileSet:     file.FileSet,
	}

	for i := range file.Decls {
		d := &file.Decls[i]

		resolved, ok := r.resolveDeclaration(ctx, file, d, &p.Diagnostics)
		if !ok {
			continue
		}

		p.Decls = append(p.Decls, resolved)
		p.Diagnostics.AddInfo("resolved", describe(&resolved), d.Name, "")
	}

	if len(file.Decls) == 0 {
		p.Diagnostics.AddWarning("no_declarations", file.Path+": no //butcher:derive declarations found", "", "")
	}

	if err := p.Diagnostics.Err(); err != nil {
		return p, err
	}

	return p, nil
}

// describe summarizes a resolved declaration, e.g.
// "Point: record with 3 field(s) -> ButcheredPoint".
func describe(d *ResolvedDeclaration) string {
	count := fmt.Sprintf("%d field(s)", len(d.Fields))
	if d.IsUnion() {
		count = fmt.Sprintf("%d variant(s)", len(d.Variants))
	}

	return fmt.Sprintf("%s: %s with %s -> %s", d.Name(), d.Decl.Kind, count, d.ViewName)
}

func (r *Resolver) resolveDeclaration(
	ctx context.Context, file *analyze.File, d *analyze.Declaration, diags *diagnostic.Diagnostics,
) (ResolvedDeclaration, bool) {
	before := len(diags.Errors)
	path := analyze.NewTypePath(d.Name)
	sig := Signature(d.Name, d.Params)
	args := typeArgs(sig)

	rd := ResolvedDeclaration{
		Decl:           d,
		Signature:      sig,
		ViewName:       ViewName(r.prefix, d.Name),
		CodecName:      CodecName(d.Name),
		ViewSignature:  instantiate(ast.NewIdent(ViewName(r.prefix, d.Name)), args...),
		CodecSignature: instantiate(ast.NewIdent(CodecName(d.Name)), args...),
	}

	var bounds []boundClause

	switch d.Kind {
	case analyze.DeclRecord:
		rd.Fields, bounds = r.resolveFields(ctx, file, d, sig, path, d.Fields, diags)
	case analyze.DeclUnion:
		for _, v := range d.Variants {
			fields, vb := r.resolveFields(ctx, file, d, sig, path.Field(v.Name), v.Fields, diags)
			rd.Variants = append(rd.Variants, ResolvedVariant{Name: v.Name, Fields: fields})
			bounds = append(bounds, vb...)
		}
	}

	rd.TypeParams = r.mergeBounds(d, sig, bounds, diags)

	return rd, len(diags.Errors) == before
}

func (r *Resolver) resolveFields(
	ctx context.Context, file *analyze.File, d *analyze.Declaration, sig ast.Expr, path *analyze.TypePath,
	fields []analyze.Field, diags *diagnostic.Diagnostics,
) ([]ResolvedField, []boundClause) {
	var (
		out    []ResolvedField
		bounds []boundClause
	)

	for _, f := range fields {
		rf, err := r.resolveField(ctx, file, d, sig, path.Field(f.Name), f)
		if err != nil {
			diags.AddError(err)
			continue
		}

		ctxlog.FromContext(ctx).Debug("resolved field",
			"field", path.Field(f.Name).String(), "strategy", rf.Tag(), "view", common.ExprString(rf.ViewType))

		out = append(out, rf)

		for _, b := range f.Strategy.Bounds {
			bounds = append(bounds, boundClause{Bound: b, Loc: path.Field(f.Name).At(f.Pos)})
		}
	}

	return out, bounds
}

func (r *Resolver) resolveField(
	ctx context.Context, file *analyze.File, d *analyze.Declaration, sig ast.Expr, path *analyze.TypePath,
	f analyze.Field,
) (ResolvedField, error) {
	loc := path.At(f.Pos)

	if !d.Template && UsesSelf(f.Type) {
		return ResolvedField{}, &diagnostic.AnnotationSyntaxError{
			Location: loc,
			Reason:   "Self may only be used in template files",
		}
	}

	typ, err := RewriteSelf(f.Type, sig, loc)
	if err != nil {
		return ResolvedField{}, err
	}

	desc, ok := Descriptor(f.Strategy.Tag)
	if !ok {
		return ResolvedField{}, &diagnostic.UnknownStrategyError{Location: loc, Strategy: f.Strategy.Tag.String()}
	}

	in := fieldInput{Type: typ, Prefix: r.prefix, Loc: loc}

	var target analyze.TypeRef

	if f.Strategy.Tag == cow.TagFlatten {
		if target, err = r.flattenTarget(ctx, file, sig, typ, f, loc); err != nil {
			return ResolvedField{}, err
		}

		in.Target = target.Expr
	}

	view, strategy, err := desc.derive(in)
	if err != nil {
		return ResolvedField{}, err
	}

	return ResolvedField{
		Name:       f.Name,
		Embedded:   f.Embedded,
		SourceTag:  f.Tag,
		Type:       typ,
		ViewType:   view,
		Strategy:   strategy,
		Descriptor: desc,
		Imports:    target.Imports,
		Pos:        f.Pos,
	}, nil
}

func (r *Resolver) flattenTarget(
	ctx context.Context, file *analyze.File, sig, typ ast.Expr, f analyze.Field, loc diagnostic.Location,
) (analyze.TypeRef, error) {
	if f.Strategy.Target != nil {
		expr, err := RewriteSelf(f.Strategy.Target, sig, loc)
		return analyze.TypeRef{Expr: expr}, err
	}

	if r.deref == nil {
		return analyze.TypeRef{}, nil
	}

	target, err := r.deref.DerefTarget(ctx, file.Dir, typ)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return analyze.TypeRef{}, err
		}

		return analyze.TypeRef{}, &diagnostic.AnnotationSyntaxError{
			Location: loc,
			Reason:   fmt.Sprintf("cannot resolve flatten target, add target=<Type>: %v", err),
		}
	}

	for _, imp := range target.Imports {
		for _, own := range file.Imports {
			if own.Alias() == imp.Alias() && own.Path != imp.Path {
				return analyze.TypeRef{}, &diagnostic.AnnotationSyntaxError{
					Location: loc,
					Reason: fmt.Sprintf("flatten target %s needs package %q, but %q is imported as %s",
						common.ExprString(target.Expr), imp.Path, own.Path, own.Alias()),
				}
			}
		}
	}

	return target, nil
}

// boundClause is a bound with the location of the field declaring it.
type boundClause struct {
	analyze.Bound
	Loc diagnostic.Location
}

// mergeBounds appends every bound clause to the constraint of its parameter.
// A source constraint of any is dropped once a bound exists. Clauses with
// the same text collapse.
func (r *Resolver) mergeBounds(
	d *analyze.Declaration, sig ast.Expr, bounds []boundClause, diags *diagnostic.Diagnostics,
) []TypeParam {
	extra := make(map[string][]ast.Expr)

	for _, b := range bounds {
		loc := b.Loc

		if _, ok := d.Param(b.Param); !ok {
			diags.AddError(&diagnostic.AnnotationSyntaxError{
				Location:   loc,
				Annotation: b.Raw,
				Reason:     fmt.Sprintf("bound names unknown parameter %q", b.Param),
			})

			continue
		}

		capability, err := RewriteSelf(b.Capability, sig, loc)
		if err != nil {
			diags.AddError(err)
			continue
		}

		extra[b.Param] = append(extra[b.Param], capability)
	}

	params := make([]TypeParam, 0, len(d.Params))

	for _, p := range d.Params {
		if p.Kind == analyze.ParamConst {
			continue
		}

		var constraints []ast.Expr
		if p.Constraint != nil && !(isAny(p.Constraint) && len(extra[p.Name]) > 0) {
			constraints = append(constraints, p.Constraint)
		}

		constraints = uniqExprs(append(constraints, extra[p.Name]...))
		if len(constraints) == 0 {
			constraints = []ast.Expr{ast.NewIdent("any")}
		}

		params = append(params, TypeParam{Name: p.Name, Constraints: constraints})
	}

	return params
}

func isAny(e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	return ok && id.Name == "any"
}

func uniqExprs(exprs []ast.Expr) []ast.Expr {
	keys := common.Uniq(common.Map(exprs, common.ExprString))
	if len(keys) == len(exprs) {
		return exprs
	}

	byKey := make(map[string]ast.Expr, len(exprs))
	for _, e := range exprs {
		if _, ok := byKey[common.ExprString(e)]; !ok {
			byKey[common.ExprString(e)] = e
		}
	}

	return common.Map(keys, func(k string) ast.Expr { return byKey[k] })
}

// typeArgs returns the type arguments of an instantiated signature.
func typeArgs(sig ast.Expr) []ast.Expr {
	switch t := sig.(type) {
	case *ast.IndexExpr:
		return []ast.Expr{t.Index}
	case *ast.IndexListExpr:
		return t.Indices
	default:
		return nil
	}
}
