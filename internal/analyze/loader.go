package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"

	"butcher-generator/internal/common"
	"butcher-generator/internal/ctxlog"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// derefMethod is the borrow-through method looked up for flatten fields.
const derefMethod = "Deref"

// ErrNoDeref is returned when a type has no usable Deref method.
var ErrNoDeref = errors.New("type has no Deref() *U method")

// Loader type-checks the package owning a source file. Packages are loaded at
// most once per directory. Type errors are tolerated since the package may
// still reference code that is about to be generated.
type Loader struct {
	pkgs map[string]*packages.Package
}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{pkgs: make(map[string]*packages.Package)}
}

// Load loads the package in dir.
func (l *Loader) Load(ctx context.Context, dir string) (*packages.Package, error) {
	if pkg, ok := l.pkgs[dir]; ok {
		return pkg, nil
	}

	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %s: %w", dir, err)
	}

	if len(pkgs) != 1 || pkgs[0].Types == nil {
		return nil, fmt.Errorf("no package found in %s", dir)
	}

	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		ctxlog.FromContext(ctx).Debug("package error ignored", "pkg", pkg.PkgPath, "err", e)
	}

	l.pkgs[dir] = pkg

	return pkg, nil
}

// DerefTarget resolves U for a field type T whose pointer has a
// Deref() *U method. typ is evaluated in the scope of the package in dir, so
// it may not mention type parameters of the enclosing declaration. Packages
// other than the one in dir are qualified by name and listed in the
// returned imports.
func (l *Loader) DerefTarget(ctx context.Context, dir string, typ ast.Expr) (TypeRef, error) {
	pkg, err := l.Load(ctx, dir)
	if err != nil {
		return TypeRef{}, err
	}

	src := common.ExprString(typ)

	tv, err := types.Eval(token.NewFileSet(), pkg.Types, token.NoPos, src)
	if err != nil {
		return TypeRef{}, fmt.Errorf("evaluating %s in %s: %w", src, pkg.PkgPath, err)
	}

	if !tv.IsType() {
		return TypeRef{}, fmt.Errorf("%s is not a type", src)
	}

	obj, _, _ := types.LookupFieldOrMethod(types.NewPointer(tv.Type), true, pkg.Types, derefMethod)

	fn, ok := obj.(*types.Func)
	if !ok {
		return TypeRef{}, fmt.Errorf("%s: %w", src, ErrNoDeref)
	}

	sig := fn.Type().(*types.Signature)
	if sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return TypeRef{}, fmt.Errorf("%s: %w", src, ErrNoDeref)
	}

	ptr, ok := sig.Results().At(0).Type().(*types.Pointer)
	if !ok {
		return TypeRef{}, fmt.Errorf("%s: %w", src, ErrNoDeref)
	}

	var (
		ref  TypeRef
		seen = make(map[string]bool)
	)

	target := types.TypeString(ptr.Elem(), func(p *types.Package) string {
		if p == pkg.Types {
			return ""
		}

		if !seen[p.Path()] {
			seen[p.Path()] = true

			imp := Import{Path: p.Path()}
			if p.Name() != common.PkgAlias(p.Path()) {
				imp.Name = p.Name()
			}

			ref.Imports = append(ref.Imports, imp)
		}

		return p.Name()
	})

	if ref.Expr, err = parser.ParseExpr(target); err != nil {
		return TypeRef{}, fmt.Errorf("parsing deref target %s: %w", target, err)
	}

	return ref, nil
}
