package plan

import (
	"fmt"
	"go/ast"
	"go/token"

	"butcher-generator/internal/common"
	"butcher-generator/internal/diagnostic"
)

// SelfMarker is the identifier standing for the declaration being derived.
const SelfMarker = "Self"

// RewriteSelf returns a copy of typ in which every unqualified Self is
// replaced by sig. typ is not modified; unchanged leaves may be shared.
// Type forms outside the recognized set fail with
// *diagnostic.UnsupportedTypeShapeError attributed to loc.
func RewriteSelf(typ, sig ast.Expr, loc diagnostic.Location) (ast.Expr, error) {
	rw := selfRewriter{sig: sig, root: typ, loc: loc}
	return rw.expr(typ)
}

// UsesSelf reports whether typ mentions Self.
func UsesSelf(typ ast.Expr) bool {
	found := false

	ast.Inspect(typ, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.SelectorExpr:
			// pkg.Self is a different type.
			return false
		case *ast.Ident:
			if n.Name == SelfMarker {
				found = true
			}
		}

		return !found
	})

	return found
}

type selfRewriter struct {
	sig  ast.Expr
	root ast.Expr
	loc  diagnostic.Location
}

func (rw *selfRewriter) expr(e ast.Expr) (ast.Expr, error) {
	switch t := e.(type) {
	case *ast.Ident:
		if t.Name == SelfMarker {
			return rw.sig, nil
		}

		return t, nil

	case *ast.SelectorExpr:
		return t, nil

	case *ast.StarExpr:
		x, err := rw.expr(t.X)
		if err != nil {
			return nil, err
		}

		return &ast.StarExpr{X: x}, nil

	case *ast.ParenExpr:
		x, err := rw.expr(t.X)
		if err != nil {
			return nil, err
		}

		return &ast.ParenExpr{X: x}, nil

	case *ast.ArrayType:
		elt, err := rw.expr(t.Elt)
		if err != nil {
			return nil, err
		}

		return &ast.ArrayType{Len: t.Len, Elt: elt}, nil

	case *ast.Ellipsis:
		elt, err := rw.expr(t.Elt)
		if err != nil {
			return nil, err
		}

		return &ast.Ellipsis{Elt: elt}, nil

	case *ast.MapType:
		key, err := rw.expr(t.Key)
		if err != nil {
			return nil, err
		}

		value, err := rw.expr(t.Value)
		if err != nil {
			return nil, err
		}

		return &ast.MapType{Key: key, Value: value}, nil

	case *ast.ChanType:
		value, err := rw.expr(t.Value)
		if err != nil {
			return nil, err
		}

		return &ast.ChanType{Dir: t.Dir, Value: value}, nil

	case *ast.FuncType:
		return rw.funcType(t)

	case *ast.IndexExpr:
		x, err := rw.expr(t.X)
		if err != nil {
			return nil, err
		}

		index, err := rw.expr(t.Index)
		if err != nil {
			return nil, err
		}

		return &ast.IndexExpr{X: x, Index: index}, nil

	case *ast.IndexListExpr:
		x, err := rw.expr(t.X)
		if err != nil {
			return nil, err
		}

		indices, err := rw.exprs(t.Indices)
		if err != nil {
			return nil, err
		}

		return &ast.IndexListExpr{X: x, Indices: indices}, nil

	case *ast.InterfaceType:
		methods, err := rw.fieldList(t.Methods)
		if err != nil {
			return nil, err
		}

		return &ast.InterfaceType{Methods: methods, Incomplete: t.Incomplete}, nil

	case *ast.StructType:
		fields, err := rw.fieldList(t.Fields)
		if err != nil {
			return nil, err
		}

		return &ast.StructType{Fields: fields, Incomplete: t.Incomplete}, nil

	case *ast.BinaryExpr:
		if t.Op != token.OR {
			return nil, rw.unsupported(e, fmt.Sprintf("operator %s in a type", t.Op))
		}

		x, err := rw.expr(t.X)
		if err != nil {
			return nil, err
		}

		y, err := rw.expr(t.Y)
		if err != nil {
			return nil, err
		}

		return &ast.BinaryExpr{X: x, Op: t.Op, Y: y}, nil

	case *ast.UnaryExpr:
		if t.Op != token.TILDE {
			return nil, rw.unsupported(e, fmt.Sprintf("operator %s in a type", t.Op))
		}

		x, err := rw.expr(t.X)
		if err != nil {
			return nil, err
		}

		return &ast.UnaryExpr{Op: t.Op, X: x}, nil

	default:
		return nil, rw.unsupported(e, "")
	}
}

func (rw *selfRewriter) exprs(list []ast.Expr) ([]ast.Expr, error) {
	out := make([]ast.Expr, len(list))

	for i, e := range list {
		x, err := rw.expr(e)
		if err != nil {
			return nil, err
		}

		out[i] = x
	}

	return out, nil
}

func (rw *selfRewriter) funcType(t *ast.FuncType) (*ast.FuncType, error) {
	if t.TypeParams != nil && len(t.TypeParams.List) > 0 {
		return nil, rw.unsupported(t, "generic function type")
	}

	params, err := rw.fieldList(t.Params)
	if err != nil {
		return nil, err
	}

	results, err := rw.fieldList(t.Results)
	if err != nil {
		return nil, err
	}

	return &ast.FuncType{Params: params, Results: results}, nil
}

func (rw *selfRewriter) fieldList(list *ast.FieldList) (*ast.FieldList, error) {
	if list == nil {
		return nil, nil
	}

	out := &ast.FieldList{Opening: list.Opening, List: make([]*ast.Field, len(list.List)), Closing: list.Closing}

	for i, f := range list.List {
		typ, err := rw.expr(f.Type)
		if err != nil {
			return nil, err
		}

		out.List[i] = &ast.Field{Names: f.Names, Type: typ, Tag: f.Tag}
	}

	return out, nil
}

func (rw *selfRewriter) unsupported(node ast.Expr, reason string) error {
	return &diagnostic.UnsupportedTypeShapeError{
		Location: rw.loc,
		Node:     fmt.Sprintf("%T", node),
		Type:     common.ExprString(rw.root),
		Reason:   reason,
	}
}
