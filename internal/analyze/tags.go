package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"butcher-generator/cow"
	"butcher-generator/internal/diagnostic"
)

// TagKey is the struct tag key holding field annotations.
const TagKey = "butcher"

// Clause keys accepted after the strategy name.
const (
	clauseTarget = "target"
	clauseBound  = "bound"
)

// ParseAnnotation parses a butcher tag value:
//
//	<strategy>[,target=<Type>][,bound=<Param>:<Capability>]...
//
// An empty value is the regular strategy. The strategy may be omitted when the
// first item is a clause. Items are split on commas outside brackets so
// capabilities like map[K]V or interface{ A; B } stay intact.
func ParseAnnotation(raw string, loc diagnostic.Location) (Annotation, error) {
	ann := Annotation{Raw: raw, Tag: cow.TagRegular}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ann, nil
	}

	items, err := splitItems(raw)
	if err != nil {
		return ann, &diagnostic.AnnotationSyntaxError{Location: loc, Annotation: raw, Reason: err.Error()}
	}

	if !strings.Contains(items[0], "=") {
		name := items[0]
		if name == "" {
			return ann, &diagnostic.AnnotationSyntaxError{Location: loc, Annotation: raw, Reason: "missing strategy name"}
		}

		tag, ok := cow.ParseTag(name)
		if !ok {
			return ann, &diagnostic.UnknownStrategyError{
				Location:   loc,
				Strategy:   name,
				Suggestion: diagnostic.Suggest(name, cow.TagNames()),
			}
		}

		ann.Tag = tag
		items = items[1:]
	}

	for _, item := range items {
		if err := ann.parseClause(item); err != nil {
			return ann, &diagnostic.AnnotationSyntaxError{Location: loc, Annotation: raw, Reason: err.Error()}
		}
	}

	return ann, nil
}

func (a *Annotation) parseClause(item string) error {
	key, value, ok := strings.Cut(item, "=")
	if !ok {
		return fmt.Errorf("clause %q is not key=value", item)
	}

	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("empty %s clause", key)
	}

	switch key {
	case clauseTarget:
		if a.Tag != cow.TagFlatten {
			return fmt.Errorf("target= requires the flatten strategy, not %s", a.Tag)
		}

		if a.Target != nil {
			return errors.New("duplicate target= clause")
		}

		target, err := parseTypeExpr(value)
		if err != nil {
			return fmt.Errorf("target %q: %w", value, err)
		}

		a.Target = target

	case clauseBound:
		param, capability, ok := strings.Cut(value, ":")
		if !ok {
			return fmt.Errorf("bound %q is not Param: Capability", value)
		}

		param, capability = strings.TrimSpace(param), strings.TrimSpace(capability)
		if !token.IsIdentifier(param) {
			return fmt.Errorf("bound %q: %q is not a parameter name", value, param)
		}

		if capability == "" {
			return fmt.Errorf("bound %q has no capability", value)
		}

		expr, err := parseTypeExpr(capability)
		if err != nil {
			return fmt.Errorf("bound %q: %w", value, err)
		}

		a.Bounds = append(a.Bounds, Bound{
			Param:      param,
			Capability: expr,
			Raw:        param + ": " + capability,
		})

	default:
		return fmt.Errorf("unknown clause %q", key)
	}

	return nil
}

// splitItems splits s on commas at bracket depth zero and trims every item.
func splitItems(s string) ([]string, error) {
	var (
		items []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced %q at offset %d", r, i)
			}
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if depth != 0 {
		return nil, errors.New("unbalanced brackets")
	}

	return append(items, strings.TrimSpace(s[start:])), nil
}

// parseTypeExpr parses type text the way it would appear in a declaration.
func parseTypeExpr(s string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return nil, fmt.Errorf("not a type expression: %w", err)
	}

	return expr, nil
}
