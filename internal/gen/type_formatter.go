package gen

import (
	"go/ast"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"butcher-generator/internal/analyze"
	"butcher-generator/internal/common"
	"butcher-generator/internal/plan"
)

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// butcherTag matches the butcher key of a struct tag with its value.
var butcherTag = regexp.MustCompile(`\s*\b` + analyze.TagKey + `:"(?:[^"\\]|\\.)*"`)

// typeParamList renders the emitted parameter list, e.g. "[T any, K comparable]".
// Merged constraints become an interface intersection.
func typeParamList(params []plan.TypeParam) string {
	if len(params) == 0 {
		return ""
	}

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + constraintString(p.Constraints)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func constraintString(constraints []ast.Expr) string {
	if len(constraints) == 1 {
		return common.ExprString(constraints[0])
	}

	return "interface{ " + strings.Join(common.Map(constraints, common.ExprString), "; ") + " }"
}

// sourceParamList renders the parameter list of a source declaration.
func sourceParamList(params []analyze.Param) string {
	var parts []string

	for _, p := range params {
		if p.Kind != analyze.ParamType {
			continue
		}

		constraint := "any"
		if p.Constraint != nil {
			constraint = common.ExprString(p.Constraint)
		}

		parts = append(parts, p.Name+" "+constraint)
	}

	if len(parts) == 0 {
		return ""
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// sourceFieldLine renders a template field with Self substituted and the
// butcher key removed from its tag.
func sourceFieldLine(f plan.ResolvedField) string {
	line := common.ExprString(f.Type)
	if !f.Embedded {
		line = f.Name + " " + line
	}

	if tag := stripButcherTag(f.SourceTag); tag != "" {
		line += " " + quoteTag(tag)
	}

	return line
}

func stripButcherTag(tag string) string {
	return strings.TrimSpace(butcherTag.ReplaceAllString(tag, ""))
}

func quoteTag(tag string) string {
	if strings.Contains(tag, "`") {
		return strconv.Quote(tag)
	}

	return "`" + tag + "`"
}

// docLines splits a doc comment into lines for the doc template.
func docLines(doc string) []string {
	doc = strings.TrimRight(doc, "\n")
	if doc == "" {
		return nil
	}

	return strings.Split(doc, "\n")
}

// usedPackages returns the names of packages referenced as pkg.X in nodes.
func usedPackages(nodes ...ast.Node) map[string]bool {
	used := make(map[string]bool)

	for _, n := range nodes {
		if n == nil {
			continue
		}

		ast.Inspect(n, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if id, ok := sel.X.(*ast.Ident); ok {
				used[id.Name] = true
			}

			return true
		})
	}

	return used
}

// collectImports keeps the source imports referenced by the generated code
// and adds the runtime package, the packages of flatten targets found through
// Deref, plus strconv when unions are lowered.
func collectImports(p *plan.Plan) []importSpec {
	var (
		nodes  []ast.Node
		extras []analyze.Import
	)

	for i := range p.Decls {
		d := &p.Decls[i]

		for _, tp := range d.TypeParams {
			for _, c := range tp.Constraints {
				nodes = append(nodes, c)
			}
		}

		for _, param := range d.Decl.Params {
			nodes = append(nodes, param.Constraint)
		}

		fields := append([]plan.ResolvedField{}, d.Fields...)
		for _, v := range d.Variants {
			fields = append(fields, v.Fields...)
		}

		for _, f := range fields {
			nodes = append(nodes, f.Type, f.ViewType, f.Strategy)
			extras = append(extras, f.Imports...)
		}
	}

	for _, decl := range p.Passthrough {
		nodes = append(nodes, decl)
	}

	used := usedPackages(nodes...)
	imports := map[analyze.Import]importSpec{}

	add := func(imp analyze.Import) {
		key := analyze.Import{Name: imp.Alias(), Path: imp.Path}
		if _, ok := imports[key]; ok {
			return
		}

		spec := importSpec{Path: imp.Path}
		if imp.Name != "" && imp.Name != common.PkgAlias(imp.Path) {
			spec.Alias = imp.Name
		}

		imports[key] = spec
	}

	add(analyze.Import{Path: plan.RuntimePkg})

	if p.HasUnions() {
		add(analyze.Import{Path: "strconv"})
	}

	for _, imp := range p.Imports {
		if imp.Name == "_" || imp.Name == "." || !used[imp.Alias()] {
			continue
		}

		add(imp)
	}

	for _, imp := range extras {
		add(imp)
	}

	out := make([]importSpec, 0, len(imports))
	for _, spec := range imports {
		out = append(out, spec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}

		return out[i].Alias < out[j].Alias
	})

	return out
}
