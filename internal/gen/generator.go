package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"go/token"
	"path/filepath"
	"strings"

	"butcher-generator/internal/analyze"
	"butcher-generator/internal/common"
	"butcher-generator/internal/ctxlog"
	"butcher-generator/internal/plan"
)

// outputSuffix is appended to the source file stem to name generated files.
const outputSuffix = "_butcher.go"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// BuildTag marks template files. Generated code for a template file is
	// built only without it.
	BuildTag string
	// Output overrides the generated file name.
	Output string
	// DebugUnformatted writes the raw source next to the output when it
	// does not format.
	DebugUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		BuildTag: analyze.DefaultBuildTag,
	}
}

// Generator generates Go code from a resolved plan.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.BuildTag == "" {
		config.BuildTag = analyze.DefaultBuildTag
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Dir is the directory of the source file.
	Dir string
	// Filename is the name of the file (e.g., "events_butcher.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the path the file is written to.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// OutputName returns the default generated file name for a source file.
func OutputName(srcPath string) string {
	return strings.TrimSuffix(filepath.Base(srcPath), ".go") + outputSuffix
}

// Generate generates the view types and codecs of one resolved file.
// Nothing is produced when the plan carries errors.
func (g *Generator) Generate(ctx context.Context, p *plan.Plan) (*GeneratedFile, error) {
	if err := p.Diagnostics.Err(); err != nil {
		return nil, fmt.Errorf("plan for %s has errors: %w", p.Path, err)
	}

	file := &GeneratedFile{
		Dir:      filepath.Dir(p.Path),
		Filename: g.config.Output,
	}

	if file.Filename == "" {
		file.Filename = OutputName(p.Path)
	}

	data, err := g.buildFileData(p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.DebugUnformatted {
			if path, derr := writeDebugUnformatted(file.Dir, file.Filename, buf.Bytes()); derr == nil {
				ctxlog.FromContext(ctx).Warn("wrote unformatted source", "path", path)
			}
		}

		return nil, fmt.Errorf("formatting %s: %w", file.Filename, err)
	}

	file.Content = formatted

	ctxlog.FromContext(ctx).Debug("generated file",
		"file", file.Filename, "decls", len(p.Decls), "template", p.Template)

	return file, nil
}

func (g *Generator) buildFileData(p *plan.Plan) (*fileData, error) {
	data := &fileData{
		Package: p.Package,
		Imports: collectImports(p),
	}

	if p.Template {
		data.BuildConstraint = "!" + g.config.BuildTag
	}

	for i := range p.Decls {
		data.Decls = append(data.Decls, buildDeclData(&p.Decls[i], p.Template))
	}

	for _, decl := range p.Passthrough {
		src, err := printDecl(p, decl)
		if err != nil {
			return nil, err
		}

		data.Passthrough = append(data.Passthrough, src)
	}

	return data, nil
}

func buildDeclData(d *plan.ResolvedDeclaration, template bool) declData {
	dd := declData{
		Name:         d.Name(),
		Doc:          docLines(d.Decl.Doc),
		Template:     template,
		Union:        d.IsUnion(),
		Generic:      len(d.TypeParams) > 0,
		SourceParams: sourceParamList(d.Decl.Params),
		ViewParams:   typeParamList(d.TypeParams),
		Sig:          common.ExprString(d.Signature),
		ViewName:     d.ViewName,
		ViewSig:      common.ExprString(d.ViewSignature),
		CodecName:    d.CodecName,
		CodecSig:     common.ExprString(d.CodecSignature),
		Kind:         d.Name() + "Kind",
		HasFields:    len(d.Fields) > 0,
		bodies:       buildBodies(d.Fields, "p", "v", "v"),
	}

	args := typeArgsString(d.Signature)

	for _, v := range d.Variants {
		typ := d.Name() + v.Name
		view := d.ViewName + v.Name

		dd.Variants = append(dd.Variants, variantData{
			Name:      v.Name,
			Type:      typ,
			TypeSig:   typ + args,
			ViewType:  view,
			ViewSig:   view + args,
			KindConst: typ + "Kind",
			bodies:    buildBodies(v.Fields, "x", "x", "x"),
		})

		if len(v.Fields) > 0 {
			dd.Bind = true
		}
	}

	return dd
}

// buildBodies renders the struct types and literals of fields. borrowed, owned
// and view name the variables read on each path.
func buildBodies(fields []plan.ResolvedField, borrowed, owned, view string) bodies {
	var (
		source, viewType      []string
		borrowedLit, ownedLit []string
		recoverLit            []string
	)

	for _, f := range fields {
		strategy := common.ExprString(f.Strategy)

		source = append(source, sourceFieldLine(f))
		viewType = append(viewType, f.Name+" "+common.ExprString(f.ViewType))
		borrowedLit = append(borrowedLit,
			fmt.Sprintf("%s: %s.FromBorrowed(cow.Reborrow(r, &%s.%s)),", f.Name, strategy, borrowed, f.Name))
		ownedLit = append(ownedLit, fmt.Sprintf("%s: %s.FromOwned(%s.%s),", f.Name, strategy, owned, f.Name))
		recoverLit = append(recoverLit, fmt.Sprintf("%s: %s.Recover(%s.%s),", f.Name, strategy, view, f.Name))
	}

	return bodies{
		SourceStruct: block(source),
		ViewStruct:   block(viewType),
		BorrowedLit:  block(borrowedLit),
		OwnedLit:     block(ownedLit),
		RecoverLit:   block(recoverLit),
	}
}

// block renders lines between braces, or {} when there are none.
func block(lines []string) string {
	if len(lines) == 0 {
		return "{}"
	}

	return "{\n" + strings.Join(lines, "\n") + "\n}"
}

// typeArgsString returns the "[T, K]" suffix of an instantiated signature.
func typeArgsString(sig ast.Expr) string {
	s := common.ExprString(sig)
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[i:]
	}

	return ""
}

// printDecl prints a passthrough declaration with its comments.
func printDecl(p *plan.Plan, decl ast.Decl) (string, error) {
	var buf bytes.Buffer

	fset := p.FileSet
	if fset == nil {
		fset = token.NewFileSet()
	}

	node := &printer.CommentedNode{Node: decl, Comments: p.Comments}
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return "", fmt.Errorf("printing declaration: %w", err)
	}

	return buf.String(), nil
}
