package gen

import "text/template"

// fileData holds all data needed for the file template.
type fileData struct {
	BuildConstraint string
	Package         string
	Imports         []importSpec
	Decls           []declData
	Passthrough     []string
}

// declData describes one resolved declaration. Bodies are rendered
// beforehand so empty records and variants print as {}.
type declData struct {
	Name         string
	Doc          []string
	Template     bool
	Union        bool
	Generic      bool
	SourceParams string // e.g. "[T any]"
	ViewParams   string // SourceParams with bounds merged
	Sig          string // e.g. "Node[T]"
	ViewName     string
	ViewSig      string
	CodecName    string
	CodecSig     string
	Kind         string // union kind type, e.g. "WebEventKind"
	Bind         bool   // some variant has fields
	HasFields    bool
	bodies
	Variants []variantData
}

// variantData describes one union variant.
type variantData struct {
	Name      string
	Type      string // e.g. "WebEventClick"
	TypeSig   string // e.g. "WebEventClick[T]"
	ViewType  string // e.g. "ButcheredWebEventClick"
	ViewSig   string
	KindConst string // e.g. "WebEventClickKind"
	bodies
}

// bodies holds the rendered struct types and literals of a record or variant.
type bodies struct {
	SourceStruct string // {...} of the re-emitted source type
	ViewStruct   string // {...} of the view type
	BorrowedLit  string // view literal on the borrowed path
	OwnedLit     string // view literal on the owned path
	RecoverLit   string // source literal rebuilt from the view
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by butcher-generator. DO NOT EDIT.
{{if .BuildConstraint}}
//go:build {{.BuildConstraint}}
{{end}}
package {{.Package}}

import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{range .Decls}}{{if .Union}}{{template "union" .}}{{else}}{{template "record" .}}{{end}}{{end}}
{{- range .Passthrough}}
{{.}}
{{end}}
{{- define "doc"}}{{range .}}//{{if .}} {{.}}{{end}}
{{end}}{{end}}

{{- define "record"}}
{{if .Template}}{{template "doc" .Doc}}type {{.Name}}{{.SourceParams}} struct{{.SourceStruct}}
{{end}}
// {{.ViewName}} is the view of {{.Name}} produced by {{.CodecName}}.
type {{.ViewName}}{{.ViewParams}} struct{{.ViewStruct}}

// {{.CodecName}} decomposes {{.Name}} into {{.ViewName}} and back.
type {{.CodecName}}{{.ViewParams}} struct{}
{{if not .Generic}}
var _ cow.Codec[{{.Sig}}, {{.ViewSig}}] = {{.CodecName}}{}
{{end}}
// Decompose splits in into its view. Fields of a borrowed input are borrowed, not copied.
func ({{.CodecSig}}) Decompose(in cow.Cow[{{.Sig}}]) {{.ViewSig}} {
{{- if .HasFields}}
	if r, ok := in.AsBorrowed(); ok {
		p := r.Get()

		return {{.ViewSig}}{{.BorrowedLit}}
	}

	v := in.Get()

	return {{.ViewSig}}{{.OwnedLit}}
{{- else}}
	return {{.ViewSig}}{}
{{- end}}
}

// Recompose rebuilds an owned {{.Name}} from an unmodified view.
func ({{.CodecSig}}) Recompose(v {{.ViewSig}}) {{.Sig}} {
	return {{.Sig}}{{.RecoverLit}}
}
{{end}}

{{- define "union"}}
{{template "doc" .Doc}}type {{.Name}}{{.SourceParams}} interface {
	{{.Kind}}() {{.Kind}}
	is{{.Name}}()
}

// {{.Kind}} discriminates the variants of {{.Name}}.
type {{.Kind}} uint8
{{if .Variants}}
const (
{{range $i, $v := .Variants}}	{{$v.KindConst}}{{if eq $i 0}} {{$.Kind}} = iota + 1{{end}}
{{end}})
{{end}}
// String returns the variant name.
func (k {{.Kind}}) String() string {
	switch k {
{{range .Variants}}	case {{.KindConst}}:
		return "{{.Name}}"
{{end}}	default:
		return "{{.Kind}}(" + strconv.Itoa(int(k)) + ")"
	}
}
{{range .Variants}}
// {{.Type}} is the {{.Name}} variant of {{$.Name}}.
type {{.Type}}{{$.SourceParams}} struct{{.SourceStruct}}

func (*{{.TypeSig}}) {{$.Kind}}() {{$.Kind}} { return {{.KindConst}} }

func (*{{.TypeSig}}) is{{$.Name}}() {}
{{end}}
// {{.ViewName}} is the view of {{.Name}} produced by {{.CodecName}}.
type {{.ViewName}}{{.ViewParams}} interface {
	{{.Kind}}() {{.Kind}}
	is{{.ViewName}}()
}
{{range .Variants}}
// {{.ViewType}} is the view of {{.Type}}.
type {{.ViewType}}{{$.ViewParams}} struct{{.ViewStruct}}

func (*{{.ViewSig}}) {{$.Kind}}() {{$.Kind}} { return {{.KindConst}} }

func (*{{.ViewSig}}) is{{$.ViewName}}() {}
{{end}}
// {{.CodecName}} decomposes {{.Name}} into {{.ViewName}} and back.
type {{.CodecName}}{{.ViewParams}} struct{}
{{if not .Generic}}
var _ cow.Codec[{{.Sig}}, {{.ViewSig}}] = {{.CodecName}}{}
{{end}}
// Decompose splits in into the view of its variant. A nil input yields a nil view.
func ({{.CodecSig}}) Decompose(in cow.Cow[{{.Sig}}]) {{.ViewSig}} {
	if r, ok := in.AsBorrowed(); ok {
		switch {{if .Bind}}x := {{end}}(*r.Get()).(type) {
{{range .Variants}}		case *{{.TypeSig}}:
			return &{{.ViewSig}}{{.BorrowedLit}}
{{end}}		}

		return nil
	}

	switch {{if .Bind}}x := {{end}}in.Get().(type) {
{{range .Variants}}	case *{{.TypeSig}}:
		return &{{.ViewSig}}{{.OwnedLit}}
{{end}}	}

	return nil
}

// Recompose rebuilds an owned {{.Name}} from an unmodified view.
func ({{.CodecSig}}) Recompose(v {{.ViewSig}}) {{.Sig}} {
	switch {{if .Bind}}x := {{end}}v.(type) {
{{range .Variants}}	case *{{.ViewSig}}:
		return &{{.TypeSig}}{{.RecoverLit}}
{{end}}	}

	return nil
}
{{end}}
`))
