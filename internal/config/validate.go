package config

import (
	"errors"
	"fmt"
	"go/token"
	"path/filepath"

	"butcher-generator/internal/analyze"
	"butcher-generator/internal/diagnostic"
)

// CodeUnusedOverride marks config entries that match nothing.
const CodeUnusedOverride = "unused_override"

// Validate checks a loaded configuration. Field entries are parsed the same
// way as struct tags, so unknown strategies and malformed clauses surface
// with the field they belong to.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(errors.New("config is nil"))
		return res
	}

	if f.Version != "1" {
		res.AddError(fmt.Errorf("unsupported config version %q", f.Version))
	}

	if !token.IsIdentifier(f.Prefix) {
		res.AddError(fmt.Errorf("prefix %q is not an identifier", f.Prefix))
	}

	if f.Output != "" && (filepath.Ext(f.Output) != ".go" || filepath.Base(f.Output) != f.Output) {
		res.AddError(fmt.Errorf("output %q must be a .go file name", f.Output))
	}

	if f.BuildTag == "" || !token.IsIdentifier(f.BuildTag) {
		res.AddError(fmt.Errorf("build_tag %q is not a valid tag", f.BuildTag))
	}

	seen := make(map[string]struct{}, len(f.Types))

	for _, tc := range f.Types {
		if !token.IsIdentifier(tc.Name) {
			res.AddError(fmt.Errorf("type name %q is not an identifier", tc.Name))
			continue
		}

		if _, ok := seen[tc.Name]; ok {
			res.AddError(fmt.Errorf("duplicate type %q", tc.Name))
			continue
		}

		seen[tc.Name] = struct{}{}

		for _, name := range tc.fieldNames() {
			loc := diagnostic.Location{Path: tc.Name + "." + name}

			if _, err := analyze.ParseAnnotation(tc.Fields[name].Annotation(), loc); err != nil {
				res.AddError(err)
			}
		}
	}

	return res
}

// CheckOverrides adds a warning for every type entry that matches none of
// decls and every field entry that matches no field of its declaration.
// Union fields are matched as "Variant.Field".
func CheckOverrides(f *File, decls []analyze.Declaration, diags *diagnostic.Diagnostics) {
	byName := make(map[string]*analyze.Declaration, len(decls))
	for i := range decls {
		byName[decls[i].Name] = &decls[i]
	}

	source := "config"
	if f.Path != "" {
		source = f.Path
	}

	for _, tc := range f.Types {
		d, ok := byName[tc.Name]
		if !ok {
			diags.AddWarning(CodeUnusedOverride,
				fmt.Sprintf("%s: type %s matches no //butcher declaration", source, tc.Name), tc.Name, "")

			continue
		}

		fields := fieldKeys(d)

		for _, name := range tc.fieldNames() {
			if _, ok := fields[name]; !ok {
				diags.AddWarning(CodeUnusedOverride,
					fmt.Sprintf("%s: %s has no field %s", source, tc.Name, name), tc.Name, tc.Name+"."+name)
			}
		}
	}
}

func fieldKeys(d *analyze.Declaration) map[string]struct{} {
	keys := make(map[string]struct{})

	for _, fd := range d.Fields {
		keys[fd.Name] = struct{}{}
	}

	for _, v := range d.Variants {
		for _, fd := range v.Fields {
			keys[v.Name+"."+fd.Name] = struct{}{}
		}
	}

	return keys
}
