package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"butcher-generator/internal/analyze"
	"butcher-generator/internal/common"
)

var dumpOpts options

func init() {
	dumpOpts.register(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump [path...]",
	Short: "Print the declarations read from annotated files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sources, err := collectSources(ctx, args, dumpOpts)
		if err != nil {
			return err
		}

		cfg := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}

		for _, src := range sources {
			file, err := src.pipeline.reader.ReadFile(ctx, src.path)
			if err != nil {
				return err
			}

			cfg.Fdump(cmd.OutOrStdout(), dumpFile(file))
		}

		return nil
	},
}

// Printable forms of the analyzed model. Expressions are rendered as source
// text instead of syntax trees.
type (
	fileDump struct {
		Path     string
		Package  string
		Template bool
		Decls    []declDump
	}

	declDump struct {
		Name     string
		Kind     string
		Params   []string
		Fields   []fieldDump
		Variants []variantDump
	}

	variantDump struct {
		Name   string
		Fields []fieldDump
	}

	fieldDump struct {
		Name     string
		Type     string
		Strategy string
		Target   string
		Bounds   []string
	}
)

func dumpFile(f *analyze.File) fileDump {
	out := fileDump{Path: f.Path, Package: f.Package, Template: f.Template}

	for _, d := range f.Decls {
		dd := declDump{Name: d.Name, Kind: d.Kind.String()}

		for _, p := range d.Params {
			param := p.Name + " " + p.Kind.String()
			if p.Constraint != nil {
				param += " " + common.ExprString(p.Constraint)
			}

			dd.Params = append(dd.Params, param)
		}

		dd.Fields = dumpFields(d.Fields)

		for _, v := range d.Variants {
			dd.Variants = append(dd.Variants, variantDump{Name: v.Name, Fields: dumpFields(v.Fields)})
		}

		out.Decls = append(out.Decls, dd)
	}

	return out
}

func dumpFields(fields []analyze.Field) []fieldDump {
	out := make([]fieldDump, 0, len(fields))

	for _, f := range fields {
		fd := fieldDump{
			Name:     f.Name,
			Type:     common.ExprString(f.Type),
			Strategy: f.Strategy.Tag.String(),
		}

		if f.Strategy.Target != nil {
			fd.Target = common.ExprString(f.Strategy.Target)
		}

		for _, b := range f.Strategy.Bounds {
			fd.Bounds = append(fd.Bounds, b.Raw)
		}

		out = append(out, fd)
	}

	return out
}
