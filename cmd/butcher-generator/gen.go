package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"butcher-generator/internal/ctxlog"
	"butcher-generator/internal/gen"
)

var (
	genOpts   options
	genDryRun bool
)

func init() {
	genOpts.register(genCmd)
	genCmd.Flags().BoolVar(&genDryRun, "dry-run", false, "print generated code instead of writing files")
}

var genCmd = &cobra.Command{
	Use:   "gen [path...]",
	Short: "Generate views and codecs for annotated declarations",
	Long: `gen reads the given files, or the annotated files of the given directories,
and writes <stem>_butcher.go next to each of them. Without paths it processes
$GOFILE, as set by go generate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := ctxlog.FromContext(ctx)

		sources, err := collectSources(ctx, args, genOpts)
		if err != nil {
			return err
		}

		plans, diags := resolveAll(ctx, sources)
		if n := printDiagnostics(cmd.ErrOrStderr(), diags, false); n > 0 {
			return fmt.Errorf("%d error(s), nothing generated", n)
		}

		files := make([]gen.GeneratedFile, 0, len(plans))

		for _, r := range plans {
			if len(r.plan.Decls) == 0 {
				continue
			}

			file, err := r.pipeline.generator.Generate(ctx, r.plan)
			if err != nil {
				return err
			}

			files = append(files, *file)
		}

		if genDryRun {
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "%s\n%s\n", pathColor.Sprint("// "+f.Path()), f.Content)
			}

			return nil
		}

		if err := gen.WriteFiles(ctx, files); err != nil {
			return err
		}

		log.Debug("generation finished", "files", len(files))

		return nil
	},
}
