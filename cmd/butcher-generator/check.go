package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkOpts options

func init() {
	checkOpts.register(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Validate annotations without writing files",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sources, err := collectSources(ctx, args, checkOpts)
		if err != nil {
			return err
		}

		plans, diags := resolveAll(ctx, sources)
		if n := printDiagnostics(cmd.ErrOrStderr(), diags, true); n > 0 {
			return fmt.Errorf("%d error(s) in %d file(s)", n, len(sources))
		}

		decls := 0
		for _, r := range plans {
			decls += len(r.plan.Decls)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %d declaration(s) in %d file(s)\n",
			okColor.Sprint("ok:"), decls, len(sources))

		return nil
	},
}
