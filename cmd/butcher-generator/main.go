// Package main provides the CLI entrypoint for butcher-generator.
//
// butcher-generator reads Go files carrying //butcher:derive declarations and
// writes, next to each of them, the copy-on-write view types and codecs that
// decompose values of those declarations field by field.
//
// Typical use is a go:generate line in the package holding the declarations:
//
//	//go:generate go run butcher-generator/cmd/butcher-generator gen
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "butcher-generator",
	Short: "Generate copy-on-write views and codecs for Go types",
	Long: `butcher-generator turns annotated struct declarations into view types whose
fields borrow from, or own, the fields of the source value.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupOutput,
}

func init() {
	rootCmd.Version = buildVersion()

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("log-format", "text", "log format (text|json)")
	pf.Bool("no-color", false, "disable colored output")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
