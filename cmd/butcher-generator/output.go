package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"butcher-generator/internal/ctxlog"
	"butcher-generator/internal/diagnostic"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	pathColor    = color.New(color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// setupOutput installs the logger and decides on colors from the persistent flags.
func setupOutput(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return err
	}

	if noColor || os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr) {
		color.NoColor = true
	}

	levelName, err := flags.GetString("log-level")
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}

	format, err := flags.GetString("log-format")
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), format, level)
	if err != nil {
		return err
	}

	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))

	return nil
}

func newLogger(w io.Writer, format string, level slog.Level) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q (want text or json)", format)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// printError prints err, one line per joined error.
func printError(w io.Writer, err error) {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, e := range joined.Unwrap() {
			printError(w, e)
		}

		return
	}

	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
}

// printDiagnostics prints warnings and errors, preceded by infos when asked,
// and returns the number of errors.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics, infos bool) int {
	if infos {
		for _, d := range diags.Infos {
			fmt.Fprintf(w, "%s %s\n", infoColor.Sprint("info:"), d.Message)
		}
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(w, "%s %s [%s]\n", warningColor.Sprint("warning:"), d.Message, d.Code)
	}

	for _, d := range diags.Errors {
		fmt.Fprintf(w, "%s %s [%s]\n", errorColor.Sprint("error:"), d.Message, d.Code)
	}

	return len(diags.Errors)
}
