package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"butcher-generator/internal/analyze"
	"butcher-generator/internal/config"
	"butcher-generator/internal/ctxlog"
	"butcher-generator/internal/diagnostic"
	"butcher-generator/internal/gen"
	"butcher-generator/internal/plan"
)

// errNoInput is returned when no path is given outside go generate.
var errNoInput = errors.New("no input files: pass paths or run via go generate")

// options are the flags shared by the commands that read sources.
type options struct {
	configPath string
	prefix     string
	output     string
	buildTag   string
}

func (o *options) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.configPath, "config", "", "configuration file (default: butcher.yaml|yml|toml next to the input)")
	flags.StringVar(&o.prefix, "prefix", "", "view type prefix (default "+plan.DefaultPrefix+")")
	flags.StringVar(&o.output, "output", "", "generated file name (default <stem>_butcher.go)")
	flags.StringVar(&o.buildTag, "tag", "", "build tag of template files (default "+analyze.DefaultBuildTag+")")
}

// pipeline holds the configured stages for one source directory.
type pipeline struct {
	dir       string
	cfg       *config.File
	reader    *analyze.Reader
	resolver  *plan.Resolver
	generator *gen.Generator
}

// newPipeline loads the configuration for dir, applies flag overrides and
// validates the result.
func newPipeline(opts options, dir string, loader *analyze.Loader) (*pipeline, error) {
	cfg, err := config.Load(opts.configPath, dir)
	if err != nil {
		return nil, err
	}

	if opts.prefix != "" {
		cfg.Prefix = opts.prefix
	}

	if opts.output != "" {
		cfg.Output = opts.output
	}

	if opts.buildTag != "" {
		cfg.BuildTag = opts.buildTag
	}

	if err := config.Validate(cfg).Err(); err != nil {
		if cfg.Path != "" {
			return nil, fmt.Errorf("config %s: %w", cfg.Path, err)
		}

		return nil, err
	}

	return &pipeline{
		dir: dir,
		cfg: cfg,
		reader: analyze.NewReader(
			analyze.WithBuildTag(cfg.BuildTag),
			analyze.WithOverrides(cfg.Overrides()),
		),
		resolver: plan.NewResolver(
			plan.WithPrefix(cfg.Prefix),
			plan.WithDerefResolver(loader),
		),
		generator: gen.NewGenerator(gen.GeneratorConfig{
			BuildTag:         cfg.BuildTag,
			Output:           cfg.Output,
			DebugUnformatted: os.Getenv("BUTCHER_DEBUG_UNFORMATTED") != "",
		}),
	}, nil
}

// resolve reads and resolves one source file. The plan is returned with
// its diagnostics even when resolution fails.
func (p *pipeline) resolve(ctx context.Context, path string) (*plan.Plan, error) {
	file, err := p.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return p.resolver.Resolve(ctx, file)
}

// checkOverrides warns about config entries matching no declaration of any
// annotated file in the directory. Directories with unreadable files are
// skipped since their errors are reported already.
func (p *pipeline) checkOverrides(ctx context.Context, diags *diagnostic.Diagnostics) {
	if len(p.cfg.Types) == 0 {
		return
	}

	paths, err := analyze.FindSources(p.dir)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("override check skipped", "dir", p.dir, "err", err)
		return
	}

	var decls []analyze.Declaration

	for _, path := range paths {
		file, err := p.reader.ReadFile(ctx, path)
		if err != nil {
			ctxlog.FromContext(ctx).Debug("override check skipped", "dir", p.dir, "err", err)
			return
		}

		decls = append(decls, file.Decls...)
	}

	config.CheckOverrides(p.cfg, decls, diags)
}

// source is an input file with the pipeline configured for its directory.
type source struct {
	path     string
	pipeline *pipeline
}

// collectSources expands args into source files, falling back to $GOFILE,
// and builds one pipeline per directory.
func collectSources(ctx context.Context, args []string, opts options) ([]source, error) {
	if len(args) == 0 {
		gofile := os.Getenv("GOFILE")
		if gofile == "" {
			return nil, errNoInput
		}

		args = []string{gofile}
	}

	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := analyze.FindSources(arg)
		if err != nil {
			return nil, err
		}

		if len(found) == 0 {
			ctxlog.FromContext(ctx).Warn("no annotated files", "dir", arg)
		}

		paths = append(paths, found...)
	}

	loader := analyze.NewLoader()
	pipelines := make(map[string]*pipeline)
	perDir := make(map[string]int)

	sources := make([]source, 0, len(paths))

	for _, path := range paths {
		dir := filepath.Dir(path)

		p, ok := pipelines[dir]
		if !ok {
			var err error
			if p, err = newPipeline(opts, dir, loader); err != nil {
				return nil, err
			}

			pipelines[dir] = p
		}

		perDir[dir]++
		if p.cfg.Output != "" && perDir[dir] > 1 {
			return nil, fmt.Errorf("output %q is set but %s has several annotated files", p.cfg.Output, dir)
		}

		sources = append(sources, source{path: path, pipeline: p})
	}

	return sources, nil
}

// resolved is a plan ready for generation.
type resolved struct {
	plan     *plan.Plan
	pipeline *pipeline
}

// resolveAll resolves every source, collecting diagnostics of all files.
func resolveAll(ctx context.Context, sources []source) ([]resolved, *diagnostic.Diagnostics) {
	var (
		plans []resolved
		all   diagnostic.Diagnostics
	)

	checked := make(map[*pipeline]bool)

	for _, src := range sources {
		if !checked[src.pipeline] {
			checked[src.pipeline] = true
			src.pipeline.checkOverrides(ctx, &all)
		}

		p, err := src.pipeline.resolve(ctx, src.path)

		switch {
		case p != nil:
			all.Merge(p.Diagnostics)
		case err != nil:
			addErrors(&all, err)
		}

		if err == nil {
			plans = append(plans, resolved{plan: p, pipeline: src.pipeline})
		}
	}

	return plans, &all
}

// addErrors records err, splitting joined errors into one diagnostic each.
func addErrors(d *diagnostic.Diagnostics, err error) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			addErrors(d, e)
		}

		return
	}

	d.AddError(err)
}
