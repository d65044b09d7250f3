package config

import (
	"sort"
	"strings"

	"butcher-generator/internal/analyze"
	"butcher-generator/internal/plan"
)

// File is the root of a configuration file.
type File struct {
	// Version of the configuration schema.
	Version string `yaml:"version,omitempty" toml:"version,omitempty"`

	// Prefix is prepended to declaration names to name view types.
	Prefix string `yaml:"prefix,omitempty" toml:"prefix,omitempty"`

	// Output overrides the generated file name.
	Output string `yaml:"output,omitempty" toml:"output,omitempty"`

	// BuildTag marks template files.
	BuildTag string `yaml:"build_tag,omitempty" toml:"build_tag,omitempty"`

	// Types holds per-field strategy overrides.
	Types []TypeConfig `yaml:"types,omitempty" toml:"types,omitempty"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-" toml:"-"`
}

// TypeConfig overrides field strategies of one declaration.
type TypeConfig struct {
	Name   string                 `yaml:"name" toml:"name"`
	Fields map[string]FieldConfig `yaml:"fields,omitempty" toml:"fields,omitempty"`
}

// FieldConfig is the structured form of a butcher tag.
type FieldConfig struct {
	// Strategy is one of regular, copy, flatten, unbox or rebutcher.
	Strategy string `yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	// Target is the flatten target type.
	Target string `yaml:"target,omitempty" toml:"target,omitempty"`
	// Bounds are "Param: Capability" clauses.
	Bounds []string `yaml:"bounds,omitempty" toml:"bounds,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *File {
	f := &File{}
	applyDefaults(f)

	return f
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Prefix == "" {
		f.Prefix = plan.DefaultPrefix
	}

	if f.BuildTag == "" {
		f.BuildTag = analyze.DefaultBuildTag
	}
}

// Annotation renders fc in tag syntax.
func (fc FieldConfig) Annotation() string {
	items := make([]string, 0, 2+len(fc.Bounds))

	if fc.Strategy != "" {
		items = append(items, strings.TrimSpace(fc.Strategy))
	}

	if fc.Target != "" {
		items = append(items, "target="+strings.TrimSpace(fc.Target))
	}

	for _, b := range fc.Bounds {
		items = append(items, "bound="+strings.TrimSpace(b))
	}

	return strings.Join(items, ",")
}

// Overrides converts the type entries into reader overrides.
func (f *File) Overrides() analyze.Overrides {
	if len(f.Types) == 0 {
		return nil
	}

	out := make(analyze.Overrides, len(f.Types))

	for _, tc := range f.Types {
		fields := out[tc.Name]
		if fields == nil {
			fields = make(map[string]string, len(tc.Fields))
			out[tc.Name] = fields
		}

		for name, fc := range tc.Fields {
			fields[name] = fc.Annotation()
		}
	}

	return out
}

// fieldNames returns the field keys of tc in a stable order.
func (tc TypeConfig) fieldNames() []string {
	names := make([]string, 0, len(tc.Fields))
	for name := range tc.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
