// Package config resolves the include-path/stdlib settings cmd/sccc's
// flags feed into the driver, optionally seeded from a project file
// (spec.md §6's "-I"/"--no-stdlib" flags persisted across invocations).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the project config file cmd/sccc looks for in the current
// directory.
const FileName = ".sccrc.yaml"

// Config is the resolved include-path/optimize settings a compilation
// uses, merged from (in increasing priority) built-in defaults, an
// optional project file, and CLI flags.
type Config struct {
	// IncludePaths lists additional module search directories, appended
	// after any CLI-supplied -I paths (spec.md §6).
	IncludePaths []string `yaml:"include_paths"`

	// NoStdlib suppresses the built-in standard-library search path.
	// Merge ORs it with the CLI's --no-stdlib, so either one can turn the
	// stdlib path off and neither can turn it back on.
	NoStdlib bool `yaml:"no_stdlib"`

	// DefaultOptimize lists the -a analysis names to run automatically
	// when -O is given without explicit -a flags.
	DefaultOptimize []string `yaml:"default_optimize"`
}

// Default returns the zero-value configuration: no extra include paths,
// stdlib enabled, no default analyses.
func Default() *Config {
	return &Config{}
}

// Load reads and parses a project config file at path. A missing file is
// not an error; Load returns Default() in that case so callers never need
// to special-case "no project file" separately from "empty project file".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge layers CLI-supplied include paths and no-stdlib override on top of
// the file-resolved config, returning the final settings the driver uses.
// cliIncludes is placed before c.IncludePaths (CLI paths take priority
// during module search, since they're searched first); cliNoStdlib, when
// true, forces stdlib off regardless of the project file.
func (c *Config) Merge(cliIncludes []string, cliNoStdlib bool) *Config {
	merged := &Config{
		IncludePaths:    append(append([]string{}, cliIncludes...), c.IncludePaths...),
		NoStdlib:        c.NoStdlib || cliNoStdlib,
		DefaultOptimize: c.DefaultOptimize,
	}
	return merged
}
