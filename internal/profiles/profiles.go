// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profiles loads named build profiles and literal substitution
// rules from a YAML file. The loaded set is returned to the caller;
// nothing is registered globally.
package profiles

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docforge/internal/expand"
	"github.com/pdiddy/docforge/pkg/types"
)

// Config is the parsed content of a profiles file.
type Config struct {
	// Profiles maps profile names to build configurations.
	Profiles types.ProfileSet `yaml:"profiles"`

	// Rules maps substitution rule names to literal replacement text for
	// the preprocessor.
	Rules map[string]string `yaml:"rules,omitempty"`

	// Script configures the built-in run-script substitution rule.
	Script *ScriptConfig `yaml:"script,omitempty"`
}

// ScriptConfig holds the run-script rule options. The pointer fields
// distinguish "unset" from an explicit false, since include_prefix and
// trailing_newlines default to true.
type ScriptConfig struct {
	// Interpreter is prepended to the script command line; an explicit
	// empty string runs the first marker argument as the command itself.
	Interpreter *string `yaml:"interpreter,omitempty"`

	// IncludePrefix controls the ".. code-block:: none" header.
	IncludePrefix *bool `yaml:"include_prefix,omitempty"`

	// TrailingNewlines pads the block until it ends in a blank line.
	TrailingNewlines *bool `yaml:"trailing_newlines,omitempty"`

	// IgnoreErrors keeps the captured output when the script exits nonzero.
	IgnoreErrors bool `yaml:"ignore_errors,omitempty"`

	// BreakLinesAt is the width at which output lines are broken; zero
	// disables line breaking.
	BreakLinesAt int `yaml:"break_lines_at,omitempty"`

	// LineBreakMode selects how over-long lines are broken: break, wrap,
	// wrap-no-breaks, fill, continue, or truncate.
	LineBreakMode string `yaml:"line_break_mode,omitempty"`
}

// validate checks the script options for malformed values.
func (c *ScriptConfig) validate() error {
	if c.BreakLinesAt < 0 {
		return fmt.Errorf("script: break_lines_at must not be negative")
	}
	if c.LineBreakMode != "" && !expand.LineBreakMode(c.LineBreakMode).Valid() {
		return fmt.Errorf("script: unrecognized line break mode %q", c.LineBreakMode)
	}
	return nil
}

// Load reads the profiles file at path and validates every profile.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing profiles file %s: %w", path, err)
	}
	if len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file %s defines no profiles", path)
	}
	if err := cfg.Profiles.Validate(); err != nil {
		return nil, fmt.Errorf("profiles file %s: %w", path, err)
	}
	if cfg.Script != nil {
		if err := cfg.Script.validate(); err != nil {
			return nil, fmt.Errorf("profiles file %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// Default returns the built-in configuration used when no profiles file
// exists: an html profile and a text profile over docs/.
func Default() *Config {
	return &Config{
		Profiles: types.ProfileSet{
			"html": {Builder: types.BuilderHTML},
			"text": {Builder: types.BuilderText},
		},
	}
}
