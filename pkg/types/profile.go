// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the typed build profiles shared by the CLI,
// the mage targets, and the generator driver.
package types

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Builder identifies the generator output format.
type Builder string

const (
	BuilderHTML  Builder = "html"
	BuilderText  Builder = "text"
	BuilderLaTeX Builder = "latex"
)

// PostCommand is a command run in the resolved output directory after a
// successful generator invocation (e.g. make -e with PDFLATEX set).
type PostCommand struct {
	// Argv is the command and its arguments.
	Argv []string `json:"argv" yaml:"argv"`

	// Env holds extra environment variables for the command, appended to
	// the inherited environment.
	Env map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// Profile is one named documentation-build configuration. It is created
// fresh per invocation and owned by the caller; there is no process-wide
// profile registry.
type Profile struct {
	// DocRoot is the root under which the generator works (default "docs").
	DocRoot string `json:"docroot" yaml:"docroot"`

	// BuildDir is the directory under DocRoot where generated files are
	// put (default ".build").
	BuildDir string `json:"builddir" yaml:"builddir"`

	// SourceDir is the directory under DocRoot holding the source files
	// (default: DocRoot itself).
	SourceDir string `json:"sourcedir" yaml:"sourcedir"`

	// ConfDir is the location of the generator configuration file
	// (default: the resolved source directory).
	ConfDir string `json:"confdir,omitempty" yaml:"confdir,omitempty"`

	// OutDir is the location of the generated output files
	// (default: BuildDir/Builder).
	OutDir string `json:"outdir,omitempty" yaml:"outdir,omitempty"`

	// Doctrees is the location of the generator's cached environment
	// (default: BuildDir/doctrees).
	Doctrees string `json:"doctrees,omitempty" yaml:"doctrees,omitempty"`

	// Builder names the generator output format (default "html").
	Builder Builder `json:"builder" yaml:"builder"`

	// ForceAll writes all files, not just new and changed ones (-a).
	ForceAll bool `json:"force_all" yaml:"force_all"`

	// FreshEnv ignores the saved environment and reads all files (-E).
	FreshEnv bool `json:"freshenv" yaml:"freshenv"`

	// WarningsAsErrors turns generator warnings into errors (-W).
	WarningsAsErrors bool `json:"warnerror" yaml:"warnerror"`

	// Quiet suppresses generator output (-Q).
	Quiet bool `json:"quiet" yaml:"quiet"`

	// TemplateArgs are name=value pairs passed to the HTML builder (-A).
	TemplateArgs map[string]string `json:"template_args,omitempty" yaml:"template_args,omitempty"`

	// ConfigArgs are name=value configuration overrides (-D).
	ConfigArgs map[string]string `json:"config_args,omitempty" yaml:"config_args,omitempty"`

	// ExtraArgs are appended to the generator command line verbatim,
	// before the positional source and output directories.
	ExtraArgs []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Pattern is the glob for files the preprocessor expands under the
	// source directory (default "*.rst").
	Pattern string `json:"pattern" yaml:"pattern"`

	// PostBuild commands run in OutDir after a zero generator exit.
	PostBuild []PostCommand `json:"post_build,omitempty" yaml:"post_build,omitempty"`
}

// Paths holds the fully resolved directory layout for one profile.
type Paths struct {
	DocRoot   string
	SourceDir string
	BuildDir  string
	ConfDir   string
	OutDir    string
	Doctrees  string
}

// Resolve applies the profile defaults and returns the directory layout.
// It is purely computational; existence checks and directory creation are
// the driver's job.
func (p Profile) Resolve() Paths {
	docroot := p.DocRoot
	if docroot == "" {
		docroot = "docs"
	}
	builddir := p.BuildDir
	if builddir == "" {
		builddir = ".build"
	}
	builddir = filepath.Join(docroot, builddir)
	srcdir := filepath.Join(docroot, p.SourceDir)

	confdir := p.ConfDir
	if confdir == "" {
		confdir = srcdir
	}
	outdir := p.OutDir
	if outdir == "" {
		outdir = filepath.Join(builddir, string(p.BuilderOrDefault()))
	}
	doctrees := p.Doctrees
	if doctrees == "" {
		doctrees = filepath.Join(builddir, "doctrees")
	}

	return Paths{
		DocRoot:   docroot,
		SourceDir: srcdir,
		BuildDir:  builddir,
		ConfDir:   confdir,
		OutDir:    outdir,
		Doctrees:  doctrees,
	}
}

// BuilderOrDefault returns the configured builder, or BuilderHTML when unset.
func (p Profile) BuilderOrDefault() Builder {
	if p.Builder == "" {
		return BuilderHTML
	}
	return p.Builder
}

// PatternOrDefault returns the preprocessor glob, or "*.rst" when unset.
func (p Profile) PatternOrDefault() string {
	if p.Pattern == "" {
		return "*.rst"
	}
	return p.Pattern
}

// Validate checks the profile for malformed fields. Path existence is not
// checked here; the driver validates the filesystem at invocation time.
func (p Profile) Validate() error {
	for name := range p.TemplateArgs {
		if name == "" {
			return fmt.Errorf("template_args: empty name")
		}
	}
	for name := range p.ConfigArgs {
		if name == "" {
			return fmt.Errorf("config_args: empty name")
		}
	}
	for i, cmd := range p.PostBuild {
		if len(cmd.Argv) == 0 {
			return fmt.Errorf("post_build[%d]: empty argv", i)
		}
	}
	if _, err := filepath.Match(p.PatternOrDefault(), "probe"); err != nil {
		return fmt.Errorf("pattern %q: %w", p.Pattern, err)
	}
	return nil
}

// ProfileSet maps profile names to their configurations. It is owned and
// passed around explicitly by the caller.
type ProfileSet map[string]Profile

// Get returns the named profile, or an error listing the known names.
func (s ProfileSet) Get(name string) (Profile, error) {
	p, ok := s[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (known: %v)", name, s.Names())
	}
	return p, nil
}

// Names returns the profile names in sorted order.
func (s ProfileSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every profile in the set.
func (s ProfileSet) Validate() error {
	for _, name := range s.Names() {
		if err := s[name].Validate(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}
