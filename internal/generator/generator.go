// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generator assembles the documentation generator's command line
// from a build profile and invokes it as a subprocess. The flow is linear:
// decide (staleness), preprocess (marker expansion), invoke. A failed
// invocation is reported once, never retried.
package generator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/pdiddy/docforge/internal/expand"
	"github.com/pdiddy/docforge/internal/stale"
	"github.com/pdiddy/docforge/pkg/types"
)

// DefaultBinary is the generator binary resolved on PATH when the caller
// does not name one.
const DefaultBinary = "sphinx-build"

// executor abstracts subprocess execution for testing.
type executor interface {
	LookPath(file string) (string, error)

	// Run executes name with args in dir, appending env ("K=V" pairs) to
	// the inherited environment. It returns the process exit status, or
	// an error when the process could not be started.
	Run(dir string, env []string, stdout, stderr io.Writer, name string, args ...string) (int, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(dir string, env []string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	err := cmd.Run()
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

var defaultExec executor = osExecutor{}

// Options controls one driver run.
type Options struct {
	// Force invokes the generator even when the output tree is fresh.
	Force bool

	// Rules are the preprocessor substitution rules. A nil map skips the
	// expansion pass entirely.
	Rules expand.Rules
}

// Result reports the outcome of one driver run.
type Result struct {
	// Skipped is true when the output was fresh and the generator was
	// not invoked.
	Skipped bool

	// ExitCode is the generator's exit status; zero when skipped.
	ExitCode int

	// Expanded is the number of source files the preprocessor rewrote.
	Expanded int

	Duration time.Duration
}

// Runner drives the external documentation generator for one profile at a
// time. It holds no per-invocation state.
type Runner struct {
	// Binary is the generator executable; DefaultBinary when empty.
	Binary string

	// Out receives progress lines and the generator's own output.
	Out io.Writer

	// Err receives the generator's stderr.
	Err io.Writer

	exec executor
}

// NewRunner returns a Runner writing progress and generator output to out
// and generator stderr to errw.
func NewRunner(binary string, out, errw io.Writer) *Runner {
	return &Runner{Binary: binary, Out: out, Err: errw, exec: defaultExec}
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return DefaultBinary
	}
	return r.Binary
}

// Run executes the decide → preprocess → invoke sequence for profile.
// It returns a non-nil error for filesystem failures, configuration
// errors, and nonzero generator exits.
func (r *Runner) Run(profile types.Profile, opts Options) (Result, error) {
	start := time.Now()
	var res Result

	if err := profile.Validate(); err != nil {
		return res, err
	}
	paths := profile.Resolve()

	if _, err := os.Stat(paths.DocRoot); err != nil {
		return res, fmt.Errorf("documentation root %s: %w", paths.DocRoot, err)
	}
	if _, err := os.Stat(paths.SourceDir); err != nil {
		return res, fmt.Errorf("source directory %s: %w", paths.SourceDir, err)
	}

	if opts.Rules != nil {
		n, err := expand.Glob(paths.SourceDir, profile.PatternOrDefault(), opts.Rules, r.Out)
		res.Expanded = n
		if err != nil {
			return res, err
		}
	}

	if !opts.Force {
		rebuild, err := stale.NeedsRebuild(paths.SourceDir, paths.OutDir)
		if err != nil {
			return res, err
		}
		if !rebuild {
			res.Skipped = true
			res.Duration = time.Since(start)
			fmt.Fprintf(r.Out, "up to date: %s\n", paths.OutDir)
			return res, nil
		}
	}

	for _, dir := range []string{paths.BuildDir, paths.OutDir, paths.Doctrees} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	bin, err := r.exec.LookPath(r.binary())
	if err != nil {
		return res, fmt.Errorf("generator %s not found: %w", r.binary(), err)
	}

	args := BuildArgs(profile, paths)
	fmt.Fprintf(r.Out, "running: %s %v\n", bin, args)

	code, err := r.exec.Run("", nil, r.Out, r.Err, bin, args...)
	if err != nil {
		return res, fmt.Errorf("invoking %s: %w", bin, err)
	}
	res.ExitCode = code
	res.Duration = time.Since(start)
	if code != 0 {
		return res, fmt.Errorf("%s exited with status %d", r.binary(), code)
	}

	if err := r.runPostBuild(profile, paths); err != nil {
		return res, err
	}
	return res, nil
}

// runPostBuild executes the profile's post-build commands in the output
// directory, stopping at the first failure.
func (r *Runner) runPostBuild(profile types.Profile, paths types.Paths) error {
	for _, cmd := range profile.PostBuild {
		env := make([]string, 0, len(cmd.Env))
		for _, k := range sortedKeys(cmd.Env) {
			env = append(env, k+"="+cmd.Env[k])
		}
		fmt.Fprintf(r.Out, "post-build: %v (in %s)\n", cmd.Argv, paths.OutDir)
		code, err := r.exec.Run(paths.OutDir, env, r.Out, r.Err, cmd.Argv[0], cmd.Argv[1:]...)
		if err != nil {
			return fmt.Errorf("post-build %v: %w", cmd.Argv, err)
		}
		if code != 0 {
			return fmt.Errorf("post-build %v exited with status %d", cmd.Argv, code)
		}
	}
	return nil
}

// BuildArgs assembles the generator argument list for profile. The order
// follows the generator's convention: builder, doctrees, configuration
// directory, behavior flags, template and configuration overrides, extra
// arguments, then the positional source and output directories.
func BuildArgs(profile types.Profile, paths types.Paths) []string {
	args := []string{
		"-b", string(profile.BuilderOrDefault()),
		"-d", paths.Doctrees,
		"-c", paths.ConfDir,
	}
	if profile.ForceAll {
		args = append(args, "-a")
	}
	if profile.FreshEnv {
		args = append(args, "-E")
	}
	if profile.WarningsAsErrors {
		args = append(args, "-W")
	}
	if profile.Quiet {
		args = append(args, "-Q")
	}
	for _, name := range sortedKeys(profile.TemplateArgs) {
		args = append(args, fmt.Sprintf("-A%s=%s", name, profile.TemplateArgs[name]))
	}
	for _, name := range sortedKeys(profile.ConfigArgs) {
		args = append(args, fmt.Sprintf("-D%s=%s", name, profile.ConfigArgs[name]))
	}
	args = append(args, profile.ExtraArgs...)
	args = append(args, paths.SourceDir, paths.OutDir)
	return args
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
