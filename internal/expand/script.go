// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expand

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// scriptRunner abstracts script execution for testing.
type scriptRunner interface {
	// CombinedOutput runs argv in dir and returns its combined
	// stdout and stderr.
	CombinedOutput(dir string, argv []string) (string, error)
}

// osScriptRunner is the production runner backed by os/exec.
type osScriptRunner struct{}

func (osScriptRunner) CombinedOutput(dir string, argv []string) (string, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// ScriptRule runs a script in the directory of the file being expanded and
// renders its captured output as a reST literal block: the command line
// first, a blank line, then the output, all tab-indented.
type ScriptRule struct {
	// Interpreter is prepended to the script command line. Empty means
	// the first marker argument is itself the command.
	Interpreter string

	// IncludePrefix controls whether the ".. code-block:: none" header
	// precedes the block.
	IncludePrefix bool

	// TrailingNewlines pads the block until it ends in a blank line.
	// When false the output is trimmed to a single trailing newline.
	TrailingNewlines bool

	// IgnoreErrors keeps the captured output even when the script exits
	// nonzero.
	IgnoreErrors bool

	// BreakLinesAt is the width at which output lines are broken; zero
	// disables line breaking.
	BreakLinesAt int

	// Mode selects how over-long lines are broken.
	Mode LineBreakMode

	run scriptRunner
}

// NewScriptRule returns a ScriptRule with the conventional defaults:
// python3 interpreter, literal-block prefix, padded trailing newlines.
func NewScriptRule() *ScriptRule {
	return &ScriptRule{
		Interpreter:      "python3",
		IncludePrefix:    true,
		TrailingNewlines: true,
		Mode:             BreakHard,
		run:              osScriptRunner{},
	}
}

// Expand runs the script named by the first marker argument, passing any
// further arguments through, and returns the formatted literal block.
func (r *ScriptRule) Expand(file string, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing script name")
	}

	runner := r.run
	if runner == nil {
		runner = osScriptRunner{}
	}

	var argv []string
	if r.Interpreter != "" {
		argv = append([]string{r.Interpreter}, args...)
	} else {
		argv = args
	}
	cmdline := strings.Join(argv, " ")

	output, err := runner.CombinedOutput(filepath.Dir(file), argv)
	if err != nil && !r.IgnoreErrors {
		return "", fmt.Errorf("running %q: %w", cmdline, err)
	}

	width := 64
	if r.BreakLinesAt > 0 {
		width = r.BreakLinesAt - 1
	}
	lines, err := adjustLineWidths([]string{"\t$ " + cmdline}, width, BreakContinue)
	if err != nil {
		return "", err
	}
	lines = append(lines, "")
	if output != "" {
		lines = append(lines, strings.Split(strings.TrimSuffix(output, "\n"), "\n")...)
	}

	if r.BreakLinesAt > 0 {
		lines, err = adjustLineWidths(lines, r.BreakLinesAt, r.Mode)
		if err != nil {
			return "", err
		}
	}

	var response string
	if r.IncludePrefix {
		response = "\n.. code-block:: none\n\n"
	}
	response += strings.Join(lines, "\n\t")

	if r.TrailingNewlines {
		for !strings.HasSuffix(response, "\n\n") {
			response += "\n"
		}
	} else {
		response = strings.TrimRight(response, " \t\n") + "\n"
	}
	return response, nil
}
