// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand rewrites marker regions embedded in documentation source
// files. A region starts at a line containing "[[[gen <rule> [args]]]]" and
// ends at the next line containing "[[[end]]]"; the payload between the two
// delimiter lines is replaced by the named rule's output. Both delimiter
// lines are preserved, so expansion is idempotent.
package expand

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	beginMarker = "[[[gen"
	endSpec     = "]]]"
	endMarker   = "[[[end]]]"
)

// Rule produces the replacement payload for one marker region. file is the
// path of the file being expanded; args are the whitespace-separated tokens
// following the rule name in the begin marker.
type Rule interface {
	Expand(file string, args []string) (string, error)
}

// RuleFunc adapts a plain function to the Rule interface.
type RuleFunc func(file string, args []string) (string, error)

func (f RuleFunc) Expand(file string, args []string) (string, error) {
	return f(file, args)
}

// Literal returns a rule whose output is always text, regardless of
// marker arguments.
func Literal(text string) Rule {
	return RuleFunc(func(string, []string) (string, error) {
		return text, nil
	})
}

// Rules maps rule names to their implementations. The set is owned and
// passed explicitly by the caller; there is no ambient registry.
type Rules map[string]Rule

// ConfigError reports a malformed or unresolvable marker. It identifies
// the file and, when known, the rule name.
type ConfigError struct {
	File string
	Rule string
	Msg  string
}

func (e *ConfigError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s: rule %q: %s", e.File, e.Rule, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// File expands every marker region in the file at path, rewriting it in
// place only when the content changed. The whole file is expanded in
// memory first, so a failing rule never leaves a partially written file.
// It reports whether the file was rewritten.
func File(path string, rules Rules, w io.Writer) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	expanded, err := Text(string(data), path, rules)
	if err != nil {
		return false, err
	}
	if expanded == string(data) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(expanded), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(w, "expanded: %s\n", path)
	return true, nil
}

// Text expands marker regions in content and returns the result. file is
// used for error reporting and is handed to each rule.
func Text(content, file string, rules Rules) (string, error) {
	lines := splitKeepEnds(content)
	var out strings.Builder

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		out.WriteString(line)

		name, args, ok, err := parseBegin(line, file)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}

		rule, known := rules[name]
		if !known {
			return "", &ConfigError{File: file, Rule: name, Msg: "unknown rule"}
		}

		// Skip the stale payload up to the end marker.
		end := -1
		for j := i + 1; j < len(lines); j++ {
			if strings.Contains(lines[j], endMarker) {
				end = j
				break
			}
		}
		if end < 0 {
			return "", &ConfigError{File: file, Rule: name, Msg: "marker region not terminated"}
		}

		payload, err := rule.Expand(file, args)
		if err != nil {
			return "", fmt.Errorf("%s: rule %q: %w", file, name, err)
		}
		if payload != "" && !strings.HasSuffix(payload, "\n") {
			payload += "\n"
		}
		out.WriteString(payload)
		out.WriteString(lines[end])
		i = end
	}

	return out.String(), nil
}

// parseBegin recognizes a begin-marker line and extracts the rule name and
// arguments. Lines without a begin marker report ok=false.
func parseBegin(line, file string) (name string, args []string, ok bool, err error) {
	start := strings.Index(line, beginMarker)
	if start < 0 {
		return "", nil, false, nil
	}
	rest := line[start+len(beginMarker):]
	end := strings.Index(rest, endSpec)
	if end < 0 {
		return "", nil, false, &ConfigError{File: file, Msg: "begin marker missing closing " + endSpec}
	}
	fields := strings.Fields(rest[:end])
	if len(fields) == 0 {
		return "", nil, false, &ConfigError{File: file, Msg: "begin marker names no rule"}
	}
	return fields[0], fields[1:], true, nil
}

// splitKeepEnds splits content into lines, each retaining its trailing
// newline (except possibly the last).
func splitKeepEnds(content string) []string {
	var lines []string
	for len(content) > 0 {
		i := strings.IndexByte(content, '\n')
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i+1])
		content = content[i+1:]
	}
	return lines
}

// Glob walks baseDir and expands every file whose name matches pattern.
// It returns the number of files rewritten.
func Glob(baseDir, pattern string, rules Rules, w io.Writer) (int, error) {
	var files []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		match, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if match {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", baseDir, err)
	}

	return Files(files, rules, w)
}

// Files expands each file in sequence, stopping at the first failure.
// It returns the number of files rewritten.
func Files(files []string, rules Rules, w io.Writer) (int, error) {
	changed := 0
	for _, f := range files {
		rewritten, err := File(f, rules, w)
		if err != nil {
			return changed, err
		}
		if rewritten {
			changed++
		}
	}
	return changed, nil
}
