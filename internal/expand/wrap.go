// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expand

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// LineBreakMode selects how over-long output lines are brought under the
// configured width.
type LineBreakMode string

const (
	// BreakHard chops the line at the width and continues on the next line.
	BreakHard LineBreakMode = "break"
	// BreakWrap wraps at word boundaries, chopping words longer than the width.
	BreakWrap LineBreakMode = "wrap"
	// BreakWrapNoBreaks wraps at word boundaries, never splitting a word.
	BreakWrapNoBreaks LineBreakMode = "wrap-no-breaks"
	// BreakFill wraps at word boundaries and repeats the original leading
	// whitespace on continuation lines.
	BreakFill LineBreakMode = "fill"
	// BreakContinue chops the line at the width and marks each continued
	// line with a trailing backslash.
	BreakContinue LineBreakMode = "continue"
	// BreakTruncate chops the line at the width and discards the remainder.
	BreakTruncate LineBreakMode = "truncate"
)

// Valid reports whether m names a known line break mode.
func (m LineBreakMode) Valid() bool {
	switch m {
	case BreakHard, BreakWrap, BreakWrapNoBreaks, BreakFill, BreakContinue, BreakTruncate:
		return true
	}
	return false
}

// adjustLineWidths applies the break mode to every line longer than width.
// Blank lines and lines within the width pass through untouched.
func adjustLineWidths(lines []string, width int, mode LineBreakMode) ([]string, error) {
	var out []string
	for _, l := range lines {
		if strings.TrimSpace(l) == "" || len(l) <= width {
			out = append(out, l)
			continue
		}

		switch mode {
		case BreakHard:
			out = append(out, chop(l, width, "")...)

		case BreakWrap:
			for _, w := range strings.Split(wordwrap.WrapString(l, uint(width)), "\n") {
				out = append(out, chop(w, width, "")...)
			}

		case BreakWrapNoBreaks:
			out = append(out, strings.Split(wordwrap.WrapString(l, uint(width)), "\n")...)

		case BreakFill:
			prefix := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
			wrapped := strings.Split(wordwrap.WrapString(l, uint(width)), "\n")
			for i, w := range wrapped {
				if i > 0 {
					w = prefix + w
				}
				out = append(out, w)
			}

		case BreakContinue:
			out = append(out, chop(l, width, `\`)...)

		case BreakTruncate:
			out = append(out, l[:width])

		default:
			return nil, fmt.Errorf("unrecognized line break mode %q", mode)
		}
	}
	return out, nil
}

// chop splits l into width-sized pieces. cont, when non-empty, is appended
// to every piece except the last.
func chop(l string, width int, cont string) []string {
	var parts []string
	for len(l) > width {
		parts = append(parts, l[:width]+cont)
		l = l[width:]
	}
	parts = append(parts, l)
	return parts
}
