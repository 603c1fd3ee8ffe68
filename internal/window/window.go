// Package window provides bounded line-window access to a source unit.
// Idiom rules use it to inspect the few lines around a finding without ever
// touching unrelated parts of the file.
package window

import "strings"

// Lines is an immutable 1-indexed view over the lines of a source unit.
// The zero value behaves like an empty file.
type Lines struct {
	lines []string
}

// Split builds a Lines view. The split happens once per suppression pass;
// every rule shares the same view.
func Split(code string) Lines {
	if code == "" {
		return Lines{}
	}
	return Lines{lines: strings.Split(code, "\n")}
}

// Len returns the number of lines.
func (l Lines) Len() int { return len(l.lines) }

// Line returns line n (1-indexed), or "" when n is out of range.
func (l Lines) Line(n int) string {
	if n < 1 || n > len(l.lines) {
		return ""
	}
	return l.lines[n-1]
}

// Prev returns up to k lines immediately before line n, in file order.
// Fewer lines are returned near the start of the file; out-of-range n
// yields nil rather than an error.
func (l Lines) Prev(n, k int) []string {
	if n <= 1 || k <= 0 || len(l.lines) == 0 {
		return nil
	}
	end := n - 1
	if end > len(l.lines) {
		end = len(l.lines)
	}
	start := end - k
	if start < 0 {
		start = 0
	}
	return l.lines[start:end]
}

// Next returns up to k lines immediately after line n, in file order.
func (l Lines) Next(n, k int) []string {
	if k <= 0 || n >= len(l.lines) || len(l.lines) == 0 {
		return nil
	}
	start := n
	if start < 0 {
		start = 0
	}
	end := start + k
	if end > len(l.lines) {
		end = len(l.lines)
	}
	return l.lines[start:end]
}

// All returns every line in file order. Used by rules that look for a
// pattern anywhere in the unit (e.g. an RNG source).
func (l Lines) All() []string { return l.lines }
