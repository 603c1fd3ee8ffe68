// Package gate implements the hard preconditions of the suppression policy:
// a denylist of functions whose findings may never be auto-suppressed, and
// per-CWE minimum confidence thresholds that every proposed suppression must
// clear.
package gate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/quellsec/quell/internal/types"
)

// DefaultNeverSuppress is the built-in denylist. These functions are
// unbounded or shell-invoking by contract; no surrounding idiom makes a
// call to them safe enough for automatic suppression.
var DefaultNeverSuppress = []string{
	"strcpy", "strcat", "gets", "sprintf", "vsprintf", "system", "popen",
}

// DefaultStrictMin raises the bar for the vulnerability classes where a
// wrong suppression is most expensive.
var DefaultStrictMin = map[string]float64{
	"CWE-120": 0.95,
	"CWE-121": 0.95,
	"CWE-122": 0.95,
	"CWE-134": 0.95,
	"CWE-78":  0.99,
}

// DefaultMinConfidence applies to every CWE without an explicit entry.
const DefaultMinConfidence = 0.90

// Gate is immutable after construction and safe for concurrent use.
type Gate struct {
	never      map[string]bool
	neverCalls *regexp.Regexp // matches a call to any denylisted function
	minByCWE   map[string]float64
	defaultMin float64
}

// New builds a gate. Nil or empty arguments fall back to the defaults, so
// New(nil, nil, 0) is equivalent to Default().
func New(neverSuppress []string, minByCWE map[string]float64, defaultMin float64) *Gate {
	if len(neverSuppress) == 0 {
		neverSuppress = DefaultNeverSuppress
	}
	if minByCWE == nil {
		minByCWE = DefaultStrictMin
	}
	if defaultMin <= 0 {
		defaultMin = DefaultMinConfidence
	}

	never := make(map[string]bool, len(neverSuppress))
	quoted := make([]string, 0, len(neverSuppress))
	for _, fn := range neverSuppress {
		fn = strings.TrimSpace(fn)
		if fn == "" {
			continue
		}
		never[fn] = true
		quoted = append(quoted, regexp.QuoteMeta(fn))
	}
	thresholds := make(map[string]float64, len(minByCWE))
	for k, v := range minByCWE {
		thresholds[k] = v
	}

	g := &Gate{
		never:      never,
		minByCWE:   thresholds,
		defaultMin: defaultMin,
	}
	if len(quoted) > 0 {
		g.neverCalls = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\s*\(`)
	}
	return g
}

// Default returns a gate with the built-in denylist and thresholds.
func Default() *Gate {
	return New(nil, nil, 0)
}

// Allow reports whether the finding is eligible for suppression at all.
// It is false when the attributed function is denylisted, or when the
// snippet itself calls a denylisted function. The snippet check is the more
// conservative of the two: it also blocks findings whose context metadata
// went missing on the way in.
func (g *Gate) Allow(f types.Finding) bool {
	if g.never[f.Function()] {
		return false
	}
	if g.neverCalls != nil && g.neverCalls.MatchString(f.Snippet) {
		return false
	}
	return true
}

// MeetsThreshold validates a proposed confidence against the minimum for
// the finding's CWE, falling back to the default minimum for unmapped CWEs.
func (g *Gate) MeetsThreshold(cwe string, confidence float64) bool {
	min, ok := g.minByCWE[cwe]
	if !ok {
		min = g.defaultMin
	}
	return confidence >= min
}

// NeverSuppress returns the denylist, sorted, for display.
func (g *Gate) NeverSuppress() []string {
	out := make([]string, 0, len(g.never))
	for fn := range g.never {
		out = append(out, fn)
	}
	sort.Strings(out)
	return out
}

// Thresholds returns a copy of the per-CWE minimums and the default.
func (g *Gate) Thresholds() (map[string]float64, float64) {
	out := make(map[string]float64, len(g.minByCWE))
	for k, v := range g.minByCWE {
		out[k] = v
	}
	return out, g.defaultMin
}
