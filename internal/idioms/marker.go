package idioms

import (
	"regexp"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// context_safe is the lowest-priority, lowest-confidence rule: an inline
// human marker near the finding. It applies to any CWE but is still subject
// to the denylist and per-CWE thresholds, so it can never clear a finding
// the gate protects. Its 0.80 confidence sits below the 0.90 default
// threshold; the rule only takes effect when the operator lowers
// default_min_threshold.

var reSafeMarker = regexp.MustCompile(`(?i)(?://|/\*)[^\n]*\b(?:safe|test(?:ing)?\s+only|example|demo|false\s+positive)\b`)

var ContextSafe = Rule{
	Name:  "context_safe",
	Match: matchContextSafe,
}

func matchContextSafe(f types.Finding, src window.Lines) (bool, string, float64) {
	if reSafeMarker.MatchString(f.Snippet) {
		return true, "inline marker comment indicates reviewed or test code", 0.80
	}
	near := joinLines(src.Prev(f.Line, 2), src.Next(f.Line, 2)...)
	if anyLine(near, reSafeMarker) {
		return true, "inline marker comment indicates reviewed or test code", 0.80
	}
	return false, "", 0
}
