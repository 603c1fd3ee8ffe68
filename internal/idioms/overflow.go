package idioms

import (
	"regexp"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-190/191: integer overflow and underflow. The canonical guards compare
// against SIZE_MAX before the arithmetic happens; a guard after the fact
// does not count, so only preceding lines (and the flagged line itself) are
// inspected.

var (
	reAddGuard   = regexp.MustCompile(`>\s*SIZE_MAX\s*-`)
	reMulGuard   = regexp.MustCompile(`>\s*SIZE_MAX\s*/`)
	reLowerBound = regexp.MustCompile(`\bif\s*\([^)]*(?:>=?\s*(?:0|INT_MIN|LONG_MIN|LLONG_MIN)\b|<\s*0\s*\))`)
)

var overflowCWEs = []string{"CWE-190", "CWE-191"}

var AllocAddOverflowGuard = Rule{
	Name:  "alloc_add_overflow_guard",
	CWEs:  overflowCWEs,
	Match: matchAddOverflowGuard,
}

func matchAddOverflowGuard(f types.Finding, src window.Lines) (bool, string, float64) {
	lines := joinLines(src.Prev(f.Line, 5), f.Snippet)
	if !anyLine(lines, reAddGuard) {
		return false, "", 0
	}
	return true, "additive overflow guarded against SIZE_MAX", 0.95
}

var MulOverflowGuard = Rule{
	Name:  "mul_overflow_guard",
	CWEs:  overflowCWEs,
	Match: matchMulOverflowGuard,
}

func matchMulOverflowGuard(f types.Finding, src window.Lines) (bool, string, float64) {
	lines := joinLines(src.Prev(f.Line, 5), f.Snippet)
	if !anyLine(lines, reMulGuard) {
		return false, "", 0
	}
	return true, "multiplicative overflow guarded against SIZE_MAX", 0.95
}

var SignedUnderflowGuard = Rule{
	Name:  "signed_underflow_guard",
	CWEs:  overflowCWEs,
	Match: matchSignedUnderflowGuard,
}

func matchSignedUnderflowGuard(f types.Finding, src window.Lines) (bool, string, float64) {
	if !anyLine(src.Prev(f.Line, 5), reLowerBound) {
		return false, "", 0
	}
	return true, "lower bound checked before signed arithmetic", 0.90
}
