package idioms

import (
	"regexp"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-120/787: an indexed write is fine when the index was range-checked on
// a directly preceding line. The check is deliberately local (3 lines): a
// guard further away is too easy to invalidate between check and use.

var reIndexVar = regexp.MustCompile(`\[\s*([A-Za-z_]\w*)\s*\]`)

var BoundsCheckedIndex = Rule{
	Name:  "bounds_checked_index",
	CWEs:  []string{"CWE-120", "CWE-787"},
	Match: matchBoundsCheckedIndex,
}

func matchBoundsCheckedIndex(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reIndexVar.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	idx := m[1]
	guard := identRef(idx, `\s*<=?\s*`)
	if guard == nil {
		return false, "", 0
	}
	for _, l := range src.Prev(f.Line, 3) {
		if reIfStmt.MatchString(l) && guard.MatchString(l) {
			return true, "index " + idx + " is bounds-checked on a preceding line", 0.90
		}
	}
	return false, "", 0
}

var reIfStmt = regexp.MustCompile(`\b(?:if|while|for)\s*\(`)
