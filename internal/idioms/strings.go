package idioms

import (
	"regexp"
	"strings"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-120/121/122: classic bounded-copy idioms. A strncpy or strncat flagged
// by the analyzer is fine when the size argument is derived from the
// destination and the result is explicitly terminated.

var (
	reStrncpyCall = regexp.MustCompile(`\bstrncpy\s*\(\s*([A-Za-z_]\w*)[^,]*,[^,]+,\s*sizeof\s*\(\s*([A-Za-z_]\w*)[^)]*\)\s*-\s*1\s*\)`)
	reNulWrite    = regexp.MustCompile(`\[[^\]]+\]\s*=\s*'\\0'`)
	reSpaceGuard  = regexp.MustCompile(`sizeof\s*\([^)]+\)\s*-\s*strlen\s*\([^)]+\)\s*-\s*1`)
	reScanfCall   = regexp.MustCompile(`\b(?:f|s|v|vf|vs)?scanf\s*\(`)
	reWidthConv   = regexp.MustCompile(`%\d+(?:s|c|\[)`)
	reBareStrConv = regexp.MustCompile(`%(?:\*?)s`)
)

var bufferCWEs = []string{"CWE-120", "CWE-121", "CWE-122"}

var StrncpyBoundsPlusNul = Rule{
	Name:  "strncpy_bounds_plus_nul",
	CWEs:  bufferCWEs,
	Match: matchStrncpyBoundsPlusNul,
}

func matchStrncpyBoundsPlusNul(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reStrncpyCall.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	// The size must be derived from the destination buffer.
	if m[1] != m[2] {
		return false, "", 0
	}
	for _, l := range joinLines([]string{f.Snippet}, src.Next(f.Line, 3)...) {
		if reNulWrite.MatchString(l) {
			return true, "strncpy bounded by sizeof(dest)-1 with explicit NUL terminator", 0.95
		}
	}
	return false, "", 0
}

var StrncatSpaceGuard = Rule{
	Name:  "strncat_space_guard",
	CWEs:  bufferCWEs,
	Match: matchStrncatSpaceGuard,
}

func matchStrncatSpaceGuard(f types.Finding, src window.Lines) (bool, string, float64) {
	if !containsCall(f.Snippet, "strncat") {
		return false, "", 0
	}
	if !reSpaceGuard.MatchString(f.Snippet) && !anyLine(src.Prev(f.Line, 3), reSpaceGuard) {
		return false, "", 0
	}
	return true, "remaining capacity computed before strncat", 0.90
}

var ScanfWidthSpecifier = Rule{
	Name:  "scanf_width_specifier",
	CWEs:  []string{"CWE-120"},
	Match: matchScanfWidthSpecifier,
}

func matchScanfWidthSpecifier(f types.Finding, _ window.Lines) (bool, string, float64) {
	if !reScanfCall.MatchString(f.Snippet) {
		return false, "", 0
	}
	for _, lit := range stringLiterals(f.Snippet) {
		if !strings.Contains(lit, "%") {
			continue
		}
		if !reWidthConv.MatchString(lit) {
			return false, "", 0
		}
		// Every string conversion must carry a width; a bare %s anywhere
		// keeps the finding active.
		stripped := reWidthConv.ReplaceAllString(lit, "")
		if reBareStrConv.MatchString(stripped) {
			return false, "", 0
		}
		return true, "scanf format uses explicit field widths", 0.90
	}
	return false, "", 0
}
