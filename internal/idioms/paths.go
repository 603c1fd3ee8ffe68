package idioms

import (
	"regexp"
	"strings"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-22/367/377: filesystem idioms. Validated relative paths, exclusive
// creation, and properly closed mkstemp descriptors.

var (
	rePathValidation = regexp.MustCompile(`(?i)\b(?:is_safe_path|sanitize\w*|canonicaliz\w*|realpath|basename|allowlist|whitelist|validate\w*)\s*\(`)
	reDotDotCheck    = regexp.MustCompile(`strstr\s*\([^)]*"\.\."`)
	reOpenCall       = regexp.MustCompile(`\bopen(?:at)?\s*\(`)
	reMkstempCall    = regexp.MustCompile(`(?:([A-Za-z_]\w*)\s*=\s*)?\bmkstemps?\s*\(`)
)

var RelpathAllowlist = Rule{
	Name:  "relpath_allowlist",
	CWEs:  []string{"CWE-22"},
	Match: matchRelpathAllowlist,
}

func matchRelpathAllowlist(f types.Finding, src window.Lines) (bool, string, float64) {
	prev := src.Prev(f.Line, 5)
	if !anyLine(prev, rePathValidation) && !anyLine(prev, reDotDotCheck) {
		return false, "", 0
	}
	return true, "path validated against traversal before use", 0.90
}

var OpenExclusive = Rule{
	Name:  "open_exclusive",
	CWEs:  []string{"CWE-22", "CWE-367"},
	Match: matchOpenExclusive,
}

func matchOpenExclusive(f types.Finding, _ window.Lines) (bool, string, float64) {
	if !reOpenCall.MatchString(f.Snippet) {
		return false, "", 0
	}
	if !strings.Contains(f.Snippet, "O_CREAT") || !strings.Contains(f.Snippet, "O_EXCL") {
		return false, "", 0
	}
	return true, "open uses O_CREAT|O_EXCL so an existing file cannot be followed", 0.95
}

var MkstempOK = Rule{
	Name:  "mkstemp_ok",
	CWEs:  []string{"CWE-377"},
	Match: matchMkstempOK,
}

func matchMkstempOK(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reMkstempCall.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	rest := src.Next(f.Line, src.Len())
	if fd := m[1]; fd != "" {
		closeCall := identRef(fd, `\b`)
		for _, l := range rest {
			if containsCall(l, "close") && closeCall != nil && closeCall.MatchString(l) {
				return true, "mkstemp descriptor " + fd + " is closed later in the file", 0.95
			}
		}
		return false, "", 0
	}
	for _, l := range rest {
		if containsCall(l, "close") {
			return true, "mkstemp descriptor is closed later in the file", 0.95
		}
	}
	return false, "", 0
}
