package idioms

import (
	"regexp"
	"strings"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-401/415/416/476: heap lifetime idioms. Flawfinder and Semgrep flag
// every free/dereference pairing they cannot prove safe; the patterns below
// cover the styles that dominate real C code bases.

var (
	reFreeCall    = regexp.MustCompile(`\bfree\s*\(\s*([^)]+?)\s*\)`)
	reAssignNull  = regexp.MustCompile(`=\s*NULL\b`)
	reDerefTarget = regexp.MustCompile(`([A-Za-z_]\w*)\s*->|\*\s*([A-Za-z_]\w*)|([A-Za-z_]\w*)\s*\[`)
	reErrBranch   = regexp.MustCompile(`\bif\s*\([^)]*(?:==\s*NULL|!=\s*0|<\s*0|!\s*[A-Za-z_])`)
	reErrGoto     = regexp.MustCompile(`\bgoto\s+(?:err|fail|cleanup|out|done)\w*`)
)

var FreeThenNull = Rule{
	Name:  "free_then_null",
	CWEs:  []string{"CWE-401", "CWE-415", "CWE-416"},
	Match: matchFreeThenNull,
}

func matchFreeThenNull(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reFreeCall.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	ptr := strings.TrimSpace(m[1])
	assign := identRef(ptr, `\s*=\s*NULL\b`)
	for _, l := range src.Next(f.Line, 3) {
		if assign != nil && assign.MatchString(l) {
			return true, "pointer " + ptr + " set to NULL immediately after free", 0.90
		}
		// Complex operands (p->next, arr[i]) fall back to any NULL store.
		if assign == nil && reAssignNull.MatchString(l) {
			return true, "pointer set to NULL immediately after free", 0.90
		}
	}
	return false, "", 0
}

var NullGuardedUse = Rule{
	Name:  "null_guarded_use",
	CWEs:  []string{"CWE-476", "CWE-415", "CWE-416"},
	Match: matchNullGuardedUse,
}

func matchNullGuardedUse(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reDerefTarget.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	ptr := m[1]
	if ptr == "" {
		ptr = m[2]
	}
	if ptr == "" {
		ptr = m[3]
	}
	guard := identRef(ptr, `\b`)
	if guard == nil {
		return false, "", 0
	}
	for _, l := range src.Prev(f.Line, 3) {
		if !guard.MatchString(l) {
			continue
		}
		// if (p) ... / if (p != NULL) ... guard the use directly.
		if reIfStmt.MatchString(l) && !strings.Contains(l, "!"+ptr) {
			return true, "dereference of " + ptr + " guarded by a preceding NULL check", 0.90
		}
		// if (!p) return/goto ... is the early-exit form of the same guard.
		if strings.Contains(l, "!") && (strings.Contains(l, "return") || reErrGoto.MatchString(l)) {
			return true, "dereference of " + ptr + " guarded by a preceding NULL check", 0.90
		}
	}
	return false, "", 0
}

// NoPostFreeUse proposes 0.85, below the 0.90 default threshold; it only
// takes effect under a lowered default_min_threshold.
var NoPostFreeUse = Rule{
	Name:  "no_post_free_use",
	CWEs:  []string{"CWE-415", "CWE-416"},
	Match: matchNoPostFreeUse,
}

func matchNoPostFreeUse(f types.Finding, src window.Lines) (bool, string, float64) {
	m := reFreeCall.FindStringSubmatch(f.Snippet)
	if m == nil {
		return false, "", 0
	}
	ptr := strings.TrimSpace(m[1])
	use := identRef(ptr, `\s*(?:->|\[)`)
	deref := identRef(ptr, `\b`)
	if use == nil || deref == nil {
		// Can't reason about a complex operand; stay conservative.
		return false, "", 0
	}
	for _, l := range src.Next(f.Line, 10) {
		if use.MatchString(l) {
			return false, "", 0
		}
		if strings.Contains(l, "*") && deref.MatchString(l) {
			return false, "", 0
		}
		if containsCall(l, "free") && deref.MatchString(l) {
			return false, "", 0
		}
	}
	return true, "freed pointer " + ptr + " not used in the following lines", 0.85
}

var LeakHandledOnError = Rule{
	Name:  "leak_handled_on_error",
	CWEs:  []string{"CWE-401"},
	Match: matchLeakHandledOnError,
}

func matchLeakHandledOnError(f types.Finding, src window.Lines) (bool, string, float64) {
	next := src.Next(f.Line, 10)
	freed := false
	errPath := false
	for _, l := range next {
		if containsCall(l, "free") {
			freed = true
		}
		if reErrBranch.MatchString(l) || reErrGoto.MatchString(l) {
			errPath = true
		}
	}
	if !freed || !errPath {
		return false, "", 0
	}
	return true, "error path releases the allocation", 0.90
}
