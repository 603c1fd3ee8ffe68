// Package idioms holds the safe-usage rules that recognize likely false
// positives in raw analyzer findings. Each rule is a pure predicate over a
// finding and a bounded window of surrounding source lines; rules only
// propose a suppression, the engine decides whether to apply it.
package idioms

import (
	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// MatchFunc inspects a finding and its source window and proposes a
// suppression: matched, a human-readable reason, and a confidence in [0,1].
// Implementations must be stateless and must degrade to a non-match on
// malformed or missing input rather than fail.
type MatchFunc func(f types.Finding, src window.Lines) (bool, string, float64)

// Rule pairs the metadata used for cheap pre-filtering with the actual
// matcher. Rules are constructed once and shared across requests.
type Rule struct {
	Name  string   // unique, recorded in suppression_reason
	CWEs  []string // eligible CWE IDs; empty means any CWE
	Funcs []string // eligible context functions; empty means any
	Match MatchFunc
}

// AppliesTo is the cheap short-circuit: a rule never inspects findings
// outside its declared CWE and function scope.
func (r Rule) AppliesTo(f types.Finding) bool {
	if len(r.CWEs) > 0 {
		found := false
		for _, c := range r.CWEs {
			if c == f.CWE {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(r.Funcs) > 0 {
		fn := f.Function()
		if fn == "" {
			return false
		}
		for _, want := range r.Funcs {
			if want == fn {
				return true
			}
		}
		return false
	}
	return true
}

// All returns the rule set in priority order: the first matching rule wins
// and later rules are never consulted for that finding. The order is part
// of the engine's contract; do not reorder without revisiting the engine
// determinism tests.
func All() []Rule {
	return []Rule{
		PrintfLiteralFormat,
		SnprintfLiteralFormat,
		FormatStringSafeForward,
		ExeclNoShell,
		ExecArgAllowlist,
		ExecConstArgv,
		StrncpyBoundsPlusNul,
		StrncatSpaceGuard,
		ScanfWidthSpecifier,
		BoundsCheckedIndex,
		AllocAddOverflowGuard,
		MulOverflowGuard,
		SignedUnderflowGuard,
		FreeThenNull,
		NullGuardedUse,
		NoPostFreeUse,
		LeakHandledOnError,
		RelpathAllowlist,
		OpenExclusive,
		MkstempOK,
		SizeofFixedBuffer,
		SizeofDerefPointer,
		CryptographicSourceUsed,
		ContextSafe,
	}
}

// Names returns the rule names in priority order.
func Names() []string {
	rules := All()
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name
	}
	return out
}
