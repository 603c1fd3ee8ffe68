// Package suppress decides which analyzer findings are likely false
// positives. The engine walks an ordered rule set per finding, applies the
// first rule that matches, and records why. Findings are never deleted,
// only re-labeled, so downstream consumers always see the full set.
package suppress

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/quellsec/quell/internal/gate"
	"github.com/quellsec/quell/internal/idioms"
	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// Engine is safe for concurrent use: the gate and rule set are immutable
// after construction and Apply mutates only the slice it is given.
type Engine struct {
	gate  *gate.Gate
	rules []idioms.Rule
	log   hclog.Logger
}

// New builds an engine from an explicit gate and rule set.
func New(g *gate.Gate, rules []idioms.Rule, log hclog.Logger) *Engine {
	if g == nil {
		g = gate.Default()
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Engine{gate: g, rules: rules, log: log}
}

// Default returns an engine with the built-in gate and the full rule set.
func Default(log hclog.Logger) *Engine {
	return New(gate.Default(), idioms.All(), log)
}

// Gate exposes the engine's gate for display commands.
func (e *Engine) Gate() *gate.Gate { return e.gate }

// RuleNames returns the engine's rule names in evaluation order.
func (e *Engine) RuleNames() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.Name
	}
	return out
}

// Apply classifies findings in place against the source code they were
// reported for and returns the number of findings it suppressed. Findings
// already marked SUPPRESSED are left untouched, which makes Apply
// idempotent. A cancelled context stops evaluation between findings; the
// partial count reflects work done so far.
func (e *Engine) Apply(ctx context.Context, findings []types.Finding, code string) int {
	src := window.Split(code)
	suppressed := 0
	for i := range findings {
		select {
		case <-ctx.Done():
			e.log.Debug("suppression cancelled", "processed", i, "total", len(findings))
			return suppressed
		default:
		}
		if e.apply(&findings[i], src) {
			suppressed++
		}
	}
	return suppressed
}

func (e *Engine) apply(f *types.Finding, src window.Lines) bool {
	if f.Status == types.StatusSuppressed {
		return false
	}
	if !e.gate.Allow(*f) {
		return false
	}
	for _, r := range e.rules {
		if !r.AppliesTo(*f) {
			continue
		}
		ok, reason, confidence := e.eval(r, *f, src)
		if !ok {
			continue
		}
		if !e.gate.MeetsThreshold(f.CWE, confidence) {
			e.log.Debug("rule matched below threshold",
				"rule", r.Name, "finding", f.ID, "cwe", f.CWE, "confidence", confidence)
			continue
		}
		f.Status = types.StatusSuppressed
		f.SuppressionReason = r.Name + ": " + reason
		f.Confidence = confidence
		e.log.Debug("finding suppressed",
			"rule", r.Name, "finding", f.ID, "cwe", f.CWE, "confidence", confidence)
		return true
	}
	return false
}

// eval runs one rule, converting a panic into a logged non-match so a
// single misbehaving rule cannot take down a scan.
func (e *Engine) eval(r idioms.Rule, f types.Finding, src window.Lines) (ok bool, reason string, confidence float64) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Warn("suppression rule panicked",
				"rule", r.Name, "finding", f.ID, "panic", fmt.Sprintf("%v", rec))
			ok, reason, confidence = false, "", 0
		}
	}()
	return r.Match(f, src)
}
