package core

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/quellsec/quell/internal/engine"
	"github.com/quellsec/quell/internal/idioms"
	"github.com/quellsec/quell/internal/suppress"
	"github.com/quellsec/quell/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Result = engine.Result
type Finding = types.Finding

// Finding status values.
const (
	StatusActive     = types.StatusActive
	StatusSuppressed = types.StatusSuppressed
)

// Scan is the stable entrypoint for other programs.
func Scan(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Suppressor == nil {
		cfg.Suppressor = suppress.Default(hclog.NewNullLogger())
	}
	return engine.Scan(ctx, cfg)
}

// Suppress classifies findings in place against their source text using the
// default policy, and returns how many were suppressed. Callers that
// already have findings from their own analyzer use this directly.
func Suppress(ctx context.Context, findings []Finding, code string) int {
	return suppress.Default(hclog.NewNullLogger()).Apply(ctx, findings, code)
}

// RuleNames returns the suppression rule names in evaluation order.
// This is exposed for convenience to avoid importing internals directly.
func RuleNames() []string { return idioms.Names() }
