package scanner

import (
	"context"

	"github.com/quellsec/quell/internal/types"
)

// Analyzer defines the interface for static analysis engines.
// Implementations include the Flawfinder integration and potential future
// analyzers.
type Analyzer interface {
	// Analyze runs the analyzer over one source unit and returns raw
	// findings, all ACTIVE. The filename is used for display and for
	// choosing the temp file extension; the code is the unit's full text.
	Analyze(ctx context.Context, filename, code string) ([]types.Finding, error)

	// Version returns the analyzer version information.
	Version() (string, error)
}
