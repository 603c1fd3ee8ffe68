package report

import (
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/quellsec/quell/internal/types"
)

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevCritical, types.SevHigh:
		return "error"
	case types.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes findings as SARIF 2.1.0 to the provided writer.
// Suppressed findings are emitted with a suppression record so downstream
// viewers hide them without losing the audit trail.
func WriteSARIF(w io.Writer, findings []types.Finding, toolVersion string) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("quell", "https://github.com/quellsec/quell")
	seen := map[string]bool{}
	for _, f := range findings {
		if !seen[f.CWE] {
			run.AddRule(f.CWE).WithDescription("Findings categorized as " + f.CWE)
			seen[f.CWE] = true
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.File)).
				WithRegion(sarif.NewRegion().WithStartLine(f.Line)),
		)

		message := f.Title
		if message == "" {
			message = f.CWE + " finding"
		}
		result := sarif.NewRuleResult(f.CWE).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(sevToLevel(f.Severity)).
			WithLocations([]*sarif.Location{location})

		if f.Status == types.StatusSuppressed {
			// The library misspells this builder; the wire field is still
			// "justification".
			result.Suppressions = []*sarif.Suppression{
				sarif.NewSuppression("external").WithJustifcation(f.SuppressionReason),
			}
		}
		run.AddResult(result)
	}
	if toolVersion != "" {
		run.Tool.Driver.WithVersion(toolVersion)
	}
	report.AddRun(run)

	return report.PrettyWrite(w)
}
