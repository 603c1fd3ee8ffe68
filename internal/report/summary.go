package report

import (
	"github.com/quellsec/quell/internal/types"
)

// Summary aggregates a finding list for display and exit-code decisions.
type Summary struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Suppressed int            `json:"suppressed"`
	BySeverity map[string]int `json:"by_severity"`
	ByCWE      map[string]int `json:"by_cwe"`
}

// Summarize counts findings by status, severity, and CWE. Severity and CWE
// tallies cover ACTIVE findings only; suppressed ones are accounted for in
// the Suppressed total.
func Summarize(findings []types.Finding) Summary {
	s := Summary{
		BySeverity: map[string]int{},
		ByCWE:      map[string]int{},
	}
	for _, f := range findings {
		s.Total++
		if f.Status == types.StatusSuppressed {
			s.Suppressed++
			continue
		}
		s.Active++
		s.BySeverity[string(f.Severity)]++
		s.ByCWE[f.CWE]++
	}
	return s
}

// SuppressionRate is suppressed over total, 0 for an empty list.
func (s Summary) SuppressionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Suppressed) / float64(s.Total)
}

// ShouldFail reports whether any ACTIVE finding reaches the failOn
// severity. Suppressed findings never fail a scan. An unknown failOn value
// falls back to medium.
func ShouldFail(findings []types.Finding, failOn string) bool {
	threshold := types.Severity(normalizeSeverity(failOn)).Rank()
	if threshold == 0 {
		threshold = types.SevMedium.Rank()
	}
	for _, f := range findings {
		if f.Status != types.StatusActive {
			continue
		}
		if f.Severity.Rank() >= threshold {
			return true
		}
	}
	return false
}

func normalizeSeverity(s string) string {
	switch s {
	case "low", "LOW":
		return string(types.SevLow)
	case "medium", "MEDIUM":
		return string(types.SevMedium)
	case "high", "HIGH":
		return string(types.SevHigh)
	case "critical", "CRITICAL":
		return string(types.SevCritical)
	}
	return ""
}
