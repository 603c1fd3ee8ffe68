package types

// Severity is the analyst-facing risk level for a finding.
type Severity string

const (
	SevLow      Severity = "LOW"
	SevMedium   Severity = "MEDIUM"
	SevHigh     Severity = "HIGH"
	SevCritical Severity = "CRITICAL"
)

// Rank orders severities for threshold comparisons (fail-on, sorting).
// Unknown severities rank below LOW.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMedium:
		return 2
	case SevLow:
		return 1
	}
	return 0
}

// Status tracks whether a finding is still actionable. The suppression
// engine only ever moves a finding ACTIVE -> SUPPRESSED, never back.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusSuppressed Status = "SUPPRESSED"
)

// Finding describes one potential vulnerability reported by a static
// analyzer for a source unit, including its CWE category, location, a short
// snippet, and the analyzer's confidence in [0,1]. SuppressionReason is set
// if and only if Status is SUPPRESSED.
type Finding struct {
	ID                string            `json:"id"`
	CWE               string            `json:"cwe_id"`
	Title             string            `json:"title,omitempty"`
	Severity          Severity          `json:"severity"`
	Status            Status            `json:"status"`
	Line              int               `json:"line"`
	Column            int               `json:"column,omitempty"`
	Snippet           string            `json:"snippet"`
	File              string            `json:"file"`
	Tool              string            `json:"tool"`
	Confidence        float64           `json:"confidence"`
	SuppressionReason string            `json:"suppression_reason,omitempty"`
	Context           map[string]string `json:"context,omitempty"`
}

// Function returns the context function name the analyzer attributed the
// finding to, or "" when unknown.
func (f Finding) Function() string {
	return f.Context["function"]
}
