package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/quellsec/quell/internal/types"
)

// Drift thresholds for comparing a scan's suppression rate to the baseline.
const (
	DriftWarn     = 0.10
	DriftCritical = 0.25
)

// Baseline records the accepted findings of a previous scan plus its
// suppression rate, used to surface only new findings and to detect policy
// drift.
type Baseline struct {
	Items           map[string]bool `json:"items"`
	SuppressionRate float64         `json:"suppression_rate"`
	CreatedAt       time.Time       `json:"created_at"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	_ = json.Unmarshal(f, &b)
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{
		Items:           map[string]bool{},
		SuppressionRate: Summarize(findings).SuppressionRate(),
		CreatedAt:       time.Now().UTC(),
	}
	for _, f := range findings {
		b.Items[baselineKey(f)] = true
	}
	buf, _ := json.MarshalIndent(b, "", "  ")
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFindings drops findings already present in the baseline.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[baselineKey(f)] {
			out = append(out, f)
		}
	}
	return out
}

func baselineKey(f types.Finding) string {
	return f.File + "|" + f.CWE + "|" + f.ID
}

// DriftLevel compares the current suppression rate to the baseline's:
// "" for no drift, "warning" at DriftWarn, "critical" at DriftCritical.
func (b Baseline) DriftLevel(currentRate float64) string {
	drift := currentRate - b.SuppressionRate
	if drift < 0 {
		drift = -drift
	}
	switch {
	case drift >= DriftCritical:
		return "critical"
	case drift >= DriftWarn:
		return "warning"
	}
	return ""
}
