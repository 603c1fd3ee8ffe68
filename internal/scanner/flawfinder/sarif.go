package flawfinder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/quellsec/quell/internal/types"
)

var reRiskInMessage = regexp.MustCompile(`(?i)risk level (\d)`)

// parseSarif converts a flawfinder SARIF report into findings. Flawfinder
// encodes the risk level as the result rank (risk/5).
func parseSarif(data []byte, filename, code string) ([]types.Finding, error) {
	report, err := sarif.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sarif output: %w", err)
	}

	var findings []types.Finding
	for _, run := range report.Runs {
		for _, res := range run.Results {
			line, column := 1, 1
			if len(res.Locations) > 0 && res.Locations[0].PhysicalLocation != nil {
				if region := res.Locations[0].PhysicalLocation.Region; region != nil {
					if region.StartLine != nil {
						line = *region.StartLine
					}
					if region.StartColumn != nil {
						column = *region.StartColumn
					}
				}
			}

			message := ""
			if res.Message.Text != nil {
				message = *res.Message.Text
			}
			ruleID := ""
			if res.RuleID != nil {
				ruleID = *res.RuleID
			}

			function := functionFromMessage(message)
			risk := riskFromSarif(res.Rank, ruleID, message)
			findings = append(findings, buildFinding(filename, code, function, message, line, column, risk))
		}
	}
	return findings, nil
}

func riskFromSarif(rank *float32, ruleID, message string) int {
	if rank != nil && *rank >= 0 {
		return int(float64(*rank) * 5.0)
	}
	if m := reRiskInMessage.FindStringSubmatch(message); m != nil {
		risk, _ := strconv.Atoi(m[1])
		return risk
	}
	if ruleID != "" {
		if risk, err := strconv.Atoi(ruleID); err == nil {
			return risk
		}
	}
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "strcpy"), strings.Contains(lower, "strcat"), strings.Contains(lower, "system"):
		return 5
	case strings.Contains(lower, "sprintf"), strings.Contains(lower, "scanf"):
		return 4
	}
	return 3
}
