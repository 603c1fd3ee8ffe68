package flawfinder

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/quellsec/quell/internal/types"
)

// reTextLine matches one line of flawfinder's dataonly output:
//
//	path:line:column:  [risk] (category) function:message
//
// The column segment is absent without --columns, so it is optional here.
var reTextLine = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*\[(\d)\]\s*\(([^)]+)\)\s*([\w.]+):?\s*(.*)$`)

// parseText converts flawfinder's dataonly text output into findings.
// Unparseable lines are skipped.
func parseText(output, filename, code string) []types.Finding {
	var findings []types.Finding
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := reTextLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNum, _ := strconv.Atoi(m[2])
		column := 1
		if m[3] != "" {
			column, _ = strconv.Atoi(m[3])
		}
		risk, _ := strconv.Atoi(m[4])
		function := m[6]
		message := m[7]

		findings = append(findings, buildFinding(filename, code, function, message, lineNum, column, risk))
	}
	return findings
}
