package core

import (
	"encoding/json"
	"io"
)

// MarshalFindings writes findings as indented JSON. Suppressed findings are
// included with their suppression_reason so the output preserves the full
// audit trail, not just the actionable set.
func MarshalFindings(w io.Writer, findings []Finding) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// UnmarshalFindings reads a findings array produced by MarshalFindings or by
// `quell scan --json`, e.g. to re-run suppression with a different gate.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}
