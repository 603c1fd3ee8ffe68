package idioms

import (
	"regexp"
	"strings"

	"github.com/quellsec/quell/internal/types"
	"github.com/quellsec/quell/internal/window"
)

// CWE-134: uncontrolled format string. The analyzer flags every printf-family
// call; these rules recognize the calls whose format argument is provably a
// harmless literal.

var (
	// printf("...") / vprintf("...") with the format in argument position 1.
	rePrintfLit = regexp.MustCompile(`\b(?:printf|vprintf)\s*\(\s*"((?:[^"\\]|\\.)*)"`)
	// fprintf(stream, "...") / dprintf(fd, "...") with the format in position 2.
	reStreamPrintfLit = regexp.MustCompile(`\b(?:fprintf|vfprintf|dprintf|syslog)\s*\(\s*[A-Za-z_][\w>.\-\[\]]*\s*,\s*"((?:[^"\\]|\\.)*)"`)
	// snprintf(dst, size, "...") with an explicit size expression.
	reSnprintfLit = regexp.MustCompile(`\b(?:snprintf|vsnprintf)\s*\(\s*[^,]+,\s*(?:sizeof\s*\([^)]+\)[^,]*|[A-Za-z_]\w*|\d+)\s*,\s*"((?:[^"\\]|\\.)*)"`)
	// Variable used directly as the format argument, e.g. printf(buf).
	reVarAsFormat = regexp.MustCompile(`\b(?:printf|vprintf)\s*\(\s*[A-Za-z_]`)
	// Forwarding formats: the entire literal is %s or %.*s.
	reSafeForward = regexp.MustCompile(`\b(?:f|v|vf|sn|s)?printf\s*\((?:\s*[A-Za-z_][\w>.\-\[\]]*\s*,)*\s*"%(?:s|\.\*s)"\s*,`)
)

var PrintfLiteralFormat = Rule{
	Name:  "printf_literal_format",
	CWEs:  []string{"CWE-134"},
	Match: matchPrintfLiteralFormat,
}

func matchPrintfLiteralFormat(f types.Finding, _ window.Lines) (bool, string, float64) {
	m := rePrintfLit.FindStringSubmatch(f.Snippet)
	if m == nil {
		m = reStreamPrintfLit.FindStringSubmatch(f.Snippet)
	}
	if m == nil {
		// A variable in format position stays suspicious.
		return false, "", 0
	}
	if reVarAsFormat.MatchString(f.Snippet) && !rePrintfLit.MatchString(f.Snippet) {
		return false, "", 0
	}
	if strings.Contains(m[1], "%n") {
		return false, "", 0
	}
	return true, "format string is a literal without %n", 0.95
}

var SnprintfLiteralFormat = Rule{
	Name:  "snprintf_literal_format",
	CWEs:  []string{"CWE-134"},
	Match: matchSnprintfLiteralFormat,
}

func matchSnprintfLiteralFormat(f types.Finding, _ window.Lines) (bool, string, float64) {
	m := reSnprintfLit.FindStringSubmatch(f.Snippet)
	if m == nil || strings.Contains(m[1], "%n") {
		return false, "", 0
	}
	return true, "snprintf bounded by an explicit size with a literal format", 0.95
}

var FormatStringSafeForward = Rule{
	Name:  "format_string_safe_forward",
	CWEs:  []string{"CWE-134"},
	Match: matchFormatStringSafeForward,
}

func matchFormatStringSafeForward(f types.Finding, _ window.Lines) (bool, string, float64) {
	if !reSafeForward.MatchString(f.Snippet) {
		return false, "", 0
	}
	return true, "value forwarded through a constant %s format", 0.90
}
