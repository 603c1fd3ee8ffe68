// Package flawfinder runs the flawfinder static analyzer over C/C++ source
// and converts its output into findings. SARIF output is preferred; the
// classic dataonly text format is the fallback for older releases.
package flawfinder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/quellsec/quell/internal/config"
	"github.com/quellsec/quell/internal/types"
)

// cweMapping assigns a CWE category to each flawfinder-reported function.
// Unmapped functions fall back to CWE-20 (improper input validation).
var cweMapping = map[string]string{
	"strcpy":    "CWE-120",
	"strcat":    "CWE-120",
	"gets":      "CWE-120",
	"sprintf":   "CWE-134",
	"vsprintf":  "CWE-134",
	"scanf":     "CWE-120",
	"sscanf":    "CWE-120",
	"system":    "CWE-78",
	"popen":     "CWE-78",
	"execl":     "CWE-78",
	"execle":    "CWE-78",
	"execlp":    "CWE-78",
	"execv":     "CWE-78",
	"execve":    "CWE-78",
	"execvp":    "CWE-78",
	"access":    "CWE-367",
	"tmpnam":    "CWE-377",
	"mktemp":    "CWE-377",
	"rand":      "CWE-330",
	"srand":     "CWE-330",
	"memcpy":    "CWE-787",
	"memmove":   "CWE-787",
	"strncpy":   "CWE-120",
	"strncat":   "CWE-122",
	"fgets":     "CWE-120",
	"fscanf":    "CWE-120",
	"printf":    "CWE-134",
	"fprintf":   "CWE-134",
	"snprintf":  "CWE-134",
	"vsnprintf": "CWE-134",
	"strlen":    "CWE-476",
	"open":      "CWE-22",
	"fopen":     "CWE-22",
	"readlink":  "CWE-22",
	"malloc":    "CWE-190",
	"realloc":   "CWE-190",
	"free":      "CWE-415",
}

// highRiskFuncs get a confidence boost; a flawfinder hit on these is very
// rarely noise.
var highRiskFuncs = map[string]bool{
	"strcpy": true, "strcat": true, "system": true, "popen": true,
	"tmpnam": true, "execl": true, "execle": true, "execlp": true,
	"execv": true, "execve": true, "execvp": true,
}

const maxSnippetChars = 400

// Analyzer implements scanner.Analyzer using the flawfinder binary.
type Analyzer struct {
	binaryPath string
	timeout    time.Duration
	minRisk    int
	version    string
}

// NewAnalyzer creates a flawfinder analyzer from configuration. It fails
// when the binary cannot be found or does not answer --version.
func NewAnalyzer(cfg config.FlawfinderConfig) (*Analyzer, error) {
	binaryPath := cfg.GetBinaryPath()
	if binaryPath == "" {
		p, err := exec.LookPath("flawfinder")
		if err != nil {
			return nil, fmt.Errorf("flawfinder binary not found: %w\n\n"+
				"To fix this:\n"+
				"  1. Install flawfinder: pip install flawfinder\n"+
				"  2. Or specify explicit path in config:\n"+
				"     flawfinder:\n"+
				"       binary: /path/to/flawfinder", err)
		}
		binaryPath = p
	}

	out, err := exec.Command(binaryPath, "--version").Output()
	if err != nil {
		return nil, fmt.Errorf("flawfinder version check failed: %w", err)
	}

	return &Analyzer{
		binaryPath: binaryPath,
		timeout:    time.Duration(cfg.GetTimeout()) * time.Second,
		minRisk:    cfg.GetMinRisk(),
		version:    strings.TrimSpace(string(out)),
	}, nil
}

// Version implements scanner.Analyzer.
func (a *Analyzer) Version() (string, error) {
	return a.version, nil
}

// Analyze implements scanner.Analyzer. The code is written to a temp file
// so the flawfinder process never sees the caller's paths.
func (a *Analyzer) Analyze(ctx context.Context, filename, code string) ([]types.Finding, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".c"
	}
	tmp, err := os.CreateTemp("", "quell-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath) //nolint:errcheck // Best-effort cleanup
	}()
	if _, err := tmp.WriteString(code); err != nil {
		_ = tmp.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	findings, err := a.runSarif(ctx, tmpPath, filename, code)
	if err != nil {
		findings, err = a.runText(ctx, tmpPath, filename, code)
		if err != nil {
			return nil, err
		}
	}

	out := findings[:0]
	for _, f := range findings {
		if risk, _ := strconv.Atoi(f.Context["risk_level"]); risk >= a.minRisk {
			out = append(out, f)
		}
	}
	return out, nil
}

func (a *Analyzer) runSarif(ctx context.Context, path, filename, code string) ([]types.Finding, error) {
	cmd := exec.CommandContext(ctx, a.binaryPath,
		"--quiet", "--singleline", "--dataonly", "--columns", "--sarif", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("flawfinder sarif scan failed: %w\n%s", err, stderr.String())
	}
	if strings.TrimSpace(stdout.String()) == "" {
		return nil, fmt.Errorf("flawfinder produced no sarif output")
	}
	return parseSarif(stdout.Bytes(), filename, code)
}

func (a *Analyzer) runText(ctx context.Context, path, filename, code string) ([]types.Finding, error) {
	cmd := exec.CommandContext(ctx, a.binaryPath,
		"--quiet", "--singleline", "--dataonly", "--columns", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("flawfinder text scan failed: %w\n%s", err, stderr.String())
	}
	return parseText(stdout.String(), filename, code), nil
}

func findingID(file string, line int, cwe, snippet string) string {
	h := xxhash.Sum64String(fmt.Sprintf("%s|%d|%s|%s", file, line, cwe, snippet))
	return fmt.Sprintf("flawfinder-%016x", h)
}

func severityForRisk(risk int) types.Severity {
	switch {
	case risk >= 5:
		return types.SevCritical
	case risk == 4:
		return types.SevHigh
	case risk >= 2:
		return types.SevMedium
	default:
		return types.SevLow
	}
}

func confidenceFor(function string, risk int) float64 {
	confidence := 0.80
	if highRiskFuncs[function] {
		confidence = 0.90
	}
	if risk >= 4 {
		confidence += 0.05
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}

// snippetAt renders the flagged line plus the two preceding lines, with a
// marker on the flagged one.
func snippetAt(code string, line int) string {
	lines := strings.Split(code, "\n")
	if line < 1 || line > len(lines) {
		return fmt.Sprintf("Line %d: unable to extract snippet", line)
	}
	start := line - 2
	if start < 1 {
		start = 1
	}
	var b strings.Builder
	for n := start; n <= line; n++ {
		marker := "    "
		if n == line {
			marker = ">>> "
		}
		fmt.Fprintf(&b, "%s%3d: %s\n", marker, n, strings.TrimRight(lines[n-1], " \t\r"))
	}
	s := strings.TrimSuffix(b.String(), "\n")
	if len(s) > maxSnippetChars {
		s = s[:maxSnippetChars] + "..."
	}
	return s
}

var (
	reFuncInMessage = regexp.MustCompile(`(\w+)\s*\(`)
	reWord          = regexp.MustCompile(`[A-Za-z_]\w*`)
)

// functionFromMessage pulls the flagged call out of a flawfinder message.
// Known function names win over the generic call pattern because SARIF
// messages rarely contain the call itself.
func functionFromMessage(message string) string {
	if m := reFuncInMessage.FindStringSubmatch(message); m != nil {
		if _, ok := cweMapping[m[1]]; ok {
			return m[1]
		}
	}
	for _, tok := range reWord.FindAllString(message, -1) {
		if _, ok := cweMapping[strings.ToLower(tok)]; ok {
			return strings.ToLower(tok)
		}
	}
	if m := reFuncInMessage.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return "unknown"
}

func cweFor(function string) string {
	if cwe, ok := cweMapping[function]; ok {
		return cwe
	}
	return "CWE-20"
}

func buildFinding(filename, code, function, message string, line, column, risk int) types.Finding {
	cwe := cweFor(function)
	snippet := snippetAt(code, line)
	return types.Finding{
		ID:         findingID(filename, line, cwe, snippet),
		CWE:        cwe,
		Title:      function + " vulnerability",
		Severity:   severityForRisk(risk),
		Status:     types.StatusActive,
		Line:       line,
		Column:     column,
		Snippet:    snippet,
		File:       filepath.Base(filename),
		Tool:       "flawfinder",
		Confidence: confidenceFor(function, risk),
		Context: map[string]string{
			"function":   function,
			"message":    message,
			"risk_level": strconv.Itoa(risk),
		},
	}
}
