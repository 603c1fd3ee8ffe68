package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quellsec/quell/internal/suppress"
	"github.com/quellsec/quell/internal/telemetry"
	"github.com/quellsec/quell/internal/types"
)

// fakeAnalyzer returns one canned finding per file and counts calls.
type fakeAnalyzer struct {
	calls   int
	cwe     string
	snippet string
}

func (a *fakeAnalyzer) Analyze(_ context.Context, filename, _ string) ([]types.Finding, error) {
	a.calls++
	return []types.Finding{{
		ID:         "fake-" + filename,
		CWE:        a.cwe,
		Severity:   types.SevHigh,
		Status:     types.StatusActive,
		Line:       1,
		Snippet:    a.snippet,
		File:       filename,
		Tool:       "fake",
		Confidence: 0.80,
		Context:    map[string]string{"function": "printf"},
	}}, nil
}

func (a *fakeAnalyzer) Version() (string, error) { return "fake-1.0", nil }

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func baseConfig(root string, a *fakeAnalyzer) Config {
	return Config{
		Root:       root,
		Analyzer:   a,
		Suppressor: suppress.Default(hclog.NewNullLogger()),
		NoCache:    true,
	}
}

func TestScanSuppressesFindings(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "log.c", `printf("%s", msg);`+"\n")

	fa := &fakeAnalyzer{cwe: "CWE-134", snippet: `printf("%s", msg);`}
	res, err := Scan(context.Background(), baseConfig(dir, fa))
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilesScanned)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, 1, res.Suppressed)
	assert.Equal(t, types.StatusSuppressed, res.Findings[0].Status)
}

func TestScanSkipsNonSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.c", "int main() {}\n")
	writeSource(t, dir, "README.md", "# readme\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "build"), 0o755))
	writeSource(t, filepath.Join(dir, "build"), "gen.c", "int gen;\n")

	fa := &fakeAnalyzer{cwe: "CWE-20", snippet: "int main() {}"}
	res, err := Scan(context.Background(), baseConfig(dir, fa))
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilesScanned)
	assert.Equal(t, 1, fa.calls)
}

func TestScanExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.c", "int main() {}\n")
	writeSource(t, dir, "main_test.c", "int test;\n")

	fa := &fakeAnalyzer{cwe: "CWE-20", snippet: "x"}
	cfg := baseConfig(dir, fa)
	cfg.ExcludeGlobs = "*_test.c"

	res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
}

func TestScanExplicitFile(t *testing.T) {
	dir := t.TempDir()
	p := writeSource(t, dir, "input.cpp", "int x;\n")

	fa := &fakeAnalyzer{cwe: "CWE-20", snippet: "int x;"}
	cfg := baseConfig(dir, fa)
	cfg.Paths = []string{p}

	res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
}

func TestScanMissingPath(t *testing.T) {
	fa := &fakeAnalyzer{cwe: "CWE-20"}
	cfg := baseConfig(t.TempDir(), fa)
	cfg.Paths = []string{"/nonexistent/quell-input.c"}

	_, err := Scan(context.Background(), cfg)
	assert.Error(t, err)
}

func TestScanMaxBytes(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "big.c", string(make([]byte, 2048)))

	fa := &fakeAnalyzer{cwe: "CWE-20"}
	cfg := baseConfig(dir, fa)
	cfg.MaxBytes = 1024

	res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, res.FilesScanned)
}

func TestScanMaxFindingsTruncates(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.c", "int a;\n")
	writeSource(t, dir, "b.c", "int b;\n")
	writeSource(t, dir, "c.c", "int c;\n")

	fa := &fakeAnalyzer{cwe: "CWE-20", snippet: "x"}
	cfg := baseConfig(dir, fa)
	cfg.MaxFindings = 2

	res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, res.Findings, 2)
	assert.True(t, res.Truncated)
}

func TestScanCacheHit(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.c", "int main() {}\n")

	fa := &fakeAnalyzer{cwe: "CWE-20", snippet: "int main() {}"}
	cfg := baseConfig(dir, fa)
	cfg.NoCache = false

	_, err := Scan(context.Background(), cfg)
	require.NoError(t, err)
	res, err := Scan(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, fa.calls, "second scan should be served from cache")
	assert.Equal(t, 1, res.CacheHits)
	assert.Len(t, res.Findings, 1)
}

func TestScanRecordsTelemetry(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "log.c", `printf("%s", msg);`+"\n")

	fa := &fakeAnalyzer{cwe: "CWE-134", snippet: `printf("%s", msg);`}
	cfg := baseConfig(dir, fa)
	cfg.Collector = telemetry.NewCollector()

	_, err := Scan(context.Background(), cfg)
	require.NoError(t, err)

	snap := cfg.Collector.Snapshot()
	assert.Equal(t, 1, snap.ScansTotal)
	assert.Equal(t, 1, snap.SuppressionsTotal)
	assert.Equal(t, 1, snap.FindingsByCWE["CWE-134"])
}

func TestScanCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.c", "int main() {}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fa := &fakeAnalyzer{cwe: "CWE-20"}
	_, err := Scan(ctx, baseConfig(dir, fa))
	assert.ErrorIs(t, err, context.Canceled)
}
