// Package engine orchestrates a scan: it selects source files, runs the
// analyzer, applies suppression, and feeds the cache and telemetry layers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-hclog"

	"github.com/quellsec/quell/internal/cache"
	"github.com/quellsec/quell/internal/scanner"
	"github.com/quellsec/quell/internal/suppress"
	"github.com/quellsec/quell/internal/telemetry"
	"github.com/quellsec/quell/internal/types"
)

// Config controls scan behavior including scope, limits, and collaborators.
type Config struct {
	Root         string
	Paths        []string // explicit files or directories; empty means Root
	IncludeGlobs string
	ExcludeGlobs string
	MaxBytes     int64
	MaxFindings  int
	NoCache      bool
	CacheTTL     time.Duration

	Analyzer   scanner.Analyzer
	Suppressor *suppress.Engine
	Collector  *telemetry.Collector
	Logger     hclog.Logger
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	Suppressed   int
	CacheHits    int
	Truncated    bool
	Duration     time.Duration
}

// defaultExtensions are the C/C++ source suffixes scanned when no include
// globs are given.
var defaultExtensions = []string{".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".hh"}

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"out":          true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"coverage":     true,
	"bin":          true,
	"obj":          true,
}

// Scan runs the full pipeline over the configured paths.
func Scan(ctx context.Context, cfg Config) (Result, error) {
	var result Result

	if cfg.Analyzer == nil {
		return result, errors.New("no analyzer configured")
	}
	if cfg.Suppressor == nil {
		return result, errors.New("no suppression engine configured")
	}
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1 << 20
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
		db.Prune(cfg.CacheTTL)
	} else {
		db.Entries = map[string]cache.Entry{}
	}
	dirty := false

	started := time.Now()
	files, err := collectTargets(cfg)
	if err != nil {
		return result, err
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		code := string(data)
		rel := displayPath(cfg.Root, path)

		key := cache.Key(rel, code)
		if !cfg.NoCache {
			if entry, ok := db.Get(key, cfg.CacheTTL); ok {
				result.Findings = append(result.Findings, entry.Findings...)
				result.Suppressed += entry.Suppressed
				result.CacheHits++
				result.FilesScanned++
				continue
			}
		}

		scanStart := time.Now()
		findings, err := cfg.Analyzer.Analyze(ctx, rel, code)
		timedOut := errors.Is(err, context.DeadlineExceeded)
		if err != nil && !timedOut {
			log.Error("analyzer failed", "path", rel, "error", err)
			continue
		}

		suppressed := cfg.Suppressor.Apply(ctx, findings, code)

		if cfg.Collector != nil {
			cwes := make([]string, len(findings))
			for i, f := range findings {
				cwes[i] = f.CWE
			}
			cfg.Collector.RecordScan(time.Since(scanStart), cwes, suppressed, timedOut)
		}

		if !cfg.NoCache {
			db.Put(key, cache.Entry{Findings: findings, Suppressed: suppressed})
			dirty = true
		}

		result.Findings = append(result.Findings, findings...)
		result.Suppressed += suppressed
		result.FilesScanned++
	}

	if cfg.MaxFindings > 0 && len(result.Findings) > cfg.MaxFindings {
		log.Warn("truncating findings", "from", len(result.Findings), "to", cfg.MaxFindings)
		result.Findings = result.Findings[:cfg.MaxFindings]
		result.Truncated = true
	}

	if dirty {
		if err := cache.Save(cfg.Root, db); err != nil {
			log.Warn("failed to save scan cache", "error", err)
		}
	}

	result.Duration = time.Since(started)
	return result, nil
}

// collectTargets expands the configured paths into a list of source files.
func collectTargets(cfg Config) ([]string, error) {
	roots := cfg.Paths
	if len(roots) == 0 {
		roots = []string{cfg.Root}
	}

	var files []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", root, err)
		}
		if !info.IsDir() {
			// Explicit files bypass the extension filter but not the globs.
			if allowedByGlobs(displayPath(cfg.Root, root), cfg) && info.Size() <= cfg.MaxBytes {
				files = append(files, root)
			}
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if defaultExcludeDirs[d.Name()] || strings.HasPrefix(d.Name(), ".git") {
					return filepath.SkipDir
				}
				return nil
			}
			rel := displayPath(cfg.Root, p)
			if !hasSourceExtension(rel) && cfg.IncludeGlobs == "" {
				return nil
			}
			if !allowedByGlobs(rel, cfg) {
				return nil
			}
			info, _ := d.Info()
			if info != nil && info.Size() > cfg.MaxBytes {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func hasSourceExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range defaultExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func allowedByGlobs(relPath string, cfg Config) bool {
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(relPath, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(relPath, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}
