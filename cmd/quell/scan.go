package quell

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/quellsec/quell/internal/config"
	"github.com/quellsec/quell/internal/engine"
	"github.com/quellsec/quell/internal/gate"
	"github.com/quellsec/quell/internal/idioms"
	"github.com/quellsec/quell/internal/logging"
	"github.com/quellsec/quell/internal/report"
	"github.com/quellsec/quell/internal/scanner/flawfinder"
	"github.com/quellsec/quell/internal/suppress"
	"github.com/quellsec/quell/internal/telemetry"
	"github.com/quellsec/quell/internal/types"
)

var (
	flagInclude        string
	flagExclude        string
	flagMaxBytes       int64
	flagMaxFindings    int
	flagNoCache        bool
	flagCacheTTL       time.Duration
	flagSnippets       bool
	flagShowSuppressed bool
	flagBaseline       string
	flagUpdateBaseline bool
	flagFFBinary       string
	flagFFTimeout      int
	flagFFMinRisk      int
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan C/C++ sources and suppress known-safe findings",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().IntVar(&flagMaxFindings, "max-findings", 500, "truncate output beyond this many findings")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "disable the scan result cache")
	cmd.Flags().DurationVar(&flagCacheTTL, "cache-ttl", 0, "cache entry lifetime (default 2m)")
	cmd.Flags().BoolVar(&flagSnippets, "snippets", false, "print highlighted snippets under the table")
	cmd.Flags().BoolVar(&flagShowSuppressed, "show-suppressed", false, "include suppressed findings in the table")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "quell.baseline.json", "baseline file for new-finding filtering")
	cmd.Flags().BoolVar(&flagUpdateBaseline, "update-baseline", false, "write the scan result to the baseline file")
	cmd.Flags().StringVar(&flagFFBinary, "flawfinder-binary", "", "explicit path to the flawfinder binary")
	cmd.Flags().IntVar(&flagFFTimeout, "timeout", 0, "flawfinder timeout per file in seconds")
	cmd.Flags().IntVar(&flagFFMinRisk, "min-risk", 0, "drop flawfinder findings below this risk level (0-5)")
}

func runScan(_ *cobra.Command, args []string) error {
	root, _ := filepath.Abs(".")
	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	}

	log := logging.NewLogger("quell", pickString(flagLogLevel, lcfg.LogLevel, gcfg.LogLevel))

	analyzer, err := flawfinder.NewAnalyzer(mergeFlawfinderConfig(lcfg, gcfg))
	if err != nil {
		return err
	}

	g := buildGate(lcfg, gcfg)
	suppressor := suppress.New(g, idioms.All(), log)
	collector := telemetry.NewCollector()

	cacheTTL := flagCacheTTL
	if cacheTTL == 0 {
		if ttl := pickInt(0, lcfg.CacheTTL, gcfg.CacheTTL); ttl > 0 {
			cacheTTL = time.Duration(ttl) * time.Second
		}
	}

	cfg := engine.Config{
		Root:         root,
		Paths:        args,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:     pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		MaxFindings:  pickInt(flagMaxFindings, lcfg.MaxFindings, gcfg.MaxFindings),
		NoCache:      flagNoCache,
		CacheTTL:     cacheTTL,
		Analyzer:     analyzer,
		Suppressor:   suppressor,
		Collector:    collector,
		Logger:       log,
	}

	if !flagJSON && !flagSARIF {
		_, _ = fmt.Fprintf(os.Stderr, "Scanning with %d suppression rules...\n", len(idioms.Names()))
	}

	res, err := engine.Scan(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}

	if flagUpdateBaseline {
		if err := report.SaveBaseline(flagBaseline, res.Findings); err != nil {
			return fmt.Errorf("baseline error: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stderr, "Baseline updated.")
	}

	baseline, _ := report.LoadBaseline(flagBaseline)
	newFindings := report.FilterNewFindings(res.Findings, baseline)
	if newFindings == nil {
		newFindings = []types.Finding{}
	} // no `null` in JSON

	summary := report.Summarize(res.Findings)
	if level := baseline.DriftLevel(summary.SuppressionRate()); level != "" && len(baseline.Items) > 0 {
		log.Warn("suppression rate drifted from baseline",
			"level", level,
			"current", fmt.Sprintf("%.2f", summary.SuppressionRate()),
			"baseline", fmt.Sprintf("%.2f", baseline.SuppressionRate))
	}
	for _, alert := range collector.Alerts() {
		log.Warn("telemetry alert", "level", alert.Level, "message", alert.Message)
	}

	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, newFindings, version); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newFindings); err != nil {
			return err
		}
	default:
		report.PrintTable(os.Stdout, newFindings, report.PrintOptions{
			NoColor:        pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor),
			ShowSuppressed: flagShowSuppressed,
			Snippets:       flagSnippets,
			Duration:       res.Duration,
			FilesScanned:   res.FilesScanned,
		})
	}

	if report.ShouldFail(newFindings, flagFailOn) {
		os.Exit(1)
	}
	return nil
}

func buildGate(lcfg, gcfg config.FileConfig) *gate.Gate {
	never := lcfg.NeverSuppressFunctions
	if len(never) == 0 {
		never = gcfg.NeverSuppressFunctions
	}
	thresholds := lcfg.StrictMinThresholds
	if thresholds == nil {
		thresholds = gcfg.StrictMinThresholds
	}
	defaultMin := pickFloat(0, lcfg.DefaultMinThreshold, gcfg.DefaultMinThreshold)
	return gate.New(never, thresholds, defaultMin)
}

func mergeFlawfinderConfig(lcfg, gcfg config.FileConfig) config.FlawfinderConfig {
	ff := gcfg.GetFlawfinderConfig()
	if lcfg.Flawfinder != nil {
		ff = lcfg.GetFlawfinderConfig()
	}
	if flagFFBinary != "" {
		ff.BinaryPath = &flagFFBinary
	}
	if flagFFTimeout > 0 {
		ff.Timeout = &flagFFTimeout
	}
	if flagFFMinRisk > 0 {
		ff.MinRisk = &flagFFMinRisk
	}
	return ff
}
