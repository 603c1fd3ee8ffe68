package quell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quellsec/quell/internal/config"
	"github.com/quellsec/quell/internal/engine"
	"github.com/quellsec/quell/internal/idioms"
	"github.com/quellsec/quell/internal/logging"
	"github.com/quellsec/quell/internal/report"
	"github.com/quellsec/quell/internal/scanner/flawfinder"
	"github.com/quellsec/quell/internal/suppress"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update [paths...]",
		Short: "Update baseline from current scan",
		RunE: func(_ *cobra.Command, args []string) error {
			root, _ := filepath.Abs(".")
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

			cfg := engine.Config{
				Root:       root,
				Paths:      args,
				Analyzer:   analyzer,
				Suppressor: suppress.New(buildGate(lcfg, gcfg), idioms.All(), log),
				Logger:     log,
			}
			res, err := engine.Scan(context.Background(), cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline("quell.baseline.json", res.Findings); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "Baseline updated.")
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
