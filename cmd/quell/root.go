package quell

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagSARIF    bool
	flagFailOn   string
	flagNoColor  bool
	flagLogLevel string

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the Quell CLI.
var rootCmd = &cobra.Command{
	Use:           "quell",
	Short:         "Classify static-analysis findings as real or noise",
	Long:          "Quell runs flawfinder over C/C++ sources and suppresses findings that match known safe-usage idioms, so reviewers only see what is actionable.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the Quell CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "medium", "fail on low|medium|high|critical")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: trace|debug|info|warn|error")
}
