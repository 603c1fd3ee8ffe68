package quell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quellsec/quell/internal/gate"
	"github.com/quellsec/quell/internal/idioms"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List suppression rules and gate configuration",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("Rules (evaluation order):")
			for i, name := range idioms.Names() {
				fmt.Printf("  %2d. %s\n", i+1, name)
			}

			g := gate.Default()
			fmt.Printf("\nNever suppressed: %s\n", strings.Join(g.NeverSuppress(), ", "))

			thresholds, defaultMin := g.Thresholds()
			cwes := make([]string, 0, len(thresholds))
			for cwe := range thresholds {
				cwes = append(cwes, cwe)
			}
			sort.Strings(cwes)
			fmt.Println("Minimum confidence:")
			for _, cwe := range cwes {
				fmt.Printf("  %-8s %.2f\n", cwe, thresholds[cwe])
			}
			fmt.Printf("  %-8s %.2f\n", "default", defaultMin)
		},
	}
	rootCmd.AddCommand(cmd)
}
