// Package insights contains the CLI commands for trends and stress patterns.
package insights

import (
	"github.com/spf13/cobra"
)

// Cmd is the root command for insight operations.
var Cmd = &cobra.Command{
	Use:   "insights",
	Short: "Trends and stress patterns",
	Long: `Analyze score history for trends and recurring stress patterns.

The insight system provides:
- Trend direction over the last two weeks of scores
- Detection of chronic overwork, meeting overload, and sleep debt
- Alerts for active high-severity patterns

Examples:
  balans insights trends           # Trend over recent scores
  balans insights patterns detect  # Run pattern detection
  balans insights patterns         # List active patterns
  balans insights alerts           # High-severity patterns only`,
}

func init() {
	Cmd.AddCommand(trendsCmd)
	Cmd.AddCommand(patternsCmd)
	Cmd.AddCommand(alertsCmd)
}
