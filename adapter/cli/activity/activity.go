// Package activity contains the CLI commands for activity reporting.
package activity

import (
	"github.com/spf13/cobra"
)

// Cmd is the root command for activity operations.
var Cmd = &cobra.Command{
	Use:   "activity",
	Short: "Report activity and review interventions",
	Long: `Report activity events and review the interventions they triggered.

Activity reports are evaluated against your intervention rules
immediately; a matching rule fires an intervention.

Examples:
  balans activity report --type idle --duration 45
  balans activity history --days 7`,
}

func init() {
	Cmd.AddCommand(reportCmd)
	Cmd.AddCommand(historyCmd)
}
