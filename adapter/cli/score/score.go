// Package score contains the CLI commands for risk scoring.
package score

import (
	"github.com/spf13/cobra"
)

// Cmd is the root command for risk score operations.
var Cmd = &cobra.Command{
	Use:   "score",
	Short: "Burnout risk scores",
	Long: `Compute and review daily burnout risk scores.

A score runs from 0 (balanced) to 100 (severe overload) and is computed
from the day's calendar events against your configured thresholds. An
optional self-reported survey refines the result.

Examples:
  balans score compute                      # Score today
  balans score compute --date 2026-03-09    # Score a specific day
  balans score compute --mood 4 --stress 8  # Include a survey
  balans score history --days 14            # Recent score history
  balans score thresholds                   # Show your thresholds
  balans score thresholds set --max-meeting-hours 5`,
}

func init() {
	Cmd.AddCommand(computeCmd)
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(thresholdsCmd)
}
