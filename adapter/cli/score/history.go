package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/spf13/cobra"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent score history",
	Long: `List stored risk scores for the last N days, oldest first.

Examples:
  balans score history             # Last 14 days
  balans score history --days 30   # Last 30 days`,
	Aliases: []string{"log"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ScoringService == nil {
			return fmt.Errorf("scoring service not available")
		}

		now := time.Now().UTC()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start := end.AddDate(0, 0, -historyDays+1)

		records, err := app.ScoringService.GetHistory(cmd.Context(), app.CurrentUserID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No scores recorded yet. Run 'balans score compute' first.")
			return nil
		}

		fmt.Printf("Scores (%d):\n", len(records))
		fmt.Println(strings.Repeat("-", 60))
		for _, r := range records {
			fmt.Printf("  %s  %5.1f  %-8s  %s\n",
				r.Date().Format("2006-01-02"), r.Score(), r.RiskLevel(), r.Insight())
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", 14, "number of days to show")
}
