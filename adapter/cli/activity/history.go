package activity

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
	Short: "Show recent interventions",
	Long: `List interventions triggered in the last N days, newest first.

Examples:
  balans activity history            # Last 7 days
  balans activity history --days 30`,
	Aliases: []string{"log"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		since := time.Now().UTC().AddDate(0, 0, -historyDays)
		interventions, err := app.InterventionService.History(cmd.Context(), app.CurrentUserID, since)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if len(interventions) == 0 {
			fmt.Println("No interventions in this window.")
			return nil
		}

		fmt.Printf("Interventions (%d):\n", len(interventions))
		fmt.Println(strings.Repeat("-", 60))
		for _, i := range interventions {
			fmt.Printf("  %s  [%s] %s\n",
				i.TriggeredAt().Format("2006-01-02 15:04"), i.Method(), i.RuleName())
			fmt.Printf("      %s\n", i.Message())
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyDays, "days", 7, "number of days to show")
}
