package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/spf13/cobra"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's events",
	Long: `List recorded calendar events for a day.

Examples:
  balans events list                     # Today
  balans events list --date 2026-03-09   # A specific day`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.EventRepo == nil {
			return fmt.Errorf("event store not available")
		}

		day := time.Now().UTC()
		if listDate != "" {
			var err error
			day, err = time.Parse("2006-01-02", listDate)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}
		}
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		dayEnd := dayStart.AddDate(0, 0, 1)

		events, err := app.EventRepo.FindByUserInRange(cmd.Context(), app.CurrentUserID, dayStart, dayEnd)
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if len(events) == 0 {
			fmt.Printf("No events on %s.\n", dayStart.Format("2006-01-02"))
			return nil
		}

		fmt.Printf("Events on %s (%d):\n", dayStart.Format("2006-01-02"), len(events))
		fmt.Println(strings.Repeat("-", 60))
		for _, e := range events {
			fmt.Printf("  %s - %s  [%-7s] %s\n",
				e.StartTime().Format("15:04"), e.EndTime().Format("15:04"), e.Kind(), e.Title())
		}

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "day to list (YYYY-MM-DD, default today)")
}
