// Package forecast contains the CLI command for load projection.
package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/spf13/cobra"
)

var forecastFrom string

// Cmd is the root command for forecast operations.
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project upcoming load",
	Long: `Project meeting and work load over the coming days from already
scheduled calendar events, and classify the window's intensity.

Examples:
  balans forecast                     # From today
  balans forecast --from 2026-03-09   # From a specific day`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ForecastService == nil {
			return fmt.Errorf("forecast service not available")
		}

		from := time.Now().UTC()
		if forecastFrom != "" {
			var err error
			from, err = time.Parse("2006-01-02", forecastFrom)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}
		}

		result, err := app.ForecastService.GetForecast(cmd.Context(), app.CurrentUserID, from)
		if err != nil {
			return fmt.Errorf("failed to compute forecast: %w", err)
		}

		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("  FORECAST: %s (%d days from %s)\n",
			result.Intensity, result.Days, result.From.Format("Mon, Jan 2"))
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("  %s\n", result.Summary)
		fmt.Println()

		fmt.Printf("  Total meetings: %d | Total work hours: %.1f\n",
			result.TotalMeetings, result.TotalWorkHours)
		fmt.Println()

		fmt.Println("  DAILY LOAD")
		fmt.Println(strings.Repeat("-", 60))
		for _, day := range result.DailyLoad {
			fmt.Printf("    %s  events: %d | meetings: %d | work: %.1fh\n",
				day.Date.Format("Mon 2006-01-02"), day.EventCount, day.MeetingCount, day.WorkHours)
		}

		if len(result.Recommendations) > 0 {
			fmt.Println()
			fmt.Println("  RECOMMENDATIONS")
			fmt.Println(strings.Repeat("-", 60))
			for _, rec := range result.Recommendations {
				fmt.Printf("    - %s\n", rec)
			}
		}
		fmt.Println()

		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&forecastFrom, "from", "", "start day (YYYY-MM-DD, default today)")
}
