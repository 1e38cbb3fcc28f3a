package activity

import (
	"fmt"
	"time"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/spf13/cobra"
)

var (
	reportType     string
	reportDuration int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report an activity event",
	Long: `Report an activity event for immediate rule evaluation.

For idle activity, --duration is the idle time in minutes and is
matched against each rule's minimum.

Examples:
  balans activity report --type idle --duration 45
  balans activity report --type meeting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		intervention, err := app.InterventionService.OnActivity(cmd.Context(), app.CurrentUserID,
			reportType, time.Now().UTC(), reportDuration)
		if err != nil {
			return fmt.Errorf("failed to evaluate activity: %w", err)
		}

		if intervention == nil {
			fmt.Println("No rule matched.")
			return nil
		}

		fmt.Printf("Intervention triggered by rule %q via %s:\n", intervention.RuleName(), intervention.Method())
		fmt.Printf("  %s\n", intervention.Message())
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportType, "type", "", "activity type: idle, meeting, typing (required)")
	reportCmd.Flags().IntVar(&reportDuration, "duration", 0, "duration in minutes (idle activity)")
	reportCmd.MarkFlagRequired("type")
}
