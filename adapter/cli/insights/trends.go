package insights

import (
	"fmt"
	"strings"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/insights/domain"
	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show the score trend",
	Long: `Compare recent scores against the preceding week and report the
direction of change, with suggestions based on your averages.

At least five recorded scores are needed for a verdict.`,
	Aliases: []string{"trend"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InsightsService == nil {
			return fmt.Errorf("insights service not available")
		}

		trend, err := app.InsightsService.GetInsights(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to analyze trend: %w", err)
		}

		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("  TREND: %s\n", trend.Direction)
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("  %s\n", trend.Description)
		fmt.Println()

		if trend.Direction != domain.TrendInsufficientData {
			fmt.Printf("  Recent mean:   %.1f\n", trend.RecentMean)
			fmt.Printf("  Previous mean: %.1f\n", trend.PreviousMean)
			fmt.Printf("  Change:        %+.1f over %d records\n", trend.Change, trend.SampleSize)
		}

		if len(trend.Suggestions) > 0 {
			fmt.Println()
			fmt.Println("  SUGGESTIONS")
			fmt.Println(strings.Repeat("-", 60))
			for _, s := range trend.Suggestions {
				fmt.Printf("    - %s\n", s)
			}
		}
		fmt.Println()

		return nil
	},
}
