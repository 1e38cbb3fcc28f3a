package insights

import (
	"fmt"
	"strings"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/insights/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List active stress patterns",
	Long: `List stress patterns that are currently active.

Examples:
  balans insights patterns           # Active patterns
  balans insights patterns detect    # Run detection over last week
  balans insights patterns resolve <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InsightsService == nil {
			return fmt.Errorf("insights service not available")
		}

		patterns, err := app.InsightsService.ActivePatterns(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to list patterns: %w", err)
		}

		printPatterns(patterns, "No active stress patterns.")
		return nil
	},
}

var patternsDetectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run pattern detection",
	Long: `Scan the last week of scores for recurring stress patterns and
store anything new. Already-active patterns are not duplicated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InsightsService == nil {
			return fmt.Errorf("insights service not available")
		}

		patterns, err := app.InsightsService.DetectPatterns(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to detect patterns: %w", err)
		}

		if len(patterns) == 0 {
			fmt.Println("No new patterns detected.")
			return nil
		}

		fmt.Printf("Detected %d new pattern(s):\n", len(patterns))
		printPatterns(patterns, "")
		return nil
	},
}

var patternsResolveCmd = &cobra.Command{
	Use:   "resolve <pattern-id>",
	Short: "Resolve a stress pattern",
	Long: `Mark a pattern as resolved. Resolved patterns stop counting toward
alerts; if the behavior recurs, detection will raise it again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InsightsService == nil {
			return fmt.Errorf("insights service not available")
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid pattern id: %w", err)
		}

		if err := app.InsightsService.ResolvePattern(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to resolve pattern: %w", err)
		}

		fmt.Println("Pattern resolved.")
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show high-severity pattern alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InsightsService == nil {
			return fmt.Errorf("insights service not available")
		}

		alerts, err := app.InsightsService.Alerts(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}

		printPatterns(alerts, "No alerts. Nothing high-severity is active.")
		return nil
	},
}

func printPatterns(patterns []*domain.StressPattern, emptyMessage string) {
	if len(patterns) == 0 {
		if emptyMessage != "" {
			fmt.Println(emptyMessage)
		}
		return
	}

	fmt.Println(strings.Repeat("-", 60))
	for _, p := range patterns {
		fmt.Printf("  [%s] %s (%s)\n", strings.ToUpper(string(p.Severity())), p.PatternType(), p.Frequency())
		fmt.Printf("      %s\n", p.Description())
		fmt.Printf("      id: %s | detected: %s\n", p.ID(), p.DetectedAt().Format("2006-01-02"))
	}
}

func init() {
	patternsCmd.AddCommand(patternsDetectCmd)
	patternsCmd.AddCommand(patternsResolveCmd)
}
