package rules

import (
	"fmt"
	"strings"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/interventions/domain"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List intervention rules",
	Long: `List all of your intervention rules in evaluation order.

Inactive rules are shown but skipped during evaluation.`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		rules, err := app.InterventionService.ListRules(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}

		if len(rules) == 0 {
			fmt.Println("No rules yet. Create one with 'balans rules create'.")
			return nil
		}

		fmt.Printf("Rules (%d):\n", len(rules))
		fmt.Println(strings.Repeat("-", 60))
		for _, r := range rules {
			state := "active"
			if !r.IsActive() {
				state = "inactive"
			}
			condition := r.Condition().ActivityType
			if r.Condition().ActivityType == domain.ActivityIdle && r.Condition().DurationMinutes > 0 {
				condition = fmt.Sprintf("%s >= %dm", condition, r.Condition().DurationMinutes)
			}
			fmt.Printf("  [%s] %s (priority %d)\n", state, r.Name(), r.Priority())
			fmt.Printf("      when: %s | via: %s\n", condition, r.Method())
			fmt.Printf("      id: %s\n", r.ID())
		}

		return nil
	},
}
