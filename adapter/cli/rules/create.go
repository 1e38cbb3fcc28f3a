package rules

import (
	"fmt"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/interventions/domain"
	"github.com/spf13/cobra"
)

var (
	ruleName     string
	ruleActivity string
	ruleDuration int
	ruleMethod   string
	ruleMessage  string
	rulePriority int
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an intervention rule",
	Long: `Create an activity-based intervention rule.

The activity type names what the rule watches for (idle, meeting,
typing). For idle activity, --duration sets the minimum idle minutes
before the rule fires. Higher --priority rules are evaluated first.

Examples:
  balans rules create --name "long idle" --activity idle --duration 30 \
      --method push --message "Time for a break!"
  balans rules create --name "meeting started" --activity meeting \
      --method slack --message "Heads down after this one?" --priority 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		condition := domain.Condition{
			ActivityType:    ruleActivity,
			DurationMinutes: ruleDuration,
		}

		rule, err := app.InterventionService.CreateRule(cmd.Context(), app.CurrentUserID,
			ruleName, condition, domain.Method(ruleMethod), ruleMessage, rulePriority)
		if err != nil {
			return fmt.Errorf("failed to create rule: %w", err)
		}

		fmt.Printf("Rule created: %s (%s)\n", rule.Name(), rule.ID())
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&ruleName, "name", "", "rule name (required)")
	createCmd.Flags().StringVar(&ruleActivity, "activity", "", "activity type: idle, meeting, typing (required)")
	createCmd.Flags().IntVar(&ruleDuration, "duration", 0, "minimum idle minutes before the rule fires")
	createCmd.Flags().StringVar(&ruleMethod, "method", "push", "delivery method: push, email, slack")
	createCmd.Flags().StringVar(&ruleMessage, "message", "", "message sent when the rule fires")
	createCmd.Flags().IntVar(&rulePriority, "priority", 0, "evaluation priority, higher first")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("activity")
}
