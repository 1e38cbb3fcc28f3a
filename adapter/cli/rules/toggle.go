package rules

import (
	"fmt"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var activateCmd = &cobra.Command{
	Use:   "activate <rule-id>",
	Short: "Re-enable a rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid rule id: %w", err)
		}

		if err := app.InterventionService.ActivateRule(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to activate rule: %w", err)
		}

		fmt.Println("Rule activated.")
		return nil
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <rule-id>",
	Short: "Disable a rule",
	Long: `Disable a rule without deleting it. Disabled rules are skipped
during evaluation and can be re-enabled with 'rules activate'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid rule id: %w", err)
		}

		if err := app.InterventionService.DeactivateRule(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to deactivate rule: %w", err)
		}

		fmt.Println("Rule deactivated.")
		return nil
	},
}
