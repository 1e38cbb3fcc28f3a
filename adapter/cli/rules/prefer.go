package rules

import (
	"fmt"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/interventions/domain"
	"github.com/spf13/cobra"
)

var preferCmd = &cobra.Command{
	Use:   "prefer <method>",
	Short: "Set the preferred delivery method",
	Long: `Set the delivery method used for all interventions, overriding the
method configured on each rule. One of: push, email, slack.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InterventionService == nil {
			return fmt.Errorf("intervention service not available")
		}

		method := domain.Method(args[0])
		if err := app.InterventionService.SetPreferredMethod(cmd.Context(), app.CurrentUserID, method); err != nil {
			return fmt.Errorf("failed to set preferred method: %w", err)
		}

		fmt.Printf("Preferred method set to %s.\n", method)
		return nil
	},
}
