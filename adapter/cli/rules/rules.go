// Package rules contains the CLI commands for intervention rules.
package rules

import (
	"github.com/spf13/cobra"
)

// Cmd is the root command for intervention rule operations.
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Intervention rules",
	Long: `Manage the rules that trigger interventions from activity events.

Rules are activity based: each one names an activity type and, for idle
activity, a minimum duration. When an activity report matches a rule,
an intervention fires through your preferred delivery channel.

Examples:
  balans rules create --name "long idle" --activity idle --duration 30 \
      --method push --message "Time for a break!"
  balans rules list
  balans rules deactivate <id>
  balans rules prefer slack`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activateCmd)
	Cmd.AddCommand(deactivateCmd)
	Cmd.AddCommand(preferCmd)
}
