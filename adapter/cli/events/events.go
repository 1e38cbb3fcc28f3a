// Package events contains the CLI commands for calendar events.
package events

import (
	"github.com/spf13/cobra"
)

// Cmd is the root command for calendar event operations.
var Cmd = &cobra.Command{
	Use:   "events",
	Short: "Calendar events",
	Long: `Record and list the calendar events scoring and forecasting read.

In local mode events are recorded directly; in server mode they
normally arrive through calendar sync.

Examples:
  balans events add --title "standup" --kind meeting \
      --start "2026-03-09 10:00" --end "2026-03-09 10:30"
  balans events list --date 2026-03-09`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
}
