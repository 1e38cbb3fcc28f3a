package events

import (
	"fmt"
	"time"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/calendar/domain"
	"github.com/spf13/cobra"
)

var (
	addTitle string
	addKind  string
	addStart string
	addEnd   string
)

const timeLayout = "2006-01-02 15:04"

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a calendar event",
	Long: `Record a calendar event. Kind is one of meeting, focus, break, or
other; it drives how metrics extraction classifies the time.

Times are interpreted as UTC.

Examples:
  balans events add --title "standup" --kind meeting \
      --start "2026-03-09 10:00" --end "2026-03-09 10:30"
  balans events add --title "deep work" --kind focus \
      --start "2026-03-09 13:00" --end "2026-03-09 15:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.EventRepo == nil {
			return fmt.Errorf("event store not available")
		}

		start, err := time.ParseInLocation(timeLayout, addStart, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --start (use \"YYYY-MM-DD HH:MM\"): %w", err)
		}
		end, err := time.ParseInLocation(timeLayout, addEnd, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid --end (use \"YYYY-MM-DD HH:MM\"): %w", err)
		}

		event, err := domain.NewEvent(app.CurrentUserID, addTitle, domain.EventKind(addKind), start, end)
		if err != nil {
			return fmt.Errorf("invalid event: %w", err)
		}

		if err := app.EventRepo.Save(cmd.Context(), event); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}

		fmt.Printf("Event recorded: %s (%s, %s - %s)\n",
			event.Title(), event.Kind(),
			event.StartTime().Format(timeLayout), event.EndTime().Format("15:04"))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "event title (required)")
	addCmd.Flags().StringVar(&addKind, "kind", "", "event kind: meeting, focus, break, other (required)")
	addCmd.Flags().StringVar(&addStart, "start", "", "start time, \"YYYY-MM-DD HH:MM\" (required)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time, \"YYYY-MM-DD HH:MM\" (required)")
	addCmd.MarkFlagRequired("title")
	addCmd.MarkFlagRequired("kind")
	addCmd.MarkFlagRequired("start")
	addCmd.MarkFlagRequired("end")
}
