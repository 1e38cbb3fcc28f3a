package score

import (
	"fmt"
	"strings"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/scoring/domain"
	"github.com/spf13/cobra"
)

var (
	setMaxMeetingHours float64
	setMaxWorkHours    float64
	setMinBreakHours   float64
	setMinFocusBlocks  int
	setMinSleepHours   float64
	setWeightMeeting   float64
	setWeightWork      float64
	setWeightFocus     float64
	setWeightBreak     float64
	setWeightSleep     float64
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Show scoring thresholds",
	Long: `Show the threshold profile scores are computed against.

A profile is created with defaults on first use. Use 'thresholds set'
to adjust individual limits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ScoringService == nil {
			return fmt.Errorf("scoring service not available")
		}

		profile, err := app.ScoringService.GetOrCreateThresholds(cmd.Context(), app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("failed to load thresholds: %w", err)
		}

		printProfile(profile)
		return nil
	},
}

var thresholdsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Adjust scoring thresholds",
	Long: `Adjust individual threshold limits. Only the flags you pass change;
everything else keeps its current value.

Examples:
  balans score thresholds set --max-meeting-hours 5
  balans score thresholds set --min-sleep-hours 8 --min-focus-blocks 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ScoringService == nil {
			return fmt.Errorf("scoring service not available")
		}

		patch := domain.ThresholdPatch{}
		changed := false
		if cmd.Flags().Changed("max-meeting-hours") {
			patch.MaxMeetingHours = &setMaxMeetingHours
			changed = true
		}
		if cmd.Flags().Changed("max-work-hours") {
			patch.MaxWorkHours = &setMaxWorkHours
			changed = true
		}
		if cmd.Flags().Changed("min-break-hours") {
			patch.MinBreakHours = &setMinBreakHours
			changed = true
		}
		if cmd.Flags().Changed("min-focus-blocks") {
			patch.MinFocusBlocks = &setMinFocusBlocks
			changed = true
		}
		if cmd.Flags().Changed("min-sleep-hours") {
			patch.MinSleepHours = &setMinSleepHours
			changed = true
		}
		if cmd.Flags().Changed("weight-meeting") {
			patch.WeightMeeting = &setWeightMeeting
			changed = true
		}
		if cmd.Flags().Changed("weight-work") {
			patch.WeightWork = &setWeightWork
			changed = true
		}
		if cmd.Flags().Changed("weight-focus") {
			patch.WeightFocus = &setWeightFocus
			changed = true
		}
		if cmd.Flags().Changed("weight-break") {
			patch.WeightBreak = &setWeightBreak
			changed = true
		}
		if cmd.Flags().Changed("weight-sleep") {
			patch.WeightSleep = &setWeightSleep
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to change, pass at least one threshold flag")
		}

		profile, err := app.ScoringService.UpdateThresholds(cmd.Context(), app.CurrentUserID, patch)
		if err != nil {
			return fmt.Errorf("failed to update thresholds: %w", err)
		}

		fmt.Println("Thresholds updated.")
		printProfile(profile)
		return nil
	},
}

func printProfile(profile *domain.ThresholdProfile) {
	fmt.Println()
	fmt.Println("  THRESHOLDS")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("    Max meeting hours: %.1f\n", profile.MaxMeetingHours())
	fmt.Printf("    Max work hours:    %.1f\n", profile.MaxWorkHours())
	fmt.Printf("    Min break hours:   %.1f\n", profile.MinBreakHours())
	fmt.Printf("    Min focus blocks:  %d\n", profile.MinFocusBlocks())
	fmt.Printf("    Min sleep hours:   %.1f\n", profile.MinSleepHours())
	fmt.Println()
	fmt.Println("  WEIGHTS")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("    Meeting: %.2f | Work: %.2f | Focus: %.2f | Break: %.2f | Sleep: %.2f\n",
		profile.WeightMeeting(), profile.WeightWork(),
		profile.WeightFocus(), profile.WeightBreak(), profile.WeightSleep())
	fmt.Println()
}

func init() {
	thresholdsSetCmd.Flags().Float64Var(&setMaxMeetingHours, "max-meeting-hours", 0, "meeting hours before overload")
	thresholdsSetCmd.Flags().Float64Var(&setMaxWorkHours, "max-work-hours", 0, "work hours before overload")
	thresholdsSetCmd.Flags().Float64Var(&setMinBreakHours, "min-break-hours", 0, "break hours for a balanced day")
	thresholdsSetCmd.Flags().IntVar(&setMinFocusBlocks, "min-focus-blocks", 0, "focus blocks for a balanced day")
	thresholdsSetCmd.Flags().Float64Var(&setMinSleepHours, "min-sleep-hours", 0, "sleep hours for a balanced day")
	thresholdsSetCmd.Flags().Float64Var(&setWeightMeeting, "weight-meeting", 0, "meeting component weight")
	thresholdsSetCmd.Flags().Float64Var(&setWeightWork, "weight-work", 0, "work component weight")
	thresholdsSetCmd.Flags().Float64Var(&setWeightFocus, "weight-focus", 0, "focus component weight")
	thresholdsSetCmd.Flags().Float64Var(&setWeightBreak, "weight-break", 0, "break component weight")
	thresholdsSetCmd.Flags().Float64Var(&setWeightSleep, "weight-sleep", 0, "sleep component weight")
	thresholdsCmd.AddCommand(thresholdsSetCmd)
}
