package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/internal/scoring/domain"
	"github.com/spf13/cobra"
)

var (
	computeDate  string
	surveyMood   int
	surveyStress int
	surveyEnergy int
	surveySleep  float64
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a day's risk score",
	Long: `Compute or recompute the burnout risk score for a day.

Scoring pulls the day's calendar events, extracts meeting, work, focus,
break, and sleep metrics, and weighs each against your thresholds.
Recomputing a day updates the stored record in place.

Survey flags are optional; when any of --mood, --stress, or --energy is
given, all three are required. --sleep overrides the metric sleep value.

Examples:
  balans score compute                                 # Score today
  balans score compute --date 2026-03-09               # Score a specific day
  balans score compute --mood 4 --stress 8 --energy 3  # Include a survey`,
	Aliases: []string{"run"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ScoringService == nil {
			return fmt.Errorf("scoring service not available")
		}

		// Parse date if provided, otherwise use today
		date := time.Now().UTC()
		if computeDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", computeDate)
			if err != nil {
				return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
			}
		}

		survey, err := surveyFromFlags(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("\n  Scoring %s...\n", date.Format("Mon, Jan 2, 2006"))

		result, err := app.ScoringService.ComputeAndStore(cmd.Context(), app.CurrentUserID, date, survey)
		if err != nil {
			return fmt.Errorf("failed to compute score: %w", err)
		}

		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("  RISK SCORE: %.1f (%s)\n", result.Score, result.RiskLevel)
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("  %s\n", result.Insight)
		fmt.Println()

		fmt.Println("  DAY METRICS")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("    Meetings: %.1fh | Work: %.1fh | Breaks: %.1fh\n",
			result.Metrics.MeetingHours, result.Metrics.WorkHours, result.Metrics.BreakHours)
		fmt.Printf("    Focus blocks: %d | Sleep: %.1fh\n",
			result.Metrics.FocusBlocks, result.Metrics.SleepHours)
		fmt.Println()

		fmt.Println("  COMPONENTS")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("    Meeting: %.2f | Work: %.2f | Focus: %.2f | Break: %.2f | Sleep: %.2f\n",
			result.Components.Meeting, result.Components.Work,
			result.Components.Focus, result.Components.Break, result.Components.Sleep)

		if len(result.Recommendations) > 0 {
			fmt.Println()
			fmt.Println("  RECOMMENDATIONS")
			fmt.Println(strings.Repeat("-", 60))
			for _, rec := range result.Recommendations {
				fmt.Printf("    - %s\n", rec)
			}
		}
		fmt.Println()

		return nil
	},
}

// surveyFromFlags builds a survey when any survey flag was set.
func surveyFromFlags(cmd *cobra.Command) (*domain.Survey, error) {
	moodSet := cmd.Flags().Changed("mood")
	stressSet := cmd.Flags().Changed("stress")
	energySet := cmd.Flags().Changed("energy")
	sleepSet := cmd.Flags().Changed("sleep")

	if !moodSet && !stressSet && !energySet && !sleepSet {
		return nil, nil
	}
	if !moodSet || !stressSet || !energySet {
		return nil, fmt.Errorf("survey requires --mood, --stress, and --energy together")
	}

	survey, err := domain.NewSurvey(surveyMood, surveyStress, surveyEnergy, surveySleep)
	if err != nil {
		return nil, fmt.Errorf("invalid survey: %w", err)
	}
	return survey, nil
}

func init() {
	computeCmd.Flags().StringVar(&computeDate, "date", "", "day to score (YYYY-MM-DD, default today)")
	computeCmd.Flags().IntVar(&surveyMood, "mood", 0, "self-reported mood, 1-10")
	computeCmd.Flags().IntVar(&surveyStress, "stress", 0, "self-reported stress, 1-10")
	computeCmd.Flags().IntVar(&surveyEnergy, "energy", 0, "self-reported energy, 1-10")
	computeCmd.Flags().Float64Var(&surveySleep, "sleep", 0, "hours slept, overrides metric sleep")
}
