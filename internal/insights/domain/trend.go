// Package domain contains the insights context: score trend analysis and
// recurring stress-pattern detection.
package domain

import (
	"fmt"

	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
)

// TrendDirection classifies how a user's risk scores are moving.
type TrendDirection string

const (
	TrendRapidlyWorsening TrendDirection = "RAPIDLY_WORSENING"
	TrendWorsening        TrendDirection = "WORSENING"
	TrendStable           TrendDirection = "STABLE"
	TrendImproving        TrendDirection = "IMPROVING"
	TrendRapidlyImproving TrendDirection = "RAPIDLY_IMPROVING"

	// TrendInsufficientData is returned when fewer than MinTrendRecords
	// score records exist. It is a verdict, not an error.
	TrendInsufficientData TrendDirection = "INSUFFICIENT_DATA"
)

// MinTrendRecords is the minimum history length for a non-trivial verdict.
const MinTrendRecords = 5

// trendWindow caps each comparison slice at the most recent week.
const trendWindow = 7

const (
	meetingHoursGuideline = 4.0
	focusBlocksGuideline  = 2.0
)

// TrendResult is the outcome of analyzing a user's score history.
type TrendResult struct {
	Direction    TrendDirection
	RecentMean   float64
	PreviousMean float64
	Change       float64
	Description  string
	Suggestions  []string
	SampleSize   int
}

// TrendAnalyzer compares score history windows to classify direction.
type TrendAnalyzer struct{}

func NewTrendAnalyzer() *TrendAnalyzer { return &TrendAnalyzer{} }

// Analyze classifies the trend in a score history. Records must be ordered
// ascending by date. Fewer than MinTrendRecords records yields the fixed
// insufficient-data result with generic suggestions; histories too short
// for a full previous week are split in half and the halves compared.
func (a *TrendAnalyzer) Analyze(records []*scoringDomain.ScoreRecord) TrendResult {
	if len(records) < MinTrendRecords {
		return TrendResult{
			Direction:   TrendInsufficientData,
			Description: "Not enough score history yet to identify a trend.",
			Suggestions: []string{
				"Keep logging your days; trends appear after five scored days.",
			},
			SampleSize: len(records),
		}
	}

	recentStart := len(records) - trendWindow
	if recentStart <= 0 {
		// A short history has no prior week to compare against. Split it
		// in half so the verdict reflects movement within the window
		// instead of comparing the recent mean to an empty baseline.
		recentStart = len(records) / 2
	}
	recent := records[recentStart:]

	previousStart := recentStart - trendWindow
	if previousStart < 0 {
		previousStart = 0
	}
	previous := records[previousStart:recentStart]

	recentMean := meanScore(recent)
	previousMean := meanScore(previous)
	diff := recentMean - previousMean

	direction := classifyTrend(diff)

	return TrendResult{
		Direction:    direction,
		RecentMean:   recentMean,
		PreviousMean: previousMean,
		Change:       diff,
		Description:  describeTrend(direction, diff),
		Suggestions:  deriveSuggestions(records),
		SampleSize:   len(records),
	}
}

func classifyTrend(diff float64) TrendDirection {
	switch {
	case diff >= 10:
		return TrendRapidlyWorsening
	case diff >= 5:
		return TrendWorsening
	case diff <= -10:
		return TrendRapidlyImproving
	case diff <= -5:
		return TrendImproving
	default:
		return TrendStable
	}
}

func describeTrend(direction TrendDirection, diff float64) string {
	switch direction {
	case TrendRapidlyWorsening:
		return fmt.Sprintf("Your burnout risk is rising quickly (up %.1f points week over week).", diff)
	case TrendWorsening:
		return fmt.Sprintf("Your burnout risk is trending upward (up %.1f points week over week).", diff)
	case TrendRapidlyImproving:
		return fmt.Sprintf("Your burnout risk is dropping quickly (down %.1f points week over week).", -diff)
	case TrendImproving:
		return fmt.Sprintf("Your burnout risk is trending downward (down %.1f points week over week).", -diff)
	default:
		return "Your burnout risk is holding steady."
	}
}

// deriveSuggestions compares full-window averages against fixed guidelines.
// These checks are independent of the trend classification.
func deriveSuggestions(records []*scoringDomain.ScoreRecord) []string {
	var meetingHours, focusBlocks float64
	for _, r := range records {
		meetingHours += r.Metrics().MeetingHours
		focusBlocks += float64(r.Metrics().FocusBlocks)
	}
	n := float64(len(records))

	var suggestions []string
	if meetingHours/n > meetingHoursGuideline {
		suggestions = append(suggestions,
			"Your average meeting load exceeds 4 hours a day. Decline or shorten recurring meetings where you can.")
	}
	if focusBlocks/n < focusBlocksGuideline {
		suggestions = append(suggestions,
			"You average fewer than 2 focus blocks a day. Reserve uninterrupted time for deep work.")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Your schedule looks sustainable. Keep protecting breaks and focus time.")
	}
	return suggestions
}

func meanScore(records []*scoringDomain.ScoreRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += r.Score()
	}
	return sum / float64(len(records))
}
