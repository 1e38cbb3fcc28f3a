package domain

import (
	"fmt"
	"math"
	"strings"
)

// ComponentScores are the five normalized [0,1] sub-scores feeding the
// weighted risk score.
type ComponentScores struct {
	Meeting float64
	Work    float64
	Focus   float64
	Break   float64
	Sleep   float64
}

// ScoreResult carries the score together with the inputs that explain it.
// A score is never surfaced without its components.
type ScoreResult struct {
	Score           float64
	RiskLevel       RiskLevel
	Metrics         DayMetrics
	Components      ComponentScores
	Insight         string
	Recommendations []string
}

// ScoringEngine computes risk scores from daily metrics and a user's
// threshold profile. The function is deterministic and explainable; there
// is no model behind it.
type ScoringEngine struct{}

// NewScoringEngine creates a scoring engine.
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// Score combines the metrics and optional survey into a normalized 0-100
// risk score. The survey's sleep hours, when present, replace the metric
// sleep value before the sleep component is computed.
func (e *ScoringEngine) Score(metrics DayMetrics, thresholds *ThresholdProfile, survey *Survey) ScoreResult {
	if survey != nil {
		metrics.SleepHours = survey.SleepHours()
	}

	components := ComponentScores{
		Meeting: meetingComponent(metrics.MeetingHours, thresholds.MaxMeetingHours()),
		Work:    workComponent(metrics.WorkHours, thresholds.MaxWorkHours()),
		Focus:   focusComponent(metrics.FocusBlocks, thresholds.MinFocusBlocks()),
		Break:   breakComponent(metrics.BreakHours, thresholds.MinBreakHours()),
		Sleep:   sleepComponent(metrics.SleepHours, thresholds.MinSleepHours()),
	}

	weighted := components.Meeting*thresholds.WeightMeeting() +
		components.Work*thresholds.WeightWork() +
		components.Focus*thresholds.WeightFocus() +
		components.Break*thresholds.WeightBreak() +
		components.Sleep*thresholds.WeightSleep()

	if survey != nil {
		weighted += survey.Adjustment()
	}

	score := math.Round(clamp(weighted*100, 0, 100)*10) / 10

	return ScoreResult{
		Score:           score,
		RiskLevel:       RiskLevelForScore(score),
		Metrics:         metrics,
		Components:      components,
		Insight:         buildInsight(score, components),
		Recommendations: buildRecommendations(components),
	}
}

// meetingComponent is quadratic so risk accelerates near the threshold.
func meetingComponent(hours, max float64) float64 {
	ratio := hours / max
	return math.Min(1, ratio*ratio)
}

// workComponent ramps linearly to 0.5 at the threshold, then climbs to 1
// over the next 4 hours of overage.
func workComponent(hours, max float64) float64 {
	if hours <= max {
		return 0.5 * hours / max
	}
	return 0.5 + 0.5*math.Min(1, (hours-max)/4)
}

// focusComponent is zero once the minimum block count is met.
func focusComponent(blocks, min int) float64 {
	return math.Max(0, 1-float64(blocks)/float64(min))
}

// breakComponent is zero once the minimum break hours are met.
func breakComponent(hours, min float64) float64 {
	return math.Max(0, 1-hours/min)
}

// sleepComponent has three regimes: no risk at or above the minimum, a
// gentle slope down to 80% of the minimum, and a punitive regime below.
func sleepComponent(hours, min float64) float64 {
	if hours >= min {
		return 0
	}
	if hours >= 0.8*min {
		return 0.3 * (1 - hours/min)
	}
	return 0.3 + 0.7*(1-hours/(0.8*min))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func buildInsight(score float64, c ComponentScores) string {
	level := RiskLevelForScore(score)

	driver := "workload"
	max := c.Work
	if c.Meeting > max {
		driver, max = "meeting load", c.Meeting
	}
	if c.Sleep > max {
		driver, max = "sleep deficit", c.Sleep
	}
	if c.Focus > max {
		driver, max = "lack of focus time", c.Focus
	}
	if c.Break > max {
		driver = "lack of breaks"
	}

	switch level {
	case RiskLow:
		return "Your burnout risk is low. Current balance looks sustainable."
	case RiskModerate:
		return fmt.Sprintf("Your burnout risk is moderate; the main driver is %s.", driver)
	case RiskHigh:
		return fmt.Sprintf("Your burnout risk is high, driven primarily by %s.", driver)
	default:
		return fmt.Sprintf("Your burnout risk is severe. Immediate attention to %s is recommended.", driver)
	}
}

func buildRecommendations(c ComponentScores) []string {
	var recs []string
	if c.Meeting >= 0.5 {
		recs = append(recs, "Decline or shorten meetings to reclaim deep-work time.")
	}
	if c.Work >= 0.5 {
		recs = append(recs, "Cap your working hours and defer non-urgent tasks.")
	}
	if c.Focus >= 0.5 {
		recs = append(recs, "Block at least two uninterrupted focus sessions per day.")
	}
	if c.Break >= 0.5 {
		recs = append(recs, "Schedule regular breaks away from your desk.")
	}
	if c.Sleep >= 0.3 {
		recs = append(recs, "Prioritize sleep; aim for your target hours consistently.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep up your current routine; it is working.")
	}
	return recs
}

// DescribeComponents renders a compact explanation of the component scores.
func DescribeComponents(c ComponentScores) string {
	parts := []string{
		fmt.Sprintf("meeting %.2f", c.Meeting),
		fmt.Sprintf("work %.2f", c.Work),
		fmt.Sprintf("focus %.2f", c.Focus),
		fmt.Sprintf("break %.2f", c.Break),
		fmt.Sprintf("sleep %.2f", c.Sleep),
	}
	return strings.Join(parts, ", ")
}
