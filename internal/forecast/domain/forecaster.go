// Package domain contains the forecast context: near-term workload
// projection from already-scheduled events.
package domain

import (
	"fmt"
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	"github.com/google/uuid"
)

// Intensity classifies the projected load of a forecast window.
type Intensity string

const (
	IntensityHigh     Intensity = "HIGH"
	IntensityModerate Intensity = "MODERATE"
	IntensityBalanced Intensity = "BALANCED"

	// IntensityClear means no events are scheduled in the window. It is a
	// distinct verdict, not a zero-valued balanced one.
	IntensityClear Intensity = "CLEAR"
)

// DefaultForecastDays is the standard projection window.
const DefaultForecastDays = 3

// Aggregate classification thresholds for the whole window.
const (
	highMeetingCount     = 8
	highWorkHours        = 20.0
	moderateMeetingCount = 5
	moderateWorkHours    = 12.0
)

// DayForecast summarizes one calendar day inside the window.
type DayForecast struct {
	Date         time.Time
	EventCount   int
	MeetingCount int
	WorkHours    float64
}

// ForecastResult is the projection over the whole window.
type ForecastResult struct {
	UserID          uuid.UUID
	From            time.Time
	Days            int
	DailyLoad       []DayForecast
	TotalMeetings   int
	TotalWorkHours  float64
	Intensity       Intensity
	Summary         string
	Recommendations []string
}

// Forecaster projects near-term load from scheduled events. It looks only
// at the schedule; historical scores never influence the forecast.
type Forecaster struct{}

func NewForecaster() *Forecaster { return &Forecaster{} }

// Forecast buckets the events by calendar day and classifies the window.
// Events are expected to lie in [from, from+days); events outside are
// ignored. An empty schedule yields the clear verdict.
func (f *Forecaster) Forecast(userID uuid.UUID, from time.Time, days int, events []*calendarDomain.Event) ForecastResult {
	if days <= 0 {
		days = DefaultForecastDays
	}
	windowStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	daily := make([]DayForecast, days)
	for i := range daily {
		daily[i].Date = windowStart.AddDate(0, 0, i)
	}

	var totalMeetings int
	var totalHours float64
	var totalEvents int
	for _, event := range events {
		if event.UserID() != userID {
			continue
		}
		bucket := int(event.StartTime().Sub(windowStart).Hours() / 24)
		if bucket < 0 || bucket >= days {
			continue
		}

		daily[bucket].EventCount++
		totalEvents++
		switch event.Kind() {
		case calendarDomain.KindMeeting:
			daily[bucket].MeetingCount++
			daily[bucket].WorkHours += event.Hours()
			totalMeetings++
			totalHours += event.Hours()
		case calendarDomain.KindFocus:
			daily[bucket].WorkHours += event.Hours()
			totalHours += event.Hours()
		}
	}

	result := ForecastResult{
		UserID:         userID,
		From:           windowStart,
		Days:           days,
		DailyLoad:      daily,
		TotalMeetings:  totalMeetings,
		TotalWorkHours: totalHours,
	}

	if totalEvents == 0 {
		result.Intensity = IntensityClear
		result.Summary = "Your schedule is clear for the next few days."
		result.Recommendations = []string{
			"Use the open time for deep work or recovery before new commitments land.",
		}
		return result
	}

	switch {
	case totalMeetings > highMeetingCount || totalHours > highWorkHours:
		result.Intensity = IntensityHigh
		result.Summary = fmt.Sprintf(
			"Heavy stretch ahead: %d meetings and %.1f scheduled hours over %d days.",
			totalMeetings, totalHours, days)
		result.Recommendations = []string{
			"Decline or delegate meetings that do not need you.",
			"Block recovery time between dense meeting runs.",
			"Move non-urgent work out of this window.",
		}
	case totalMeetings > moderateMeetingCount || totalHours > moderateWorkHours:
		result.Intensity = IntensityModerate
		result.Summary = fmt.Sprintf(
			"Busy but manageable: %d meetings and %.1f scheduled hours over %d days.",
			totalMeetings, totalHours, days)
		result.Recommendations = []string{
			"Protect at least one focus block per day.",
			"Keep breaks on the calendar so they survive rescheduling.",
		}
	default:
		result.Intensity = IntensityBalanced
		result.Summary = fmt.Sprintf(
			"Balanced load: %d meetings and %.1f scheduled hours over %d days.",
			totalMeetings, totalHours, days)
		result.Recommendations = []string{
			"Load looks sustainable. Keep the current mix of meetings and focus time.",
		}
	}
	return result
}
