package domain

import (
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	"github.com/google/uuid"
)

// DefaultSleepHours is assumed when no survey supplies sleep data.
// Sleep is not derivable from calendar events.
const DefaultSleepHours = 7.0

// DayMetrics holds the five scalar metrics extracted for one calendar day.
type DayMetrics struct {
	MeetingHours float64
	WorkHours    float64
	FocusBlocks  int
	BreakHours   float64
	SleepHours   float64
}

// MetricsExtractor turns a day's calendar events into DayMetrics.
type MetricsExtractor struct {
	businessHoursStart int
	businessHoursEnd   int
}

// NewMetricsExtractor creates an extractor with the given business-hours
// window. Events of unknown kind count toward work hours only when they
// start within [start, end] (hours of day, inclusive).
func NewMetricsExtractor(businessHoursStart, businessHoursEnd int) *MetricsExtractor {
	return &MetricsExtractor{
		businessHoursStart: businessHoursStart,
		businessHoursEnd:   businessHoursEnd,
	}
}

// Extract computes the day's metrics from the user's events. An empty event
// set yields zero metrics. Sleep defaults to DefaultSleepHours.
func (m *MetricsExtractor) Extract(userID uuid.UUID, date time.Time, events []*calendarDomain.Event) DayMetrics {
	metrics := DayMetrics{SleepHours: DefaultSleepHours}

	for _, event := range events {
		if event.UserID() != userID {
			continue
		}

		hours := event.Hours()
		switch event.Kind() {
		case calendarDomain.KindMeeting:
			metrics.MeetingHours += hours
			metrics.WorkHours += hours
		case calendarDomain.KindFocus:
			metrics.FocusBlocks++
			metrics.WorkHours += hours
		case calendarDomain.KindBreak:
			metrics.BreakHours += hours
		default:
			if m.inBusinessHours(event.StartTime()) {
				metrics.WorkHours += hours
			}
		}
	}

	return metrics
}

func (m *MetricsExtractor) inBusinessHours(t time.Time) bool {
	hour := t.Hour()
	return hour >= m.businessHoursStart && hour <= m.businessHoursEnd
}
