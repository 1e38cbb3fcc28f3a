package domain

import (
	"testing"
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forecastStart = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

func scheduledEvent(t *testing.T, userID uuid.UUID, kind calendarDomain.EventKind, day, startHour int, hours float64) *calendarDomain.Event {
	t.Helper()
	start := forecastStart.AddDate(0, 0, day).Add(time.Duration(startHour) * time.Hour)
	event, err := calendarDomain.NewEvent(userID, string(kind), kind, start,
		start.Add(time.Duration(hours*float64(time.Hour))))
	require.NoError(t, err)
	return event
}

func TestForecaster_EmptyScheduleIsClear(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	result := forecaster.Forecast(userID, forecastStart, 3, nil)
	assert.Equal(t, IntensityClear, result.Intensity)
	assert.Contains(t, result.Summary, "clear")
	assert.NotEmpty(t, result.Recommendations)
	assert.Len(t, result.DailyLoad, 3)
}

func TestForecaster_MeetingCountAloneTriggersHigh(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	// 9 meetings but only 15 scheduled hours: the meeting count alone
	// crosses the high threshold.
	var events []*calendarDomain.Event
	for i := 0; i < 9; i++ {
		day := i % 3
		events = append(events,
			scheduledEvent(t, userID, calendarDomain.KindMeeting, day, 9+(i/3)*2, 15.0/9.0))
	}

	result := forecaster.Forecast(userID, forecastStart, 3, events)
	assert.Equal(t, IntensityHigh, result.Intensity)
	assert.Equal(t, 9, result.TotalMeetings)
	assert.InDelta(t, 15.0, result.TotalWorkHours, 1e-9)
}

func TestForecaster_HoursAloneTriggerHigh(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	// 3 meetings but 21 scheduled hours.
	events := []*calendarDomain.Event{
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 0, 9, 3),
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 1, 9, 3),
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 2, 9, 3),
		scheduledEvent(t, userID, calendarDomain.KindFocus, 0, 13, 4),
		scheduledEvent(t, userID, calendarDomain.KindFocus, 1, 13, 4),
		scheduledEvent(t, userID, calendarDomain.KindFocus, 2, 13, 4),
	}

	result := forecaster.Forecast(userID, forecastStart, 3, events)
	assert.Equal(t, IntensityHigh, result.Intensity)
	assert.InDelta(t, 21.0, result.TotalWorkHours, 1e-9)
}

func TestForecaster_ModerateWindow(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	// 6 meetings, 10 hours: over the moderate meeting threshold, under high.
	var events []*calendarDomain.Event
	for i := 0; i < 6; i++ {
		events = append(events,
			scheduledEvent(t, userID, calendarDomain.KindMeeting, i%3, 9+(i/3)*3, 10.0/6.0))
	}

	result := forecaster.Forecast(userID, forecastStart, 3, events)
	assert.Equal(t, IntensityModerate, result.Intensity)
}

func TestForecaster_BalancedWindow(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	events := []*calendarDomain.Event{
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 0, 9, 1),
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 1, 9, 1),
		scheduledEvent(t, userID, calendarDomain.KindFocus, 2, 9, 2),
	}

	result := forecaster.Forecast(userID, forecastStart, 3, events)
	assert.Equal(t, IntensityBalanced, result.Intensity)
	assert.NotEmpty(t, result.Recommendations)
}

func TestForecaster_DailyBuckets(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	events := []*calendarDomain.Event{
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 0, 9, 1),
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 0, 11, 1),
		scheduledEvent(t, userID, calendarDomain.KindBreak, 0, 12, 0.5),
		scheduledEvent(t, userID, calendarDomain.KindFocus, 2, 9, 2),
	}

	result := forecaster.Forecast(userID, forecastStart, 3, events)

	require.Len(t, result.DailyLoad, 3)
	assert.Equal(t, 3, result.DailyLoad[0].EventCount)
	assert.Equal(t, 2, result.DailyLoad[0].MeetingCount)
	assert.InDelta(t, 2.0, result.DailyLoad[0].WorkHours, 1e-9)

	assert.Zero(t, result.DailyLoad[1].EventCount)

	assert.Equal(t, 1, result.DailyLoad[2].EventCount)
	assert.Zero(t, result.DailyLoad[2].MeetingCount)
	assert.InDelta(t, 2.0, result.DailyLoad[2].WorkHours, 1e-9)
}

func TestForecaster_IgnoresEventsOutsideWindowAndOtherUsers(t *testing.T) {
	forecaster := NewForecaster()
	userID := uuid.New()

	events := []*calendarDomain.Event{
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 0, 9, 1),
		scheduledEvent(t, userID, calendarDomain.KindMeeting, 5, 9, 1),
		scheduledEvent(t, uuid.New(), calendarDomain.KindMeeting, 1, 9, 1),
	}

	result := forecaster.Forecast(userID, forecastStart, 3, events)
	assert.Equal(t, 1, result.TotalMeetings)
}
