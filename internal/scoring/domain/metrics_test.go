package domain

import (
	"testing"
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkEvent(t *testing.T, userID uuid.UUID, kind calendarDomain.EventKind, start time.Time, hours float64) *calendarDomain.Event {
	t.Helper()
	event, err := calendarDomain.NewEvent(userID, string(kind), kind, start, start.Add(time.Duration(hours*float64(time.Hour))))
	require.NoError(t, err)
	return event
}

func TestMetricsExtractor_Classification(t *testing.T) {
	extractor := NewMetricsExtractor(9, 17)
	userID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	events := []*calendarDomain.Event{
		mkEvent(t, userID, calendarDomain.KindMeeting, day.Add(9*time.Hour), 1.5),
		mkEvent(t, userID, calendarDomain.KindMeeting, day.Add(14*time.Hour), 1),
		mkEvent(t, userID, calendarDomain.KindFocus, day.Add(10*time.Hour), 2),
		mkEvent(t, userID, calendarDomain.KindBreak, day.Add(12*time.Hour), 0.75),
	}

	metrics := extractor.Extract(userID, day, events)

	assert.InDelta(t, 2.5, metrics.MeetingHours, 1e-9)
	// Meetings and focus both count toward work hours; breaks do not.
	assert.InDelta(t, 4.5, metrics.WorkHours, 1e-9)
	assert.Equal(t, 1, metrics.FocusBlocks)
	assert.InDelta(t, 0.75, metrics.BreakHours, 1e-9)
	assert.InDelta(t, DefaultSleepHours, metrics.SleepHours, 1e-9)
}

func TestMetricsExtractor_OtherKindBusinessHoursWindow(t *testing.T) {
	extractor := NewMetricsExtractor(9, 17)
	userID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	inside := mkEvent(t, userID, calendarDomain.KindOther, day.Add(10*time.Hour), 1)
	boundary := mkEvent(t, userID, calendarDomain.KindOther, day.Add(17*time.Hour), 1)
	outside := mkEvent(t, userID, calendarDomain.KindOther, day.Add(19*time.Hour), 2)

	metrics := extractor.Extract(userID, day, []*calendarDomain.Event{inside, boundary, outside})

	// 17:00 start is inclusive; 19:00 is excluded.
	assert.InDelta(t, 2.0, metrics.WorkHours, 1e-9)
	assert.Zero(t, metrics.MeetingHours)
	assert.Zero(t, metrics.FocusBlocks)
}

func TestMetricsExtractor_EmptyEvents(t *testing.T) {
	extractor := NewMetricsExtractor(9, 17)

	metrics := extractor.Extract(uuid.New(), time.Now(), nil)

	assert.Zero(t, metrics.MeetingHours)
	assert.Zero(t, metrics.WorkHours)
	assert.Zero(t, metrics.FocusBlocks)
	assert.Zero(t, metrics.BreakHours)
	assert.InDelta(t, DefaultSleepHours, metrics.SleepHours, 1e-9)
}

func TestMetricsExtractor_IgnoresOtherUsers(t *testing.T) {
	extractor := NewMetricsExtractor(9, 17)
	userID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	foreign := mkEvent(t, uuid.New(), calendarDomain.KindMeeting, day.Add(9*time.Hour), 2)
	metrics := extractor.Extract(userID, day, []*calendarDomain.Event{foreign})

	assert.Zero(t, metrics.MeetingHours)
}
