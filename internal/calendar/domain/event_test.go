package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	event, err := NewEvent(userID, "Sprint planning", KindMeeting, start, end)
	require.NoError(t, err)

	assert.Equal(t, userID, event.UserID())
	assert.Equal(t, "Sprint planning", event.Title())
	assert.Equal(t, KindMeeting, event.Kind())
	assert.Equal(t, 1.0, event.Hours())
	assert.NotEqual(t, uuid.Nil, event.ID())
}

func TestNewEvent_InvalidTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	_, err := NewEvent(uuid.New(), "Backwards", KindMeeting, start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewEvent(uuid.New(), "Zero length", KindMeeting, start, start)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestNewEvent_InvalidKind(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	_, err := NewEvent(uuid.New(), "Mystery", EventKind("party"), start, start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidEventKind)
}

func TestEvent_Overlaps(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	event, err := NewEvent(uuid.New(), "Standup", KindMeeting, start, start.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, event.Overlaps(start.Add(-time.Hour), start.Add(30*time.Minute)))
	assert.True(t, event.Overlaps(start.Add(30*time.Minute), start.Add(2*time.Hour)))
	assert.False(t, event.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, event.Overlaps(start.Add(-2*time.Hour), start))
}

func TestEvent_Reschedule(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	event, err := NewEvent(uuid.New(), "1:1", KindMeeting, start, start.Add(time.Hour))
	require.NoError(t, err)

	newStart := start.Add(24 * time.Hour)
	require.NoError(t, event.Reschedule(newStart, newStart.Add(30*time.Minute)))
	assert.Equal(t, newStart, event.StartTime())
	assert.Equal(t, 0.5, event.Hours())

	assert.ErrorIs(t, event.Reschedule(newStart, newStart), ErrInvalidTimeRange)
}

func TestEventKind_IsValid(t *testing.T) {
	for _, kind := range []EventKind{KindMeeting, KindFocus, KindBreak, KindOther} {
		assert.True(t, kind.IsValid())
	}
	assert.False(t, EventKind("").IsValid())
	assert.False(t, EventKind("task").IsValid())
}
