package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidEventKind = errors.New("invalid event kind")
	ErrEventNotFound    = errors.New("event not found")
)

// EventKind classifies a calendar event for metrics extraction.
type EventKind string

const (
	KindMeeting EventKind = "meeting"
	KindFocus   EventKind = "focus"
	KindBreak   EventKind = "break"
	KindOther   EventKind = "other"
)

// IsValid returns true if the kind is a known type.
func (k EventKind) IsValid() bool {
	switch k {
	case KindMeeting, KindFocus, KindBreak, KindOther:
		return true
	default:
		return false
	}
}

// Event represents a scheduled calendar event.
type Event struct {
	sharedDomain.BaseEntity
	userID    uuid.UUID
	title     string
	kind      EventKind
	startTime time.Time
	endTime   time.Time
}

// NewEvent creates a new calendar event.
func NewEvent(userID uuid.UUID, title string, kind EventKind, startTime, endTime time.Time) (*Event, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidEventKind
	}
	if !endTime.After(startTime) {
		return nil, ErrInvalidTimeRange
	}

	return &Event{
		BaseEntity: sharedDomain.NewBaseEntity(),
		userID:     userID,
		title:      title,
		kind:       kind,
		startTime:  startTime,
		endTime:    endTime,
	}, nil
}

// RehydrateEvent recreates an event from persisted state.
func RehydrateEvent(
	id uuid.UUID,
	userID uuid.UUID,
	title string,
	kind EventKind,
	startTime, endTime time.Time,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		title:      title,
		kind:       kind,
		startTime:  startTime,
		endTime:    endTime,
	}
}

// Getters
func (e *Event) UserID() uuid.UUID    { return e.userID }
func (e *Event) Title() string        { return e.title }
func (e *Event) Kind() EventKind      { return e.kind }
func (e *Event) StartTime() time.Time { return e.startTime }
func (e *Event) EndTime() time.Time   { return e.endTime }

// Duration returns the event duration.
func (e *Event) Duration() time.Duration {
	return e.endTime.Sub(e.startTime)
}

// Hours returns the event duration in fractional hours.
func (e *Event) Hours() float64 {
	return e.Duration().Hours()
}

// Overlaps reports whether the event overlaps the [from, to) interval.
func (e *Event) Overlaps(from, to time.Time) bool {
	return e.startTime.Before(to) && e.endTime.After(from)
}

// Reschedule moves the event to a new time range.
func (e *Event) Reschedule(startTime, endTime time.Time) error {
	if !endTime.After(startTime) {
		return ErrInvalidTimeRange
	}
	e.startTime = startTime
	e.endTime = endTime
	e.Touch()
	return nil
}

// Rename updates the event title.
func (e *Event) Rename(title string) {
	e.title = title
	e.Touch()
}
