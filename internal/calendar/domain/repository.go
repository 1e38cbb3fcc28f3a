package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventRepository defines persistence for calendar events.
type EventRepository interface {
	Save(ctx context.Context, event *Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindByUserInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// EventSource supplies a user's events overlapping a time range. The
// persistence-backed implementation and remote calendar integrations both
// satisfy this interface.
type EventSource interface {
	EventsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Event, error)
}

// RepositoryEventSource adapts an EventRepository into an EventSource.
type RepositoryEventSource struct {
	repo EventRepository
}

// NewRepositoryEventSource creates an event source backed by local persistence.
func NewRepositoryEventSource(repo EventRepository) *RepositoryEventSource {
	return &RepositoryEventSource{repo: repo}
}

// EventsInRange returns the user's events overlapping [from, to).
func (s *RepositoryEventSource) EventsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Event, error) {
	return s.repo.FindByUserInRange(ctx, userID, from, to)
}
