package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityDetails carries the type-specific payload of an activity event.
// Only duration matters today; the struct keeps the shape explicit instead
// of passing loose key-value maps around.
type ActivityDetails struct {
	DurationMinutes int
}

// ActivityEvent is a transient signal about what the user is doing right
// now. It is evaluated against the rule set and never persisted.
type ActivityEvent struct {
	UserID       uuid.UUID
	ActivityType string
	Timestamp    time.Time
	Details      ActivityDetails
}
