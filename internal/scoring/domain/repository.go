package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScoreRepository persists daily score records.
type ScoreRepository interface {
	// Upsert inserts the record or, when one already exists for the same
	// (user, date), overwrites its mutable fields in place. The write must
	// be atomic; concurrent upserts for the same key must not create two
	// rows.
	Upsert(ctx context.Context, record *ScoreRecord) error

	// FindByUserAndDate returns the record for the given day, or
	// ErrScoreNotFound.
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*ScoreRecord, error)

	// FindByUserInRange returns records with date in [start, end],
	// ordered by date ascending.
	FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*ScoreRecord, error)
}

// ThresholdRepository persists threshold profiles.
type ThresholdRepository interface {
	// FindByUser returns the user's profile, or ErrThresholdsNotFound.
	FindByUser(ctx context.Context, userID uuid.UUID) (*ThresholdProfile, error)

	// InsertIfAbsent atomically inserts the profile unless a row for the
	// user already exists. It never overwrites.
	InsertIfAbsent(ctx context.Context, profile *ThresholdProfile) error

	// Update overwrites an existing profile.
	Update(ctx context.Context, profile *ThresholdProfile) error
}

// ThresholdCache is a read-through cache in front of ThresholdRepository.
// Get reports found=false on a miss; cache errors are surfaced so callers
// can decide whether to degrade to the repository.
type ThresholdCache interface {
	Get(ctx context.Context, userID uuid.UUID) (profile *ThresholdProfile, found bool, err error)
	Set(ctx context.Context, profile *ThresholdProfile) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
