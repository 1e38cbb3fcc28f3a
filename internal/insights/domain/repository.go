package domain

import (
	"context"

	"github.com/google/uuid"
)

// PatternRepository persists stress patterns. Patterns are append-only
// from the detector's perspective; resolution flips the active flag but
// never removes the row.
type PatternRepository interface {
	Save(ctx context.Context, pattern *StressPattern) error
	Update(ctx context.Context, pattern *StressPattern) error
	FindByID(ctx context.Context, id uuid.UUID) (*StressPattern, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*StressPattern, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*StressPattern, error)
}
