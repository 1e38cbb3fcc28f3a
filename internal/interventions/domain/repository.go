package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RuleRepository persists intervention rules. FindActiveByUser returns the
// evaluation order: priority descending, then oldest first — the engine
// takes the first match, so this ordering is part of the contract.
type RuleRepository interface {
	Save(ctx context.Context, rule *InterventionRule) error
	Update(ctx context.Context, rule *InterventionRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*InterventionRule, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*InterventionRule, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*InterventionRule, error)
}

// PreferenceRepository stores each user's preferred delivery method. An
// unset preference is not an error; the rule's own method applies.
type PreferenceRepository interface {
	GetMethod(ctx context.Context, userID uuid.UUID) (Method, bool, error)
	SetMethod(ctx context.Context, userID uuid.UUID, method Method) error
}

// InterventionRepository keeps the delivery log of triggered interventions.
type InterventionRepository interface {
	Save(ctx context.Context, intervention *Intervention) error
	FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*Intervention, error)
}
