// Package application provides the interventions context's service facade.
package application

import (
	"context"
	"time"

	"github.com/askoglund/balans/internal/interventions/application/commands"
	"github.com/askoglund/balans/internal/interventions/application/services"
	"github.com/askoglund/balans/internal/interventions/domain"
	"github.com/google/uuid"
)

// Service is the facade external adapters use to interact with
// interventions.
type Service struct {
	onActivity *commands.OnActivityHandler
	rules      *services.RuleService
	log        domain.InterventionRepository
}

// NewService creates the interventions service facade.
func NewService(
	onActivity *commands.OnActivityHandler,
	rules *services.RuleService,
	log domain.InterventionRepository,
) *Service {
	return &Service{onActivity: onActivity, rules: rules, log: log}
}

// OnActivity evaluates an activity event. A nil intervention with a nil
// error means no rule matched.
func (s *Service) OnActivity(ctx context.Context, userID uuid.UUID, activityType string, timestamp time.Time, durationMinutes int) (*domain.Intervention, error) {
	return s.onActivity.Handle(ctx, commands.OnActivityCommand{
		UserID:          userID,
		ActivityType:    activityType,
		Timestamp:       timestamp,
		DurationMinutes: durationMinutes,
	})
}

// CreateRule validates and stores a new active rule.
func (s *Service) CreateRule(ctx context.Context, userID uuid.UUID, name string, condition domain.Condition, method domain.Method, messageTemplate string, priority int) (*domain.InterventionRule, error) {
	return s.rules.CreateRule(ctx, userID, name, condition, method, messageTemplate, priority)
}

// ListRules returns the user's rules in evaluation order.
func (s *Service) ListRules(ctx context.Context, userID uuid.UUID) ([]*domain.InterventionRule, error) {
	return s.rules.ListRules(ctx, userID)
}

// ActivateRule re-enables a rule.
func (s *Service) ActivateRule(ctx context.Context, id uuid.UUID) error {
	return s.rules.ActivateRule(ctx, id)
}

// DeactivateRule disables a rule.
func (s *Service) DeactivateRule(ctx context.Context, id uuid.UUID) error {
	return s.rules.DeactivateRule(ctx, id)
}

// SetPreferredMethod stores the user's preferred delivery channel.
func (s *Service) SetPreferredMethod(ctx context.Context, userID uuid.UUID, method domain.Method) error {
	return s.rules.SetPreferredMethod(ctx, userID, method)
}

// History returns interventions triggered at or after since, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Intervention, error) {
	return s.log.FindByUserSince(ctx, userID, since)
}
