// Package services contains application services for the interventions
// context.
package services

import (
	"context"

	"github.com/askoglund/balans/internal/interventions/domain"
	"github.com/google/uuid"
)

// RuleService manages the rule set and delivery preferences.
type RuleService struct {
	rules       domain.RuleRepository
	preferences domain.PreferenceRepository
}

// NewRuleService creates a new RuleService.
func NewRuleService(rules domain.RuleRepository, preferences domain.PreferenceRepository) *RuleService {
	return &RuleService{rules: rules, preferences: preferences}
}

// CreateRule validates and stores a new active rule.
func (s *RuleService) CreateRule(
	ctx context.Context,
	userID uuid.UUID,
	name string,
	condition domain.Condition,
	method domain.Method,
	messageTemplate string,
	priority int,
) (*domain.InterventionRule, error) {
	rule, err := domain.NewInterventionRule(userID, name, domain.RuleTypeActivityBased,
		condition, method, messageTemplate, priority)
	if err != nil {
		return nil, err
	}
	if err := s.rules.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListRules returns all of the user's rules in evaluation order.
func (s *RuleService) ListRules(ctx context.Context, userID uuid.UUID) ([]*domain.InterventionRule, error) {
	return s.rules.FindByUser(ctx, userID)
}

// ActivateRule re-enables a rule.
func (s *RuleService) ActivateRule(ctx context.Context, id uuid.UUID) error {
	return s.toggleRule(ctx, id, (*domain.InterventionRule).Activate)
}

// DeactivateRule disables a rule without deleting it.
func (s *RuleService) DeactivateRule(ctx context.Context, id uuid.UUID) error {
	return s.toggleRule(ctx, id, (*domain.InterventionRule).Deactivate)
}

func (s *RuleService) toggleRule(ctx context.Context, id uuid.UUID, change func(*domain.InterventionRule) error) error {
	rule, err := s.rules.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := change(rule); err != nil {
		return err
	}
	return s.rules.Update(ctx, rule)
}

// SetPreferredMethod stores the user's preferred delivery channel. It
// overrides every rule's own method during evaluation.
func (s *RuleService) SetPreferredMethod(ctx context.Context, userID uuid.UUID, method domain.Method) error {
	if !method.IsValid() {
		return domain.ErrInvalidMethod
	}
	return s.preferences.SetMethod(ctx, userID, method)
}
