// Package application provides the insights context's service facade.
package application

import (
	"context"

	"github.com/askoglund/balans/internal/insights/application/queries"
	"github.com/askoglund/balans/internal/insights/application/services"
	"github.com/askoglund/balans/internal/insights/domain"
	"github.com/google/uuid"
)

// Service is the facade external adapters use to interact with insights.
type Service struct {
	getInsights *queries.GetInsightsHandler
	patterns    *services.PatternService
}

// NewService creates the insights service facade.
func NewService(getInsights *queries.GetInsightsHandler, patterns *services.PatternService) *Service {
	return &Service{getInsights: getInsights, patterns: patterns}
}

// GetInsights analyzes the user's last 30 days of scores.
func (s *Service) GetInsights(ctx context.Context, userID uuid.UUID) (domain.TrendResult, error) {
	return s.getInsights.Handle(ctx, queries.GetInsightsQuery{UserID: userID})
}

// DetectPatterns runs stress-pattern detection and stores new findings.
func (s *Service) DetectPatterns(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return s.patterns.DetectAndStore(ctx, userID)
}

// ActivePatterns returns the user's unresolved stress patterns.
func (s *Service) ActivePatterns(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return s.patterns.ActivePatterns(ctx, userID)
}

// Alerts returns active high-severity patterns.
func (s *Service) Alerts(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return s.patterns.Alerts(ctx, userID)
}

// ResolvePattern marks a pattern inactive.
func (s *Service) ResolvePattern(ctx context.Context, id uuid.UUID) error {
	return s.patterns.Resolve(ctx, id)
}
