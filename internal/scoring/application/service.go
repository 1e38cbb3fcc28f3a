// Package application provides the scoring context's service facade.
package application

import (
	"context"
	"time"

	"github.com/askoglund/balans/internal/scoring/application/commands"
	"github.com/askoglund/balans/internal/scoring/application/queries"
	"github.com/askoglund/balans/internal/scoring/application/services"
	"github.com/askoglund/balans/internal/scoring/domain"
	"github.com/google/uuid"
)

// Service is the facade external adapters use to interact with scoring.
type Service struct {
	computeScore *commands.ComputeScoreHandler
	getHistory   *queries.GetHistoryHandler
	thresholds   *services.ThresholdStore
}

// NewService creates the scoring service facade.
func NewService(
	computeScore *commands.ComputeScoreHandler,
	getHistory *queries.GetHistoryHandler,
	thresholds *services.ThresholdStore,
) *Service {
	return &Service{
		computeScore: computeScore,
		getHistory:   getHistory,
		thresholds:   thresholds,
	}
}

// ComputeAndStore scores the given day and persists the record.
func (s *Service) ComputeAndStore(ctx context.Context, userID uuid.UUID, date time.Time, survey *domain.Survey) (*domain.ScoreResult, error) {
	return s.computeScore.Handle(ctx, commands.ComputeScoreCommand{
		UserID: userID,
		Date:   date,
		Survey: survey,
	})
}

// GetHistory returns score records with date in [start, end], ascending.
func (s *Service) GetHistory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.ScoreRecord, error) {
	return s.getHistory.Handle(ctx, queries.GetHistoryQuery{
		UserID: userID,
		Start:  start,
		End:    end,
	})
}

// GetOrCreateThresholds returns the user's threshold profile, creating it
// with defaults on first access.
func (s *Service) GetOrCreateThresholds(ctx context.Context, userID uuid.UUID) (*domain.ThresholdProfile, error) {
	return s.thresholds.GetOrCreate(ctx, userID)
}

// UpdateThresholds merges the patch into the user's profile.
func (s *Service) UpdateThresholds(ctx context.Context, userID uuid.UUID, patch domain.ThresholdPatch) (*domain.ThresholdProfile, error) {
	return s.thresholds.Update(ctx, userID, patch)
}
