// Package queries contains query handlers for the scoring context.
package queries

import (
	"context"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	"github.com/google/uuid"
)

// GetHistoryQuery requests score records for a date range.
type GetHistoryQuery struct {
	UserID uuid.UUID
	Start  time.Time
	End    time.Time
}

// QueryName implements application.Query.
func (q GetHistoryQuery) QueryName() string { return "scoring.get_history" }

// GetHistoryHandler retrieves score history ordered by date ascending.
type GetHistoryHandler struct {
	scoreRepo domain.ScoreRepository
}

// NewGetHistoryHandler creates a new GetHistoryHandler.
func NewGetHistoryHandler(scoreRepo domain.ScoreRepository) *GetHistoryHandler {
	return &GetHistoryHandler{scoreRepo: scoreRepo}
}

// Handle executes the query. An empty range yields an empty slice, not an
// error.
func (h *GetHistoryHandler) Handle(ctx context.Context, query GetHistoryQuery) ([]*domain.ScoreRecord, error) {
	return h.scoreRepo.FindByUserInRange(ctx, query.UserID, query.Start, query.End)
}
