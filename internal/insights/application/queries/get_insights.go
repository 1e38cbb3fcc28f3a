// Package queries contains query handlers for the insights context.
package queries

import (
	"context"
	"time"

	"github.com/askoglund/balans/internal/insights/domain"
	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
	"github.com/google/uuid"
)

// insightsWindowDays is the trailing history window fed to the analyzer.
const insightsWindowDays = 30

// GetInsightsQuery requests a trend analysis of a user's recent scores.
type GetInsightsQuery struct {
	UserID uuid.UUID
	Now    time.Time
}

// QueryName implements application.Query.
func (q GetInsightsQuery) QueryName() string { return "insights.get_insights" }

// GetInsightsHandler analyzes the user's last 30 days of scores.
type GetInsightsHandler struct {
	scores   scoringDomain.ScoreRepository
	analyzer *domain.TrendAnalyzer
}

// NewGetInsightsHandler creates a new GetInsightsHandler.
func NewGetInsightsHandler(scores scoringDomain.ScoreRepository) *GetInsightsHandler {
	return &GetInsightsHandler{
		scores:   scores,
		analyzer: domain.NewTrendAnalyzer(),
	}
}

// Handle runs the trend analysis. Too little history is not an error; the
// analyzer returns its fixed insufficient-data verdict.
func (h *GetInsightsHandler) Handle(ctx context.Context, query GetInsightsQuery) (domain.TrendResult, error) {
	now := query.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -insightsWindowDays)

	records, err := h.scores.FindByUserInRange(ctx, query.UserID, start, end)
	if err != nil {
		return domain.TrendResult{}, err
	}

	return h.analyzer.Analyze(records), nil
}
