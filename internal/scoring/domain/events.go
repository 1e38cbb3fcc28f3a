package domain

import (
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

// Routing keys for scoring domain events.
const (
	RiskScoreComputedRoutingKey = "scoring.risk_score.computed"
	ThresholdsUpdatedRoutingKey = "scoring.thresholds.updated"
)

// RiskScoreComputedEvent is raised whenever a daily score is computed or
// recomputed.
type RiskScoreComputedEvent struct {
	sharedDomain.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	Date      string    `json:"date"`
	Score     float64   `json:"score"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// NewRiskScoreComputedEvent creates the event from a score record.
func NewRiskScoreComputedEvent(record *ScoreRecord) *RiskScoreComputedEvent {
	return &RiskScoreComputedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(record.ID(), "scoring.score_record", RiskScoreComputedRoutingKey),
		UserID:    record.UserID(),
		Date:      record.Date().Format(time.DateOnly),
		Score:     record.Score(),
		RiskLevel: record.RiskLevel(),
	}
}

// ThresholdsUpdatedEvent is raised when a user's threshold profile changes.
type ThresholdsUpdatedEvent struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewThresholdsUpdatedEvent creates the event for a profile update.
func NewThresholdsUpdatedEvent(profile *ThresholdProfile) *ThresholdsUpdatedEvent {
	return &ThresholdsUpdatedEvent{
		BaseEvent: sharedDomain.NewBaseEvent(profile.UserID(), "scoring.threshold_profile", ThresholdsUpdatedRoutingKey),
		UserID:    profile.UserID(),
	}
}
