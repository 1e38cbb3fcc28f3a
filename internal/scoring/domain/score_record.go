package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

var ErrScoreNotFound = errors.New("score record not found")

// ScoreRecord is the persisted daily risk score. At most one record exists
// per (user, date); recomputation for the same date updates in place.
type ScoreRecord struct {
	sharedDomain.BaseAggregateRoot
	userID          uuid.UUID
	date            time.Time
	score           float64
	riskLevel       RiskLevel
	metrics         DayMetrics
	components      ComponentScores
	insight         string
	recommendations []string
}

// NewScoreRecord creates a record for a user and date from a score result.
// Date is normalized to day granularity.
func NewScoreRecord(userID uuid.UUID, date time.Time, result ScoreResult) *ScoreRecord {
	record := &ScoreRecord{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		date:              truncateToDay(date),
		score:             result.Score,
		riskLevel:         result.RiskLevel,
		metrics:           result.Metrics,
		components:        result.Components,
		insight:           result.Insight,
		recommendations:   result.Recommendations,
	}

	record.AddDomainEvent(NewRiskScoreComputedEvent(record))
	return record
}

// RehydrateScoreRecord recreates a record from persisted state.
func RehydrateScoreRecord(
	id uuid.UUID,
	userID uuid.UUID,
	date time.Time,
	score float64,
	riskLevel RiskLevel,
	metrics DayMetrics,
	components ComponentScores,
	insight string,
	recommendations []string,
	createdAt, updatedAt time.Time,
) *ScoreRecord {
	return &ScoreRecord{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		userID:          userID,
		date:            truncateToDay(date),
		score:           score,
		riskLevel:       riskLevel,
		metrics:         metrics,
		components:      components,
		insight:         insight,
		recommendations: recommendations,
	}
}

// Getters
func (r *ScoreRecord) UserID() uuid.UUID           { return r.userID }
func (r *ScoreRecord) Date() time.Time             { return r.date }
func (r *ScoreRecord) Score() float64              { return r.score }
func (r *ScoreRecord) RiskLevel() RiskLevel        { return r.riskLevel }
func (r *ScoreRecord) Metrics() DayMetrics         { return r.metrics }
func (r *ScoreRecord) Components() ComponentScores { return r.components }
func (r *ScoreRecord) Insight() string             { return r.insight }
func (r *ScoreRecord) Recommendations() []string   { return r.recommendations }

// ApplyResult overwrites the record's mutable fields with a recomputation.
func (r *ScoreRecord) ApplyResult(result ScoreResult) {
	r.score = result.Score
	r.riskLevel = result.RiskLevel
	r.metrics = result.Metrics
	r.components = result.Components
	r.insight = result.Insight
	r.recommendations = result.Recommendations
	r.Touch()

	r.AddDomainEvent(NewRiskScoreComputedEvent(r))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
