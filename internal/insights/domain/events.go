package domain

import (
	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

// StressPatternDetectedRoutingKey routes pattern-detection events.
const StressPatternDetectedRoutingKey = "insights.stress_pattern.detected"

// StressPatternDetectedEvent is raised when the detector finds a new
// recurring stress pattern for a user.
type StressPatternDetectedEvent struct {
	sharedDomain.BaseEvent
	UserID      uuid.UUID `json:"user_id"`
	PatternType string    `json:"pattern_type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
}

// NewStressPatternDetectedEvent creates the event from a pattern.
func NewStressPatternDetectedEvent(pattern *StressPattern) *StressPatternDetectedEvent {
	return &StressPatternDetectedEvent{
		BaseEvent:   sharedDomain.NewBaseEvent(pattern.ID(), "insights.stress_pattern", StressPatternDetectedRoutingKey),
		UserID:      pattern.UserID(),
		PatternType: pattern.PatternType(),
		Severity:    pattern.Severity(),
		Description: pattern.Description(),
	}
}
