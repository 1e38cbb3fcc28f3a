package domain

import (
	"errors"
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrPatternNotFound  = errors.New("stress pattern not found")
	ErrInvalidSeverity  = errors.New("invalid pattern severity")
	ErrEmptyPatternType = errors.New("pattern type cannot be empty")
	ErrPatternResolved  = errors.New("stress pattern already resolved")
)

// Severity ranks how urgently a pattern needs attention. High-severity
// patterns are surfaced in the alerts feed.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Pattern type identifiers produced by the detector.
const (
	PatternChronicOverwork = "chronic_overwork"
	PatternMeetingOverload = "meeting_overload"
	PatternSleepDebt       = "sleep_debt"
)

// StressPattern is a detected recurring problematic behavior. Patterns are
// never deleted once created; they are resolved instead.
type StressPattern struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	patternType string
	description string
	severity    Severity
	frequency   string
	metadata    map[string]string
	detectedAt  time.Time
	active      bool
}

// NewStressPattern creates an active pattern and raises a detection event.
func NewStressPattern(
	userID uuid.UUID,
	patternType, description string,
	severity Severity,
	frequency string,
	metadata map[string]string,
) (*StressPattern, error) {
	if patternType == "" {
		return nil, ErrEmptyPatternType
	}
	if !severity.IsValid() {
		return nil, ErrInvalidSeverity
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	pattern := &StressPattern{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		patternType:       patternType,
		description:       description,
		severity:          severity,
		frequency:         frequency,
		metadata:          metadata,
		detectedAt:        time.Now().UTC(),
		active:            true,
	}

	pattern.AddDomainEvent(NewStressPatternDetectedEvent(pattern))
	return pattern, nil
}

// RehydrateStressPattern recreates a pattern from persisted state.
func RehydrateStressPattern(
	id uuid.UUID,
	userID uuid.UUID,
	patternType, description string,
	severity Severity,
	frequency string,
	metadata map[string]string,
	detectedAt time.Time,
	active bool,
	createdAt, updatedAt time.Time,
) *StressPattern {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &StressPattern{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		userID:      userID,
		patternType: patternType,
		description: description,
		severity:    severity,
		frequency:   frequency,
		metadata:    metadata,
		detectedAt:  detectedAt,
		active:      active,
	}
}

// Getters
func (p *StressPattern) UserID() uuid.UUID           { return p.userID }
func (p *StressPattern) PatternType() string         { return p.patternType }
func (p *StressPattern) Description() string         { return p.description }
func (p *StressPattern) Severity() Severity          { return p.severity }
func (p *StressPattern) Frequency() string           { return p.frequency }
func (p *StressPattern) Metadata() map[string]string { return p.metadata }
func (p *StressPattern) DetectedAt() time.Time       { return p.detectedAt }
func (p *StressPattern) IsActive() bool              { return p.active }

// IsAlert reports whether the pattern belongs in the alerts feed.
func (p *StressPattern) IsAlert() bool {
	return p.active && p.severity == SeverityHigh
}

// Resolve marks the pattern inactive. The record is kept for history.
func (p *StressPattern) Resolve() error {
	if !p.active {
		return ErrPatternResolved
	}
	p.active = false
	p.Touch()
	return nil
}
