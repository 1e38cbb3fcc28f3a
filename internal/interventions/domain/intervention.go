package domain

import (
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

// Intervention is a triggered nudge: which rule fired, through which
// channel, with what message. Interventions are kept as a delivery log.
type Intervention struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	ruleID      uuid.UUID
	ruleName    string
	method      Method
	message     string
	triggeredAt time.Time
}

// NewIntervention records a rule firing and raises the triggered event.
func NewIntervention(userID, ruleID uuid.UUID, ruleName string, method Method, message string, triggeredAt time.Time) *Intervention {
	intervention := &Intervention{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		ruleID:            ruleID,
		ruleName:          ruleName,
		method:            method,
		message:           message,
		triggeredAt:       triggeredAt.UTC(),
	}

	intervention.AddDomainEvent(NewInterventionTriggeredEvent(intervention))
	return intervention
}

// RehydrateIntervention recreates an intervention from persisted state.
func RehydrateIntervention(
	id uuid.UUID,
	userID, ruleID uuid.UUID,
	ruleName string,
	method Method,
	message string,
	triggeredAt time.Time,
	createdAt, updatedAt time.Time,
) *Intervention {
	return &Intervention{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), 0),
		userID:      userID,
		ruleID:      ruleID,
		ruleName:    ruleName,
		method:      method,
		message:     message,
		triggeredAt: triggeredAt,
	}
}

// Getters
func (i *Intervention) UserID() uuid.UUID      { return i.userID }
func (i *Intervention) RuleID() uuid.UUID      { return i.ruleID }
func (i *Intervention) RuleName() string       { return i.ruleName }
func (i *Intervention) Method() Method         { return i.method }
func (i *Intervention) Message() string        { return i.message }
func (i *Intervention) TriggeredAt() time.Time { return i.triggeredAt }
