package domain

import (
	"time"

	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/google/uuid"
)

// InterventionTriggeredRoutingKey routes triggered-intervention events.
const InterventionTriggeredRoutingKey = "interventions.intervention.triggered"

// InterventionTriggeredEvent is raised when a rule fires. Downstream
// consumers deliver the message through the resolved channel.
type InterventionTriggeredEvent struct {
	sharedDomain.BaseEvent
	UserID      uuid.UUID `json:"user_id"`
	RuleID      uuid.UUID `json:"rule_id"`
	RuleName    string    `json:"rule_name"`
	Method      Method    `json:"method"`
	Message     string    `json:"message"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// NewInterventionTriggeredEvent creates the event from an intervention.
func NewInterventionTriggeredEvent(intervention *Intervention) *InterventionTriggeredEvent {
	return &InterventionTriggeredEvent{
		BaseEvent:   sharedDomain.NewBaseEvent(intervention.ID(), "interventions.intervention", InterventionTriggeredRoutingKey),
		UserID:      intervention.UserID(),
		RuleID:      intervention.RuleID(),
		RuleName:    intervention.RuleName(),
		Method:      intervention.Method(),
		Message:     intervention.Message(),
		TriggeredAt: intervention.TriggeredAt(),
	}
}
