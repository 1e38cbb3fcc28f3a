// Package notification delivers triggered interventions to the user
// through their resolved channel. Only log-based delivery is built in;
// push and email transports hang off the same consumer.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/askoglund/balans/internal/interventions/domain"
	"github.com/askoglund/balans/internal/shared/infrastructure/eventbus"
)

// triggeredPayload mirrors the wire shape of a triggered-intervention event.
type triggeredPayload struct {
	UserID      uuid.UUID     `json:"user_id"`
	RuleID      uuid.UUID     `json:"rule_id"`
	RuleName    string        `json:"rule_name"`
	Method      domain.Method `json:"method"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// DeliveryConsumer consumes triggered-intervention events and delivers
// the intervention message through the requested method.
type DeliveryConsumer struct {
	logger *slog.Logger
}

// NewDeliveryConsumer creates a delivery consumer.
func NewDeliveryConsumer(logger *slog.Logger) *DeliveryConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeliveryConsumer{logger: logger}
}

// EventTypes returns the routing keys this consumer handles.
func (c *DeliveryConsumer) EventTypes() []string {
	return []string{domain.InterventionTriggeredRoutingKey}
}

// Handle delivers the intervention carried by the event.
func (c *DeliveryConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload triggeredPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode intervention payload: %w", err)
	}

	c.logger.InfoContext(ctx, "delivering intervention",
		"user_id", payload.UserID,
		"rule_name", payload.RuleName,
		"method", payload.Method,
		"message", payload.Message,
		"triggered_at", payload.TriggeredAt,
	)

	return nil
}
