// Package commands contains command handlers for the interventions context.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/askoglund/balans/internal/interventions/domain"
	sharedApplication "github.com/askoglund/balans/internal/shared/application"
	"github.com/askoglund/balans/internal/shared/infrastructure/outbox"
	"github.com/askoglund/balans/pkg/observability"
	"github.com/google/uuid"
)

// OnActivityCommand reports an activity event for rule evaluation.
type OnActivityCommand struct {
	UserID          uuid.UUID
	ActivityType    string
	Timestamp       time.Time
	DurationMinutes int
}

// CommandName implements application.Command.
func (c OnActivityCommand) CommandName() string { return "interventions.on_activity" }

// OnActivityHandler evaluates an activity event against the user's rules
// and logs any resulting intervention.
type OnActivityHandler struct {
	rules       domain.RuleRepository
	preferences domain.PreferenceRepository
	log         domain.InterventionRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	engine      *domain.RuleEngine
	metrics     observability.Metrics
	logger      *slog.Logger
}

// NewOnActivityHandler creates a new OnActivityHandler.
func NewOnActivityHandler(
	rules domain.RuleRepository,
	preferences domain.PreferenceRepository,
	log domain.InterventionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	metrics observability.Metrics,
	logger *slog.Logger,
) *OnActivityHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OnActivityHandler{
		rules:       rules,
		preferences: preferences,
		log:         log,
		outboxRepo:  outboxRepo,
		uow:         uow,
		engine:      domain.NewRuleEngine(logger),
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle runs the evaluation. A nil intervention with a nil error means no
// rule matched.
func (h *OnActivityHandler) Handle(ctx context.Context, cmd OnActivityCommand) (*domain.Intervention, error) {
	rules, err := h.rules.FindActiveByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}

	preferred, _, err := h.preferences.GetMethod(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	timestamp := cmd.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	activity := domain.ActivityEvent{
		UserID:       cmd.UserID,
		ActivityType: cmd.ActivityType,
		Timestamp:    timestamp,
		Details:      domain.ActivityDetails{DurationMinutes: cmd.DurationMinutes},
	}

	intervention, err := h.engine.Evaluate(rules, preferred, activity)
	if err != nil {
		return nil, err
	}
	if intervention == nil {
		return nil, nil
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.log.Save(txCtx, intervention); err != nil {
			return err
		}

		events := intervention.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(cmd.UserID))
		for _, event := range events {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			if err := h.outboxRepo.Save(txCtx, msg); err != nil {
				return err
			}
		}
		intervention.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.IncrCounter(observability.MetricInterventionsTriggered, 1,
		observability.Tag{Key: "method", Value: string(intervention.Method())})

	h.logger.Info("intervention triggered",
		"user_id", cmd.UserID,
		"rule_name", intervention.RuleName(),
		"method", intervention.Method(),
	)
	return intervention, nil
}
