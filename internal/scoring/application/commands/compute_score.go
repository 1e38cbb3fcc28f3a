// Package commands contains command handlers for the scoring context.
package commands

import (
	"context"
	"log/slog"
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	"github.com/askoglund/balans/internal/scoring/application/services"
	"github.com/askoglund/balans/internal/scoring/domain"
	sharedApplication "github.com/askoglund/balans/internal/shared/application"
	"github.com/askoglund/balans/internal/shared/infrastructure/outbox"
	"github.com/askoglund/balans/pkg/observability"
	"github.com/google/uuid"
)

// ComputeScoreCommand requests a risk score for one user and day.
type ComputeScoreCommand struct {
	UserID uuid.UUID
	Date   time.Time
	Survey *domain.Survey
}

// CommandName implements application.Command.
func (c ComputeScoreCommand) CommandName() string { return "scoring.compute_score" }

// ComputeScoreHandler computes a daily score from calendar events and
// upserts the resulting record.
type ComputeScoreHandler struct {
	events     calendarDomain.EventSource
	thresholds *services.ThresholdStore
	scoreRepo  domain.ScoreRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	extractor  *domain.MetricsExtractor
	engine     *domain.ScoringEngine
	metrics    observability.Metrics
	logger     *slog.Logger
}

// NewComputeScoreHandler creates a new ComputeScoreHandler.
func NewComputeScoreHandler(
	events calendarDomain.EventSource,
	thresholds *services.ThresholdStore,
	scoreRepo domain.ScoreRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	extractor *domain.MetricsExtractor,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ComputeScoreHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ComputeScoreHandler{
		events:     events,
		thresholds: thresholds,
		scoreRepo:  scoreRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
		extractor:  extractor,
		engine:     domain.NewScoringEngine(),
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle computes and stores the score, returning the full result. Calling
// it twice for the same (user, date) updates the existing record in place.
func (h *ComputeScoreHandler) Handle(ctx context.Context, cmd ComputeScoreCommand) (*domain.ScoreResult, error) {
	started := time.Now()
	dayStart := time.Date(cmd.Date.Year(), cmd.Date.Month(), cmd.Date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	events, err := h.events.EventsInRange(ctx, cmd.UserID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	profile, err := h.thresholds.GetOrCreate(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	metrics := h.extractor.Extract(cmd.UserID, dayStart, events)
	result := h.engine.Score(metrics, profile, cmd.Survey)

	record := domain.NewScoreRecord(cmd.UserID, dayStart, result)

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.scoreRepo.Upsert(txCtx, record); err != nil {
			return err
		}

		domainEvents := record.DomainEvents()
		sharedApplication.ApplyEventMetadata(domainEvents, sharedApplication.NewEventMetadata(cmd.UserID))

		msgs := make([]*outbox.Message, 0, len(domainEvents))
		for _, event := range domainEvents {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := h.outboxRepo.SaveBatch(txCtx, msgs); err != nil {
			return err
		}

		record.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.metrics.IncrCounter(observability.MetricScoreComputations, 1)
	h.metrics.RecordDuration(observability.MetricScoreComputeDuration, time.Since(started))

	h.logger.Info("risk score computed",
		"user_id", cmd.UserID,
		"date", dayStart.Format(time.DateOnly),
		"score", result.Score,
		"risk_level", result.RiskLevel,
	)

	return &result, nil
}
