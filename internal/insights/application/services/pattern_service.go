// Package services contains application services for the insights context.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/askoglund/balans/internal/insights/domain"
	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
	sharedApplication "github.com/askoglund/balans/internal/shared/application"
	"github.com/askoglund/balans/internal/shared/infrastructure/outbox"
	"github.com/askoglund/balans/pkg/observability"
	"github.com/google/uuid"
)

// detectionHistoryDays is how far back the detector looks for recurring
// behavior.
const detectionHistoryDays = 7

// PatternService runs pattern detection over recent score history and
// maintains the stored pattern catalogue.
type PatternService struct {
	patterns   domain.PatternRepository
	scores     scoringDomain.ScoreRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	detector   *domain.PatternDetector
	metrics    observability.Metrics
	logger     *slog.Logger
}

// NewPatternService creates a new PatternService.
func NewPatternService(
	patterns domain.PatternRepository,
	scores scoringDomain.ScoreRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	metrics observability.Metrics,
	logger *slog.Logger,
) *PatternService {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternService{
		patterns:   patterns,
		scores:     scores,
		outboxRepo: outboxRepo,
		uow:        uow,
		detector:   domain.NewPatternDetector(),
		metrics:    metrics,
		logger:     logger,
	}
}

// DetectAndStore runs detection over the user's last week of scores and
// persists newly found patterns. A pattern type with an existing active
// record is not duplicated. Returns the patterns stored by this call.
func (s *PatternService) DetectAndStore(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -detectionHistoryDays)

	records, err := s.scores.FindByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	candidates, err := s.detector.Detect(userID, records)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	active, err := s.patterns.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	activeTypes := make(map[string]bool, len(active))
	for _, p := range active {
		activeTypes[p.PatternType()] = true
	}

	var stored []*domain.StressPattern
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		for _, candidate := range candidates {
			if activeTypes[candidate.PatternType()] {
				continue
			}
			if err := s.patterns.Save(txCtx, candidate); err != nil {
				return err
			}

			events := candidate.DomainEvents()
			sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))
			for _, event := range events {
				msg, err := outbox.NewMessage(event)
				if err != nil {
					return err
				}
				if err := s.outboxRepo.Save(txCtx, msg); err != nil {
					return err
				}
			}
			candidate.ClearDomainEvents()
			stored = append(stored, candidate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(stored) > 0 {
		s.metrics.IncrCounter(observability.MetricPatternsDetected, int64(len(stored)))
	}
	for _, p := range stored {
		s.logger.Info("stress pattern detected",
			"user_id", userID,
			"pattern_type", p.PatternType(),
			"severity", p.Severity(),
		)
	}
	return stored, nil
}

// ActivePatterns returns the user's unresolved patterns.
func (s *PatternService) ActivePatterns(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return s.patterns.FindActiveByUser(ctx, userID)
}

// Alerts returns active high-severity patterns for the alerts feed.
func (s *PatternService) Alerts(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	active, err := s.patterns.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var alerts []*domain.StressPattern
	for _, p := range active {
		if p.IsAlert() {
			alerts = append(alerts, p)
		}
	}
	return alerts, nil
}

// Resolve marks a pattern inactive. The record stays queryable by user.
func (s *PatternService) Resolve(ctx context.Context, id uuid.UUID) error {
	pattern, err := s.patterns.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := pattern.Resolve(); err != nil {
		return err
	}
	return s.patterns.Update(ctx, pattern)
}
