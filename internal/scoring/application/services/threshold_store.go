// Package services contains domain services for the scoring context.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/askoglund/balans/internal/scoring/domain"
	sharedApplication "github.com/askoglund/balans/internal/shared/application"
	sharedDomain "github.com/askoglund/balans/internal/shared/domain"
	"github.com/askoglund/balans/internal/shared/infrastructure/outbox"
	"github.com/askoglund/balans/pkg/observability"
	"github.com/google/uuid"
)

// ThresholdStore provides race-safe lazy creation and partial updates of
// threshold profiles, with an optional read-through cache.
type ThresholdStore struct {
	repo       domain.ThresholdRepository
	cache      domain.ThresholdCache
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	defaults   func(uuid.UUID) *domain.ThresholdProfile
	metrics    observability.Metrics
	logger     *slog.Logger
}

// NewThresholdStore creates a threshold store. cache may be nil. The
// default-profile constructor is injected so defaults live in one place.
func NewThresholdStore(
	repo domain.ThresholdRepository,
	cache domain.ThresholdCache,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ThresholdStore {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ThresholdStore{
		repo:       repo,
		cache:      cache,
		outboxRepo: outboxRepo,
		uow:        uow,
		defaults:   domain.DefaultThresholdProfile,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetOrCreate returns the user's profile, creating it with defaults on
// first access. Concurrent first reads cannot create two rows: the insert
// is ON CONFLICT DO NOTHING and the profile is re-read afterwards, so the
// second caller observes the first's row.
func (s *ThresholdStore) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.ThresholdProfile, error) {
	if s.cache != nil {
		profile, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Debug("threshold cache read failed, falling back to store", "error", err)
		} else if found {
			s.metrics.IncrCounter(observability.MetricCacheHits, 1)
			return profile, nil
		}
		s.metrics.IncrCounter(observability.MetricCacheMisses, 1)
	}

	profile, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, domain.ErrThresholdsNotFound) {
		if err := s.repo.InsertIfAbsent(ctx, s.defaults(userID)); err != nil {
			return nil, err
		}
		profile, err = s.repo.FindByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			s.logger.Debug("threshold cache write failed", "error", err)
		}
	}

	return profile, nil
}

// Update merges the supplied patch fields into the user's profile, creating
// the profile first when absent. The cache entry is invalidated after the
// update commits.
func (s *ThresholdStore) Update(ctx context.Context, userID uuid.UUID, patch domain.ThresholdPatch) (*domain.ThresholdProfile, error) {
	var profile *domain.ThresholdProfile

	err := sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		var err error
		profile, err = s.repo.FindByUser(txCtx, userID)
		if errors.Is(err, domain.ErrThresholdsNotFound) {
			if err := s.repo.InsertIfAbsent(txCtx, s.defaults(userID)); err != nil {
				return err
			}
			profile, err = s.repo.FindByUser(txCtx, userID)
		}
		if err != nil {
			return err
		}

		if err := profile.Apply(patch); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, profile); err != nil {
			return err
		}

		event := domain.NewThresholdsUpdatedEvent(profile)
		sharedApplication.ApplyEventMetadata(
			[]sharedDomain.DomainEvent{event},
			sharedApplication.NewEventMetadata(userID),
		)
		msg, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return s.outboxRepo.Save(txCtx, msg)
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Debug("threshold cache invalidation failed", "error", err)
		}
	}

	return profile, nil
}
