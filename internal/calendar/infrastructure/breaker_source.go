// Package infrastructure provides calendar event source implementations.
package infrastructure

import (
	"context"
	"log/slog"
	"time"

	"github.com/askoglund/balans/internal/calendar/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the event source circuit breaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// DefaultBreakerConfig returns settings suitable for a remote calendar source.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "calendar-events",
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerEventSource wraps an EventSource with a circuit breaker so a
// misbehaving calendar backend fails fast instead of stalling scoring.
type BreakerEventSource struct {
	inner   domain.EventSource
	breaker *gobreaker.CircuitBreaker[[]*domain.Event]
	logger  *slog.Logger
}

// NewBreakerEventSource creates a circuit-breaking event source decorator.
func NewBreakerEventSource(inner domain.EventSource, cfg BreakerConfig, logger *slog.Logger) *BreakerEventSource {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("calendar source circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerEventSource{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[[]*domain.Event](settings),
		logger:  logger,
	}
}

// EventsInRange fetches events through the circuit breaker.
func (s *BreakerEventSource) EventsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	return s.breaker.Execute(func() ([]*domain.Event, error) {
		return s.inner.EventsInRange(ctx, userID, from, to)
	})
}
