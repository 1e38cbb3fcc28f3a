package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/askoglund/balans/internal/calendar/domain"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	events []*domain.Event
	err    error
	calls  int
}

func (s *stubSource) EventsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	s.calls++
	return s.events, s.err
}

func TestBreakerEventSource_PassesThrough(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	event, err := domain.NewEvent(uuid.New(), "Standup", domain.KindMeeting, start, start.Add(time.Hour))
	require.NoError(t, err)

	stub := &stubSource{events: []*domain.Event{event}}
	source := NewBreakerEventSource(stub, DefaultBreakerConfig(), nil)

	events, err := source.EventsInRange(context.Background(), uuid.New(), start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title())
}

func TestBreakerEventSource_OpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubSource{err: errors.New("calendar backend down")}
	cfg := DefaultBreakerConfig()
	cfg.FailureThreshold = 3
	source := NewBreakerEventSource(stub, cfg, nil)

	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		_, err := source.EventsInRange(ctx, uuid.New(), now, now.Add(time.Hour))
		require.Error(t, err)
	}

	// Breaker is open now; the inner source must not be called again.
	callsBefore := stub.calls
	_, err := source.EventsInRange(ctx, uuid.New(), now, now.Add(time.Hour))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, callsBefore, stub.calls)
}
