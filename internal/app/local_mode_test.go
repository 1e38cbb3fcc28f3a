package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	forecastDomain "github.com/askoglund/balans/internal/forecast/domain"
	interventionsDomain "github.com/askoglund/balans/internal/interventions/domain"
	"github.com/askoglund/balans/internal/shared/infrastructure/database"
	"github.com/askoglund/balans/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:             "development",
		UserID:             "00000000-0000-0000-0000-000000000001",
		SQLitePath:         filepath.Join(t.TempDir(), "data.db"),
		LocalMode:          true,
		BusinessHoursStart: 9,
		BusinessHoursEnd:   17,
		ThresholdCacheTTL:  5 * time.Minute,
		ForecastDays:       3,
	}
}

func TestNewLocalContainer_WiresServices(t *testing.T) {
	c, err := NewLocalContainer(context.Background(), localTestConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.NotNil(t, c.EventRepo)
	assert.NotNil(t, c.EventSource)
	assert.NotNil(t, c.OutboxRepo)
	assert.NotNil(t, c.UnitOfWork)
	assert.NotNil(t, c.ScoringService)
	assert.NotNil(t, c.InsightsService)
	assert.NotNil(t, c.ForecastService)
	assert.NotNil(t, c.InterventionService)
	assert.Nil(t, c.OutboxProcessor)
}

func TestNewLocalContainer_OutboxProcessorWhenEnabled(t *testing.T) {
	cfg := localTestConfig(t)
	cfg.OutboxProcessorEnabled = true
	cfg.OutboxPollInterval = 50 * time.Millisecond
	cfg.OutboxBatchSize = 10
	cfg.OutboxMaxRetries = 3

	c, err := NewLocalContainer(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.OutboxProcessor)
	assert.False(t, c.OutboxProcessor.IsRunning())
}

func TestLocalContainer_ScoreAndHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewLocalContainer(ctx, localTestConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	userID := uuid.New()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	meeting, err := calendarDomain.NewEvent(userID, "standup", calendarDomain.KindMeeting,
		day.Add(10*time.Hour), day.Add(11*time.Hour))
	require.NoError(t, err)
	require.NoError(t, c.EventRepo.Save(ctx, meeting))

	result, err := c.ScoringService.ComputeAndStore(ctx, userID, day, nil)
	require.NoError(t, err)
	assert.Greater(t, result.Score, 0.0)

	history, err := c.ScoringService.GetHistory(ctx, userID, day, day)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.Score, history[0].Score())
}

func TestLocalContainer_ForecastUsesStoredEvents(t *testing.T) {
	ctx := context.Background()
	c, err := NewLocalContainer(ctx, localTestConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	userID := uuid.New()
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	meeting, err := calendarDomain.NewEvent(userID, "planning", calendarDomain.KindMeeting,
		day.Add(9*time.Hour), day.Add(10*time.Hour))
	require.NoError(t, err)
	require.NoError(t, c.EventRepo.Save(ctx, meeting))

	forecast, err := c.ForecastService.GetForecast(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, 3, forecast.Days)
	assert.Equal(t, 1, forecast.TotalMeetings)
	assert.Equal(t, forecastDomain.IntensityBalanced, forecast.Intensity)
}

func TestLocalContainer_InterventionFlow(t *testing.T) {
	ctx := context.Background()
	c, err := NewLocalContainer(ctx, localTestConfig(t), slog.Default())
	require.NoError(t, err)
	defer c.Close()

	userID := uuid.New()
	condition := interventionsDomain.Condition{
		ActivityType:    interventionsDomain.ActivityIdle,
		DurationMinutes: 30,
	}
	_, err = c.InterventionService.CreateRule(ctx, userID, "long idle",
		condition, interventionsDomain.MethodPush, "Time for a break!", 1)
	require.NoError(t, err)

	intervention, err := c.InterventionService.OnActivity(ctx, userID,
		interventionsDomain.ActivityIdle, time.Now().UTC(), 45)
	require.NoError(t, err)
	require.NotNil(t, intervention)
	assert.Equal(t, "Time for a break!", intervention.Message())
}
