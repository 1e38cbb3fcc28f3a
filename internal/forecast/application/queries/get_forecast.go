// Package queries contains query handlers for the forecast context.
package queries

import (
	"context"
	"log/slog"
	"time"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	"github.com/askoglund/balans/internal/forecast/domain"
	"github.com/google/uuid"
)

// GetForecastQuery requests a load projection from a start date. Days
// defaults to the standard three-day window.
type GetForecastQuery struct {
	UserID uuid.UUID
	From   time.Time
	Days   int
}

// QueryName implements application.Query.
func (q GetForecastQuery) QueryName() string { return "forecast.get_forecast" }

// GetForecastHandler projects near-term load from scheduled events.
type GetForecastHandler struct {
	events     calendarDomain.EventSource
	forecaster *domain.Forecaster
	logger     *slog.Logger
}

// NewGetForecastHandler creates a new GetForecastHandler.
func NewGetForecastHandler(events calendarDomain.EventSource, logger *slog.Logger) *GetForecastHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetForecastHandler{
		events:     events,
		forecaster: domain.NewForecaster(),
		logger:     logger,
	}
}

// Handle pulls the scheduled events for the window and classifies them.
func (h *GetForecastHandler) Handle(ctx context.Context, query GetForecastQuery) (domain.ForecastResult, error) {
	from := query.From
	if from.IsZero() {
		from = time.Now().UTC()
	}
	days := query.Days
	if days <= 0 {
		days = domain.DefaultForecastDays
	}

	windowStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, days)

	events, err := h.events.EventsInRange(ctx, query.UserID, windowStart, windowEnd)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	result := h.forecaster.Forecast(query.UserID, windowStart, days, events)
	h.logger.Debug("forecast computed",
		"user_id", query.UserID,
		"intensity", result.Intensity,
		"total_meetings", result.TotalMeetings,
	)
	return result, nil
}
