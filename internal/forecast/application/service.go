// Package application provides the forecast context's service facade.
package application

import (
	"context"
	"time"

	"github.com/askoglund/balans/internal/forecast/application/queries"
	"github.com/askoglund/balans/internal/forecast/domain"
	"github.com/google/uuid"
)

// Service is the facade external adapters use to interact with forecasting.
type Service struct {
	getForecast *queries.GetForecastHandler
	defaultDays int
}

// NewService creates the forecast service facade. defaultDays sets the
// window used when callers do not ask for a specific one; zero falls back
// to the standard three-day window.
func NewService(getForecast *queries.GetForecastHandler, defaultDays int) *Service {
	return &Service{getForecast: getForecast, defaultDays: defaultDays}
}

// GetForecast projects load over the configured window starting at from.
func (s *Service) GetForecast(ctx context.Context, userID uuid.UUID, from time.Time) (domain.ForecastResult, error) {
	return s.getForecast.Handle(ctx, queries.GetForecastQuery{
		UserID: userID,
		From:   from,
		Days:   s.defaultDays,
	})
}
