package cli

import (
	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	forecastApp "github.com/askoglund/balans/internal/forecast/application"
	insightsApp "github.com/askoglund/balans/internal/insights/application"
	interventionsApp "github.com/askoglund/balans/internal/interventions/application"
	scoringApp "github.com/askoglund/balans/internal/scoring/application"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	ScoringService      *scoringApp.Service
	InsightsService     *insightsApp.Service
	ForecastService     *forecastApp.Service
	InterventionService *interventionsApp.Service

	// EventRepo lets local mode record calendar events directly.
	EventRepo calendarDomain.EventRepository

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided services.
func NewApp(
	scoring *scoringApp.Service,
	insights *insightsApp.Service,
	forecast *forecastApp.Service,
	interventions *interventionsApp.Service,
	eventRepo calendarDomain.EventRepository,
) *App {
	return &App{
		ScoringService:      scoring,
		InsightsService:     insights,
		ForecastService:     forecast,
		InterventionService: interventions,
		EventRepo:           eventRepo,
	}
}

// SetCurrentUserID sets the user all commands act on behalf of.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
