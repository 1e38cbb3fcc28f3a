package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/askoglund/balans/adapter/cli"
	"github.com/askoglund/balans/adapter/cli/activity"
	"github.com/askoglund/balans/adapter/cli/events"
	"github.com/askoglund/balans/adapter/cli/forecast"
	"github.com/askoglund/balans/adapter/cli/insights"
	"github.com/askoglund/balans/adapter/cli/rules"
	"github.com/askoglund/balans/adapter/cli/score"
	"github.com/askoglund/balans/internal/app"
	"github.com/askoglund/balans/pkg/config"
	"github.com/askoglund/balans/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	// Setup logger
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development", LocalMode: true}
	}

	// Rebuild logger from config
	logCfg := observability.DefaultLogConfig()
	if cfg.IsProduction() {
		logCfg = observability.ProductionLogConfig()
	}
	if cfg.LogLevel != "" {
		logCfg.Level = observability.LogLevel(cfg.LogLevel)
	}
	logger = observability.NewLogger(logCfg)
	cli.SetLogger(logger)

	// Local mode runs against embedded SQLite; server mode needs Postgres.
	var container *app.Container
	if cfg.LocalMode {
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Start outbox processor in background (optional in CLI)
	if container.OutboxProcessor != nil {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Warn("failed to start outbox processor", "error", err)
		}
	}

	cliApp := cli.NewApp(
		container.ScoringService,
		container.InsightsService,
		container.ForecastService,
		container.InterventionService,
		container.EventRepo,
	)

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid BALANS_USER_ID", "error", err)
		os.Exit(1)
	}
	cliApp.SetCurrentUserID(userID)
	cli.SetApp(cliApp)

	// Register command groups
	cli.AddCommand(score.Cmd)
	cli.AddCommand(insights.Cmd)
	cli.AddCommand(forecast.Cmd)
	cli.AddCommand(rules.Cmd)
	cli.AddCommand(activity.Cmd)
	cli.AddCommand(events.Cmd)

	cli.Execute()
}
