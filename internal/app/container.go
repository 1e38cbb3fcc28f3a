// Package app wires configuration, infrastructure, and context services
// into a single dependency container.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	calendarInfra "github.com/askoglund/balans/internal/calendar/infrastructure"
	forecastApp "github.com/askoglund/balans/internal/forecast/application"
	forecastQueries "github.com/askoglund/balans/internal/forecast/application/queries"
	insightsApp "github.com/askoglund/balans/internal/insights/application"
	insightsQueries "github.com/askoglund/balans/internal/insights/application/queries"
	insightsServices "github.com/askoglund/balans/internal/insights/application/services"
	insightsDomain "github.com/askoglund/balans/internal/insights/domain"
	interventionsApp "github.com/askoglund/balans/internal/interventions/application"
	interventionsCommands "github.com/askoglund/balans/internal/interventions/application/commands"
	interventionsServices "github.com/askoglund/balans/internal/interventions/application/services"
	interventionsDomain "github.com/askoglund/balans/internal/interventions/domain"
	"github.com/askoglund/balans/internal/interventions/infrastructure/notification"
	scoringApp "github.com/askoglund/balans/internal/scoring/application"
	scoringCommands "github.com/askoglund/balans/internal/scoring/application/commands"
	scoringQueries "github.com/askoglund/balans/internal/scoring/application/queries"
	scoringServices "github.com/askoglund/balans/internal/scoring/application/services"
	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
	scoringCache "github.com/askoglund/balans/internal/scoring/infrastructure/cache"
	sharedApplication "github.com/askoglund/balans/internal/shared/application"
	"github.com/askoglund/balans/internal/shared/infrastructure/database"
	_ "github.com/askoglund/balans/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/askoglund/balans/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/askoglund/balans/internal/shared/infrastructure/eventbus"
	"github.com/askoglund/balans/internal/shared/infrastructure/migrations"
	"github.com/askoglund/balans/internal/shared/infrastructure/outbox"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/askoglund/balans/pkg/config"
	"github.com/askoglund/balans/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB             *pgxpool.Pool
	DBConn         database.Connection
	DBDriver       database.Driver
	RedisClient    *redis.Client
	EventPublisher eventbus.Publisher
	Metrics        observability.Metrics
	UnitOfWork     sharedApplication.UnitOfWork

	// Repositories
	EventRepo        calendarDomain.EventRepository
	EventSource      calendarDomain.EventSource
	ScoreRepo        scoringDomain.ScoreRepository
	ThresholdRepo    scoringDomain.ThresholdRepository
	PatternRepo      insightsDomain.PatternRepository
	RuleRepo         interventionsDomain.RuleRepository
	PreferenceRepo   interventionsDomain.PreferenceRepository
	InterventionRepo interventionsDomain.InterventionRepository
	OutboxRepo       outbox.Repository

	// Outbox
	OutboxProcessor *outbox.Processor

	// Context services
	ScoringService      *scoringApp.Service
	InsightsService     *insightsApp.Service
	ForecastService     *forecastApp.Service
	InterventionService *interventionsApp.Service
}

// NewContainer creates and wires all dependencies against PostgreSQL,
// Redis, and RabbitMQ. Redis and RabbitMQ are optional in development.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Connect to PostgreSQL
	conn, err := database.NewConnection(ctx, database.Config{
		Driver: database.DriverPostgres,
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()

	factory := NewRepositoryFactory(conn)
	pool, err := factory.getPostgresPool()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.DB = pool
	logger.Info("connected to database")

	// Connect to Redis (optional in development)
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, threshold cache disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					pool.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, threshold cache disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	// Create repositories
	if err := c.buildRepositories(factory); err != nil {
		c.Close()
		return nil, err
	}
	c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)

	// Remote calendar backends sit behind a circuit breaker so a stalled
	// provider fails fast instead of blocking scoring.
	c.EventSource = calendarInfra.NewBreakerEventSource(
		calendarDomain.NewRepositoryEventSource(c.EventRepo),
		calendarInfra.DefaultBreakerConfig(),
		logger,
	)

	// Create event publisher
	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		// Fall back to noop publisher in development
		if cfg.IsDevelopment() {
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.Close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	} else {
		c.EventPublisher = publisher
	}

	c.buildServices(logger)
	c.buildOutboxProcessor(logger)

	return c, nil
}

// NewLocalContainer creates and wires all dependencies against an embedded
// SQLite database. Outbox events are drained into an in-process bus, so
// local mode delivers interventions without a broker.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	conn, err := initSQLiteConnection(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()

	factory := NewRepositoryFactory(conn)
	if err := c.buildRepositories(factory); err != nil {
		c.Close()
		return nil, err
	}

	db, err := factory.getSQLiteDB()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
	c.EventSource = calendarDomain.NewRepositoryEventSource(c.EventRepo)

	bus := eventbus.NewInProcessEventBus(logger)
	bus.RegisterConsumer(notification.NewDeliveryConsumer(logger))
	c.EventPublisher = eventbus.NewInProcessPublisher(bus, logger)

	c.buildServices(logger)
	c.buildOutboxProcessor(logger)

	return c, nil
}

// buildRepositories fills the container's repository fields from the factory.
func (c *Container) buildRepositories(factory *RepositoryFactory) error {
	var err error
	if c.EventRepo, err = factory.EventRepository(); err != nil {
		return err
	}
	if c.ScoreRepo, err = factory.ScoreRepository(); err != nil {
		return err
	}
	if c.ThresholdRepo, err = factory.ThresholdRepository(); err != nil {
		return err
	}
	if c.PatternRepo, err = factory.PatternRepository(); err != nil {
		return err
	}
	if c.RuleRepo, err = factory.RuleRepository(); err != nil {
		return err
	}
	if c.PreferenceRepo, err = factory.PreferenceRepository(); err != nil {
		return err
	}
	if c.InterventionRepo, err = factory.InterventionRepository(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	return nil
}

// buildServices wires the context service facades. Repositories, the unit
// of work, and the event source must already be set.
func (c *Container) buildServices(logger *slog.Logger) {
	cfg := c.Config
	if c.Metrics == nil {
		c.Metrics = observability.NoopMetrics{}
	}

	var thresholdCache scoringDomain.ThresholdCache
	if c.RedisClient != nil {
		thresholdCache = scoringCache.NewRedisThresholdCache(c.RedisClient, cfg.ThresholdCacheTTL)
	}
	thresholdStore := scoringServices.NewThresholdStore(c.ThresholdRepo, thresholdCache, c.OutboxRepo, c.UnitOfWork, c.Metrics, logger)
	extractor := scoringDomain.NewMetricsExtractor(cfg.BusinessHoursStart, cfg.BusinessHoursEnd)

	computeScore := scoringCommands.NewComputeScoreHandler(c.EventSource, thresholdStore, c.ScoreRepo, c.OutboxRepo, c.UnitOfWork, extractor, c.Metrics, logger)
	getHistory := scoringQueries.NewGetHistoryHandler(c.ScoreRepo)
	c.ScoringService = scoringApp.NewService(computeScore, getHistory, thresholdStore)

	getInsights := insightsQueries.NewGetInsightsHandler(c.ScoreRepo)
	patterns := insightsServices.NewPatternService(c.PatternRepo, c.ScoreRepo, c.OutboxRepo, c.UnitOfWork, c.Metrics, logger)
	c.InsightsService = insightsApp.NewService(getInsights, patterns)

	getForecast := forecastQueries.NewGetForecastHandler(c.EventSource, logger)
	c.ForecastService = forecastApp.NewService(getForecast, cfg.ForecastDays)

	onActivity := interventionsCommands.NewOnActivityHandler(c.RuleRepo, c.PreferenceRepo, c.InterventionRepo, c.OutboxRepo, c.UnitOfWork, c.Metrics, logger)
	ruleService := interventionsServices.NewRuleService(c.RuleRepo, c.PreferenceRepo)
	c.InterventionService = interventionsApp.NewService(onActivity, ruleService, c.InterventionRepo)
}

// buildOutboxProcessor creates the processor when enabled. The processor is
// not started here; callers that want background publishing call Start.
func (c *Container) buildOutboxProcessor(logger *slog.Logger) {
	cfg := c.Config
	if !cfg.OutboxProcessorEnabled {
		return
	}

	processorCfg := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorCfg.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorCfg.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorCfg.MaxRetries = cfg.OutboxMaxRetries
	}
	processorCfg.Metrics = c.Metrics
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, logger)
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	// Close SQLite connection if using local mode
	if c.DBConn != nil && c.DBDriver == database.DriverSQLite {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}

// initSQLiteConnection opens the local database and applies migrations.
func initSQLiteConnection(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	if err := database.EnsureDirectory(path); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: path,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	sqliteConn, ok := conn.(interface{ DB() *sql.DB })
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("sqlite connection does not expose DB()")
	}
	if err := migrations.RunSQLiteMigrations(ctx, sqliteConn.DB()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("local database ready", "path", path)
	return conn, nil
}
