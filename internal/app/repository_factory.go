package app

import (
	"database/sql"
	"fmt"

	calendarDomain "github.com/askoglund/balans/internal/calendar/domain"
	calendarPersistence "github.com/askoglund/balans/internal/calendar/infrastructure/persistence"
	insightsDomain "github.com/askoglund/balans/internal/insights/domain"
	insightsPersistence "github.com/askoglund/balans/internal/insights/infrastructure/persistence"
	interventionsDomain "github.com/askoglund/balans/internal/interventions/domain"
	interventionsPersistence "github.com/askoglund/balans/internal/interventions/infrastructure/persistence"
	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
	scoringPersistence "github.com/askoglund/balans/internal/scoring/infrastructure/persistence"
	"github.com/askoglund/balans/internal/shared/infrastructure/database"
	"github.com/askoglund/balans/internal/shared/infrastructure/outbox"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// EventRepository creates a calendar event repository for the configured driver.
func (f *RepositoryFactory) EventRepository() (calendarDomain.EventRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return calendarPersistence.NewPostgresEventRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return calendarPersistence.NewSQLiteEventRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ScoreRepository creates a risk score repository for the configured driver.
func (f *RepositoryFactory) ScoreRepository() (scoringDomain.ScoreRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return scoringPersistence.NewPostgresScoreRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return scoringPersistence.NewSQLiteScoreRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// ThresholdRepository creates a threshold profile repository for the configured driver.
func (f *RepositoryFactory) ThresholdRepository() (scoringDomain.ThresholdRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return scoringPersistence.NewPostgresThresholdRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return scoringPersistence.NewSQLiteThresholdRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// PatternRepository creates a stress pattern repository for the configured driver.
func (f *RepositoryFactory) PatternRepository() (insightsDomain.PatternRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return insightsPersistence.NewPostgresPatternRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return insightsPersistence.NewSQLitePatternRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// RuleRepository creates an intervention rule repository for the configured driver.
func (f *RepositoryFactory) RuleRepository() (interventionsDomain.RuleRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return interventionsPersistence.NewPostgresRuleRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return interventionsPersistence.NewSQLiteRuleRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// PreferenceRepository creates a notification preference repository for the configured driver.
func (f *RepositoryFactory) PreferenceRepository() (interventionsDomain.PreferenceRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return interventionsPersistence.NewPostgresPreferenceRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return interventionsPersistence.NewSQLitePreferenceRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// InterventionRepository creates an intervention log repository for the configured driver.
func (f *RepositoryFactory) InterventionRepository() (interventionsDomain.InterventionRepository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return interventionsPersistence.NewPostgresInterventionRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return interventionsPersistence.NewSQLiteInterventionRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates an outbox repository for the configured driver.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		pool, err := f.getPostgresPool()
		if err != nil {
			return nil, err
		}
		return outbox.NewPostgresRepository(pool), nil

	case database.DriverSQLite:
		db, err := f.getSQLiteDB()
		if err != nil {
			return nil, err
		}
		return outbox.NewSQLiteRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// Helper methods to get underlying database connections

func (f *RepositoryFactory) getPostgresPool() (*pgxpool.Pool, error) {
	pgConn, ok := f.conn.(interface{ Pool() *pgxpool.Pool })
	if !ok {
		return nil, fmt.Errorf("postgres connection does not expose Pool()")
	}
	return pgConn.Pool(), nil
}

func (f *RepositoryFactory) getSQLiteDB() (*sql.DB, error) {
	sqliteConn, ok := f.conn.(interface{ DB() *sql.DB })
	if !ok {
		return nil, fmt.Errorf("sqlite connection does not expose DB()")
	}
	return sqliteConn.DB(), nil
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
