package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/insights/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPatternRepository implements domain.PatternRepository using
// PostgreSQL.
type PostgresPatternRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPatternRepository creates a new PostgreSQL pattern repository.
func NewPostgresPatternRepository(pool *pgxpool.Pool) *PostgresPatternRepository {
	return &PostgresPatternRepository{pool: pool}
}

// Save inserts a pattern.
func (r *PostgresPatternRepository) Save(ctx context.Context, pattern *domain.StressPattern) error {
	metadata, err := json.Marshal(pattern.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal pattern metadata: %w", err)
	}

	query := `
		INSERT INTO stress_patterns (
			id, user_id, pattern_type, description, severity,
			frequency, active, metadata, detected_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err = execer.Exec(ctx, query,
		pattern.ID(),
		pattern.UserID(),
		pattern.PatternType(),
		pattern.Description(),
		string(pattern.Severity()),
		pattern.Frequency(),
		pattern.IsActive(),
		metadata,
		pattern.DetectedAt(),
		pattern.CreatedAt(),
		pattern.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save stress pattern: %w", err)
	}
	return nil
}

// Update persists changes to an existing pattern.
func (r *PostgresPatternRepository) Update(ctx context.Context, pattern *domain.StressPattern) error {
	metadata, err := json.Marshal(pattern.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal pattern metadata: %w", err)
	}

	query := `
		UPDATE stress_patterns
		SET description = $1, severity = $2, frequency = $3, active = $4,
		    metadata = $5, updated_at = $6
		WHERE id = $7
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, query,
		pattern.Description(),
		string(pattern.Severity()),
		pattern.Frequency(),
		pattern.IsActive(),
		metadata,
		pattern.UpdatedAt(),
		pattern.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update stress pattern: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPatternNotFound
	}
	return nil
}

const postgresSelectPattern = `
	SELECT id, user_id, pattern_type, description, severity,
	       frequency, active, metadata, detected_at, created_at, updated_at
	FROM stress_patterns
`

// FindByID retrieves a pattern by its id.
func (r *PostgresPatternRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.StressPattern, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	row := execer.QueryRow(ctx, postgresSelectPattern+` WHERE id = $1`, id)

	pattern, err := scanPostgresPattern(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPatternNotFound
		}
		return nil, fmt.Errorf("failed to find stress pattern: %w", err)
	}
	return pattern, nil
}

// FindByUser retrieves all of a user's patterns, newest first.
func (r *PostgresPatternRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return r.queryPatterns(ctx,
		postgresSelectPattern+` WHERE user_id = $1 ORDER BY detected_at DESC`,
		userID)
}

// FindActiveByUser retrieves the user's active patterns, newest first.
func (r *PostgresPatternRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return r.queryPatterns(ctx,
		postgresSelectPattern+` WHERE user_id = $1 AND active = TRUE ORDER BY detected_at DESC`,
		userID)
}

func (r *PostgresPatternRepository) queryPatterns(ctx context.Context, query string, args ...any) ([]*domain.StressPattern, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stress patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*domain.StressPattern
	for rows.Next() {
		pattern, err := scanPostgresPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stress pattern: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stress patterns: %w", err)
	}
	return patterns, nil
}

func scanPostgresPattern(row pgx.Row) (*domain.StressPattern, error) {
	var (
		id, userID                         uuid.UUID
		patternType, description, severity string
		frequency                          string
		active                             bool
		metadata                           []byte
		detectedAt, createdAt, updatedAt   time.Time
	)

	err := row.Scan(
		&id, &userID, &patternType, &description, &severity,
		&frequency, &active, &metadata, &detectedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var meta map[string]string
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pattern metadata: %w", err)
		}
	}

	return domain.RehydrateStressPattern(
		id, userID, patternType, description, domain.Severity(severity),
		frequency, meta, detectedAt, active, createdAt, updatedAt,
	), nil
}
