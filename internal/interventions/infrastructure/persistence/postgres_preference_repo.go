package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/interventions/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPreferenceRepository implements domain.PreferenceRepository using
// PostgreSQL.
type PostgresPreferenceRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPreferenceRepository creates a new PostgreSQL preference
// repository.
func NewPostgresPreferenceRepository(pool *pgxpool.Pool) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{pool: pool}
}

// GetMethod returns the user's preferred delivery method. The second
// return value reports whether a preference is set.
func (r *PostgresPreferenceRepository) GetMethod(ctx context.Context, userID uuid.UUID) (domain.Method, bool, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)

	var method sql.NullString
	err := execer.QueryRow(ctx,
		`SELECT intervention_method FROM user_preferences WHERE user_id = $1`,
		userID).Scan(&method)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read user preference: %w", err)
	}
	if !method.Valid || method.String == "" {
		return "", false, nil
	}
	return domain.Method(method.String), true, nil
}

// SetMethod stores or replaces the user's preferred delivery method.
func (r *PostgresPreferenceRepository) SetMethod(ctx context.Context, userID uuid.UUID, method domain.Method) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO user_preferences (user_id, intervention_method, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			intervention_method = EXCLUDED.intervention_method,
			updated_at = EXCLUDED.updated_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	if _, err := execer.Exec(ctx, query, userID, string(method), now); err != nil {
		return fmt.Errorf("failed to set user preference: %w", err)
	}
	return nil
}
