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
)

// SQLitePreferenceRepository implements domain.PreferenceRepository using
// SQLite.
type SQLitePreferenceRepository struct {
	db *sql.DB
}

// NewSQLitePreferenceRepository creates a new SQLite preference repository.
func NewSQLitePreferenceRepository(db *sql.DB) *SQLitePreferenceRepository {
	return &SQLitePreferenceRepository{db: db}
}

func (r *SQLitePreferenceRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// GetMethod returns the user's preferred delivery method. The second
// return value reports whether a preference is set.
func (r *SQLitePreferenceRepository) GetMethod(ctx context.Context, userID uuid.UUID) (domain.Method, bool, error) {
	var method sql.NullString
	err := r.querier(ctx).QueryRowContext(ctx,
		`SELECT intervention_method FROM user_preferences WHERE user_id = ?`,
		userID.String()).Scan(&method)
	if errors.Is(err, sql.ErrNoRows) {
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
func (r *SQLitePreferenceRepository) SetMethod(ctx context.Context, userID uuid.UUID, method domain.Method) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO user_preferences (user_id, intervention_method, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			intervention_method = excluded.intervention_method,
			updated_at = excluded.updated_at
	`

	_, err := r.querier(ctx).ExecContext(ctx, query, userID.String(), string(method), now, now)
	if err != nil {
		return fmt.Errorf("failed to set user preference: %w", err)
	}
	return nil
}
