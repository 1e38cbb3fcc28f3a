package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/insights/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLitePatternRepository implements domain.PatternRepository using SQLite.
type SQLitePatternRepository struct {
	db *sql.DB
}

// NewSQLitePatternRepository creates a new SQLite pattern repository.
func NewSQLitePatternRepository(db *sql.DB) *SQLitePatternRepository {
	return &SQLitePatternRepository{db: db}
}

func (r *SQLitePatternRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Save inserts a pattern.
func (r *SQLitePatternRepository) Save(ctx context.Context, pattern *domain.StressPattern) error {
	metadata, err := json.Marshal(pattern.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal pattern metadata: %w", err)
	}

	query := `
		INSERT INTO stress_patterns (
			id, user_id, pattern_type, description, severity,
			frequency, active, metadata, detected_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.querier(ctx).ExecContext(ctx, query,
		pattern.ID().String(),
		pattern.UserID().String(),
		pattern.PatternType(),
		pattern.Description(),
		string(pattern.Severity()),
		pattern.Frequency(),
		boolToInt(pattern.IsActive()),
		string(metadata),
		pattern.DetectedAt().UTC().Format(time.RFC3339),
		pattern.CreatedAt().UTC().Format(time.RFC3339),
		pattern.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save stress pattern: %w", err)
	}
	return nil
}

// Update persists changes to an existing pattern.
func (r *SQLitePatternRepository) Update(ctx context.Context, pattern *domain.StressPattern) error {
	metadata, err := json.Marshal(pattern.Metadata())
	if err != nil {
		return fmt.Errorf("failed to marshal pattern metadata: %w", err)
	}

	query := `
		UPDATE stress_patterns
		SET description = ?, severity = ?, frequency = ?, active = ?,
		    metadata = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.querier(ctx).ExecContext(ctx, query,
		pattern.Description(),
		string(pattern.Severity()),
		pattern.Frequency(),
		boolToInt(pattern.IsActive()),
		string(metadata),
		pattern.UpdatedAt().UTC().Format(time.RFC3339),
		pattern.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update stress pattern: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrPatternNotFound
	}
	return nil
}

const sqliteSelectPattern = `
	SELECT id, user_id, pattern_type, description, severity,
	       frequency, active, metadata, detected_at, created_at, updated_at
	FROM stress_patterns
`

// FindByID retrieves a pattern by its id.
func (r *SQLitePatternRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.StressPattern, error) {
	row := r.querier(ctx).QueryRowContext(ctx,
		sqliteSelectPattern+` WHERE id = ?`, id.String())

	pattern, err := scanSQLitePattern(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPatternNotFound
		}
		return nil, fmt.Errorf("failed to find stress pattern: %w", err)
	}
	return pattern, nil
}

// FindByUser retrieves all of a user's patterns, newest first.
func (r *SQLitePatternRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return r.queryPatterns(ctx,
		sqliteSelectPattern+` WHERE user_id = ? ORDER BY detected_at DESC`,
		userID.String())
}

// FindActiveByUser retrieves the user's active patterns, newest first.
func (r *SQLitePatternRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StressPattern, error) {
	return r.queryPatterns(ctx,
		sqliteSelectPattern+` WHERE user_id = ? AND active = 1 ORDER BY detected_at DESC`,
		userID.String())
}

func (r *SQLitePatternRepository) queryPatterns(ctx context.Context, query string, args ...any) ([]*domain.StressPattern, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stress patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*domain.StressPattern
	for rows.Next() {
		pattern, err := scanSQLitePattern(rows)
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

func scanSQLitePattern(row scanner) (*domain.StressPattern, error) {
	var (
		idStr, userIDStr                    string
		patternType, description, severity  string
		frequency, metadataJSON             string
		active                              int
		detectedAtStr, createdAtStr, updStr string
	)

	err := row.Scan(
		&idStr, &userIDStr, &patternType, &description, &severity,
		&frequency, &active, &metadataJSON, &detectedAtStr, &createdAtStr, &updStr,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	detectedAt, err := time.Parse(time.RFC3339, detectedAtStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updStr)
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pattern metadata: %w", err)
		}
	}

	return domain.RehydrateStressPattern(
		id, userID, patternType, description, domain.Severity(severity),
		frequency, metadata, detectedAt, active == 1, createdAt, updatedAt,
	), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
