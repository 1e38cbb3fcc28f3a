package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/interventions/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteInterventionRepository implements domain.InterventionRepository
// using SQLite.
type SQLiteInterventionRepository struct {
	db *sql.DB
}

// NewSQLiteInterventionRepository creates a new SQLite intervention
// repository.
func NewSQLiteInterventionRepository(db *sql.DB) *SQLiteInterventionRepository {
	return &SQLiteInterventionRepository{db: db}
}

func (r *SQLiteInterventionRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Save appends an intervention to the delivery log.
func (r *SQLiteInterventionRepository) Save(ctx context.Context, intervention *domain.Intervention) error {
	query := `
		INSERT INTO interventions (
			id, user_id, rule_id, rule_name, method, message,
			triggered_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.querier(ctx).ExecContext(ctx, query,
		intervention.ID().String(),
		intervention.UserID().String(),
		intervention.RuleID().String(),
		intervention.RuleName(),
		string(intervention.Method()),
		intervention.Message(),
		intervention.TriggeredAt().UTC().Format(time.RFC3339),
		intervention.CreatedAt().UTC().Format(time.RFC3339),
		intervention.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save intervention: %w", err)
	}
	return nil
}

// FindByUserSince returns interventions triggered at or after since,
// newest first.
func (r *SQLiteInterventionRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Intervention, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, user_id, rule_id, rule_name, method, message,
		       triggered_at, created_at, updated_at
		FROM interventions
		WHERE user_id = ? AND triggered_at >= ?
		ORDER BY triggered_at DESC
	`, userID.String(), since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query interventions: %w", err)
	}
	defer rows.Close()

	var interventions []*domain.Intervention
	for rows.Next() {
		var (
			idStr, userIDStr, ruleIDStr string
			ruleName, method, message   string
			triggeredAtStr              string
			createdAtStr, updatedAtStr  string
		)
		err := rows.Scan(&idStr, &userIDStr, &ruleIDStr, &ruleName, &method,
			&message, &triggeredAtStr, &createdAtStr, &updatedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intervention: %w", err)
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		uid, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, err
		}
		ruleID, err := uuid.Parse(ruleIDStr)
		if err != nil {
			return nil, err
		}
		triggeredAt, err := time.Parse(time.RFC3339, triggeredAtStr)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, err
		}
		updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
		if err != nil {
			return nil, err
		}

		interventions = append(interventions, domain.RehydrateIntervention(
			id, uid, ruleID, ruleName, domain.Method(method), message,
			triggeredAt, createdAt, updatedAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interventions: %w", err)
	}
	return interventions, nil
}
