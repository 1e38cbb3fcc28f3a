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

// SQLiteRuleRepository implements domain.RuleRepository using SQLite.
type SQLiteRuleRepository struct {
	db *sql.DB
}

// NewSQLiteRuleRepository creates a new SQLite rule repository.
func NewSQLiteRuleRepository(db *sql.DB) *SQLiteRuleRepository {
	return &SQLiteRuleRepository{db: db}
}

func (r *SQLiteRuleRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Save inserts a rule.
func (r *SQLiteRuleRepository) Save(ctx context.Context, rule *domain.InterventionRule) error {
	query := `
		INSERT INTO intervention_rules (
			id, user_id, name, rule_type, condition_activity_type,
			condition_duration_minutes, method, message_template,
			priority, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.querier(ctx).ExecContext(ctx, query,
		rule.ID().String(),
		rule.UserID().String(),
		rule.Name(),
		string(rule.RuleType()),
		rule.Condition().ActivityType,
		rule.Condition().DurationMinutes,
		string(rule.Method()),
		rule.MessageTemplate(),
		rule.Priority(),
		boolToInt(rule.IsActive()),
		rule.CreatedAt().UTC().Format(time.RFC3339),
		rule.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save intervention rule: %w", err)
	}
	return nil
}

// Update persists changes to an existing rule.
func (r *SQLiteRuleRepository) Update(ctx context.Context, rule *domain.InterventionRule) error {
	query := `
		UPDATE intervention_rules
		SET name = ?, condition_activity_type = ?, condition_duration_minutes = ?,
		    method = ?, message_template = ?, priority = ?, active = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.querier(ctx).ExecContext(ctx, query,
		rule.Name(),
		rule.Condition().ActivityType,
		rule.Condition().DurationMinutes,
		string(rule.Method()),
		rule.MessageTemplate(),
		rule.Priority(),
		boolToInt(rule.IsActive()),
		rule.UpdatedAt().UTC().Format(time.RFC3339),
		rule.ID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update intervention rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

const sqliteSelectRule = `
	SELECT id, user_id, name, rule_type, condition_activity_type,
	       condition_duration_minutes, method, message_template,
	       priority, active, created_at, updated_at
	FROM intervention_rules
`

// FindByID retrieves a rule by its id.
func (r *SQLiteRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InterventionRule, error) {
	row := r.querier(ctx).QueryRowContext(ctx,
		sqliteSelectRule+` WHERE id = ?`, id.String())

	rule, err := scanSQLiteRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to find intervention rule: %w", err)
	}
	return rule, nil
}

// FindByUser retrieves all of a user's rules in evaluation order.
func (r *SQLiteRuleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.InterventionRule, error) {
	return r.queryRules(ctx,
		sqliteSelectRule+` WHERE user_id = ? ORDER BY priority DESC, created_at ASC`,
		userID.String())
}

// FindActiveByUser retrieves the user's active rules in evaluation order:
// priority descending, oldest first on ties.
func (r *SQLiteRuleRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.InterventionRule, error) {
	return r.queryRules(ctx,
		sqliteSelectRule+` WHERE user_id = ? AND active = 1 ORDER BY priority DESC, created_at ASC`,
		userID.String())
}

func (r *SQLiteRuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]*domain.InterventionRule, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query intervention rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.InterventionRule
	for rows.Next() {
		rule, err := scanSQLiteRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intervention rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate intervention rules: %w", err)
	}
	return rules, nil
}

func scanSQLiteRule(row scanner) (*domain.InterventionRule, error) {
	var (
		idStr, userIDStr, name     string
		ruleType, activityType     string
		durationMinutes            int
		method, template           string
		priority, active           int
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&idStr, &userIDStr, &name, &ruleType, &activityType,
		&durationMinutes, &method, &template,
		&priority, &active, &createdAtStr, &updatedAtStr,
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
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateInterventionRule(
		id, userID, name, domain.RuleType(ruleType),
		domain.Condition{ActivityType: activityType, DurationMinutes: durationMinutes},
		domain.Method(method), template, priority, active == 1,
		createdAt, updatedAt,
	), nil
}
