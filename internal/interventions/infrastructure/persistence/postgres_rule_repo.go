package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/interventions/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRuleRepository implements domain.RuleRepository using PostgreSQL.
type PostgresRuleRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRuleRepository creates a new PostgreSQL rule repository.
func NewPostgresRuleRepository(pool *pgxpool.Pool) *PostgresRuleRepository {
	return &PostgresRuleRepository{pool: pool}
}

// Save inserts a rule.
func (r *PostgresRuleRepository) Save(ctx context.Context, rule *domain.InterventionRule) error {
	query := `
		INSERT INTO intervention_rules (
			id, user_id, name, rule_type, condition_activity_type,
			condition_duration_minutes, method, message_template,
			priority, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		rule.ID(),
		rule.UserID(),
		rule.Name(),
		string(rule.RuleType()),
		rule.Condition().ActivityType,
		rule.Condition().DurationMinutes,
		string(rule.Method()),
		rule.MessageTemplate(),
		rule.Priority(),
		rule.IsActive(),
		rule.CreatedAt(),
		rule.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save intervention rule: %w", err)
	}
	return nil
}

// Update persists changes to an existing rule.
func (r *PostgresRuleRepository) Update(ctx context.Context, rule *domain.InterventionRule) error {
	query := `
		UPDATE intervention_rules
		SET name = $1, condition_activity_type = $2, condition_duration_minutes = $3,
		    method = $4, message_template = $5, priority = $6, active = $7, updated_at = $8
		WHERE id = $9
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, query,
		rule.Name(),
		rule.Condition().ActivityType,
		rule.Condition().DurationMinutes,
		string(rule.Method()),
		rule.MessageTemplate(),
		rule.Priority(),
		rule.IsActive(),
		rule.UpdatedAt(),
		rule.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update intervention rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

const postgresSelectRule = `
	SELECT id, user_id, name, rule_type, condition_activity_type,
	       condition_duration_minutes, method, message_template,
	       priority, active, created_at, updated_at
	FROM intervention_rules
`

// FindByID retrieves a rule by its id.
func (r *PostgresRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InterventionRule, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	row := execer.QueryRow(ctx, postgresSelectRule+` WHERE id = $1`, id)

	rule, err := scanPostgresRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to find intervention rule: %w", err)
	}
	return rule, nil
}

// FindByUser retrieves all of a user's rules in evaluation order.
func (r *PostgresRuleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.InterventionRule, error) {
	return r.queryRules(ctx,
		postgresSelectRule+` WHERE user_id = $1 ORDER BY priority DESC, created_at ASC`,
		userID)
}

// FindActiveByUser retrieves the user's active rules in evaluation order:
// priority descending, oldest first on ties.
func (r *PostgresRuleRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.InterventionRule, error) {
	return r.queryRules(ctx,
		postgresSelectRule+` WHERE user_id = $1 AND active = TRUE ORDER BY priority DESC, created_at ASC`,
		userID)
}

func (r *PostgresRuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]*domain.InterventionRule, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query intervention rules: %w", err)
	}
	defer rows.Close()

	var rules []*domain.InterventionRule
	for rows.Next() {
		rule, err := scanPostgresRule(rows)
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

func scanPostgresRule(row pgx.Row) (*domain.InterventionRule, error) {
	var (
		id, userID             uuid.UUID
		name                   string
		ruleType, activityType string
		durationMinutes        int
		method, template       string
		priority               int
		active                 bool
		createdAt, updatedAt   time.Time
	)

	err := row.Scan(
		&id, &userID, &name, &ruleType, &activityType,
		&durationMinutes, &method, &template,
		&priority, &active, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateInterventionRule(
		id, userID, name, domain.RuleType(ruleType),
		domain.Condition{ActivityType: activityType, DurationMinutes: durationMinutes},
		domain.Method(method), template, priority, active,
		createdAt, updatedAt,
	), nil
}
