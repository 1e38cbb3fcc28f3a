package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/interventions/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresInterventionRepository implements domain.InterventionRepository
// using PostgreSQL.
type PostgresInterventionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresInterventionRepository creates a new PostgreSQL intervention
// repository.
func NewPostgresInterventionRepository(pool *pgxpool.Pool) *PostgresInterventionRepository {
	return &PostgresInterventionRepository{pool: pool}
}

// Save appends an intervention to the delivery log.
func (r *PostgresInterventionRepository) Save(ctx context.Context, intervention *domain.Intervention) error {
	query := `
		INSERT INTO interventions (
			id, user_id, rule_id, rule_name, method, message,
			triggered_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		intervention.ID(),
		intervention.UserID(),
		intervention.RuleID(),
		intervention.RuleName(),
		string(intervention.Method()),
		intervention.Message(),
		intervention.TriggeredAt(),
		intervention.CreatedAt(),
		intervention.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save intervention: %w", err)
	}
	return nil
}

// FindByUserSince returns interventions triggered at or after since,
// newest first.
func (r *PostgresInterventionRepository) FindByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Intervention, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT id, user_id, rule_id, rule_name, method, message,
		       triggered_at, created_at, updated_at
		FROM interventions
		WHERE user_id = $1 AND triggered_at >= $2
		ORDER BY triggered_at DESC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query interventions: %w", err)
	}
	defer rows.Close()

	var interventions []*domain.Intervention
	for rows.Next() {
		var (
			id, uid, ruleID                 uuid.UUID
			ruleName, method, message       string
			triggeredAt, createdAt, updated time.Time
		)
		err := rows.Scan(&id, &uid, &ruleID, &ruleName, &method, &message,
			&triggeredAt, &createdAt, &updated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan intervention: %w", err)
		}

		interventions = append(interventions, domain.RehydrateIntervention(
			id, uid, ruleID, ruleName, domain.Method(method), message,
			triggeredAt, createdAt, updated,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate interventions: %w", err)
	}
	return interventions, nil
}
