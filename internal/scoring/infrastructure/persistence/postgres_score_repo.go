package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScoreRepository implements domain.ScoreRepository using PostgreSQL.
type PostgresScoreRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScoreRepository creates a new PostgreSQL score repository.
func NewPostgresScoreRepository(pool *pgxpool.Pool) *PostgresScoreRepository {
	return &PostgresScoreRepository{pool: pool}
}

// Upsert inserts or updates the record for its (user, date) key. The
// ON CONFLICT clause makes concurrent upserts race-safe.
func (r *PostgresScoreRepository) Upsert(ctx context.Context, record *domain.ScoreRecord) error {
	recommendations, err := json.Marshal(record.Recommendations())
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO risk_scores (
			id, user_id, score_date, score, risk_level,
			meeting_hours, work_hours, focus_blocks, break_hours, sleep_hours,
			meeting_component, work_component, focus_component, break_component, sleep_component,
			insight, recommendations, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id, score_date) DO UPDATE SET
			score = EXCLUDED.score,
			risk_level = EXCLUDED.risk_level,
			meeting_hours = EXCLUDED.meeting_hours,
			work_hours = EXCLUDED.work_hours,
			focus_blocks = EXCLUDED.focus_blocks,
			break_hours = EXCLUDED.break_hours,
			sleep_hours = EXCLUDED.sleep_hours,
			meeting_component = EXCLUDED.meeting_component,
			work_component = EXCLUDED.work_component,
			focus_component = EXCLUDED.focus_component,
			break_component = EXCLUDED.break_component,
			sleep_component = EXCLUDED.sleep_component,
			insight = EXCLUDED.insight,
			recommendations = EXCLUDED.recommendations,
			updated_at = EXCLUDED.updated_at
	`

	metrics := record.Metrics()
	components := record.Components()

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err = execer.Exec(ctx, query,
		record.ID(),
		record.UserID(),
		record.Date(),
		record.Score(),
		string(record.RiskLevel()),
		metrics.MeetingHours,
		metrics.WorkHours,
		metrics.FocusBlocks,
		metrics.BreakHours,
		metrics.SleepHours,
		components.Meeting,
		components.Work,
		components.Focus,
		components.Break,
		components.Sleep,
		record.Insight(),
		recommendations,
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score record: %w", err)
	}
	return nil
}

const postgresSelectScore = `
	SELECT id, user_id, score_date, score, risk_level,
	       meeting_hours, work_hours, focus_blocks, break_hours, sleep_hours,
	       meeting_component, work_component, focus_component, break_component, sleep_component,
	       insight, recommendations, created_at, updated_at
	FROM risk_scores
`

// FindByUserAndDate retrieves the record for the given day.
func (r *PostgresScoreRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.ScoreRecord, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	row := execer.QueryRow(ctx, postgresSelectScore+` WHERE user_id = $1 AND score_date = $2`, userID, date)

	record, err := scanPostgresScore(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to find score record: %w", err)
	}
	return record, nil
}

// FindByUserInRange retrieves records with date in [start, end], ascending.
func (r *PostgresScoreRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.ScoreRecord, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, postgresSelectScore+`
		WHERE user_id = $1 AND score_date >= $2 AND score_date <= $3
		ORDER BY score_date
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query score records: %w", err)
	}
	defer rows.Close()

	var records []*domain.ScoreRecord
	for rows.Next() {
		record, err := scanPostgresScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score records: %w", err)
	}
	return records, nil
}

func scanPostgresScore(row pgx.Row) (*domain.ScoreRecord, error) {
	var (
		id, userID           uuid.UUID
		date                 time.Time
		score                float64
		riskLevel, insight   string
		metrics              domain.DayMetrics
		components           domain.ComponentScores
		recommendations      []byte
		createdAt, updatedAt time.Time
	)

	err := row.Scan(
		&id, &userID, &date, &score, &riskLevel,
		&metrics.MeetingHours, &metrics.WorkHours, &metrics.FocusBlocks,
		&metrics.BreakHours, &metrics.SleepHours,
		&components.Meeting, &components.Work, &components.Focus,
		&components.Break, &components.Sleep,
		&insight, &recommendations, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	var recs []string
	if len(recommendations) > 0 {
		if err := json.Unmarshal(recommendations, &recs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
	}

	return domain.RehydrateScoreRecord(
		id, userID, date, score, domain.RiskLevel(riskLevel),
		metrics, components, insight, recs, createdAt, updatedAt,
	), nil
}
