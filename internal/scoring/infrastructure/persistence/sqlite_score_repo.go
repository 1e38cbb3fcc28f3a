package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteScoreRepository implements domain.ScoreRepository using SQLite.
// Dates are stored as YYYY-MM-DD strings, timestamps as RFC3339 strings.
type SQLiteScoreRepository struct {
	db *sql.DB
}

// NewSQLiteScoreRepository creates a new SQLite score repository.
func NewSQLiteScoreRepository(db *sql.DB) *SQLiteScoreRepository {
	return &SQLiteScoreRepository{db: db}
}

func (r *SQLiteScoreRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Upsert inserts or updates the record for its (user, date) key.
func (r *SQLiteScoreRepository) Upsert(ctx context.Context, record *domain.ScoreRecord) error {
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, score_date) DO UPDATE SET
			score = excluded.score,
			risk_level = excluded.risk_level,
			meeting_hours = excluded.meeting_hours,
			work_hours = excluded.work_hours,
			focus_blocks = excluded.focus_blocks,
			break_hours = excluded.break_hours,
			sleep_hours = excluded.sleep_hours,
			meeting_component = excluded.meeting_component,
			work_component = excluded.work_component,
			focus_component = excluded.focus_component,
			break_component = excluded.break_component,
			sleep_component = excluded.sleep_component,
			insight = excluded.insight,
			recommendations = excluded.recommendations,
			updated_at = excluded.updated_at
	`

	metrics := record.Metrics()
	components := record.Components()

	_, err = r.querier(ctx).ExecContext(ctx, query,
		record.ID().String(),
		record.UserID().String(),
		record.Date().Format(time.DateOnly),
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
		string(recommendations),
		record.CreatedAt().UTC().Format(time.RFC3339),
		record.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score record: %w", err)
	}
	return nil
}

const sqliteSelectScore = `
	SELECT id, user_id, score_date, score, risk_level,
	       meeting_hours, work_hours, focus_blocks, break_hours, sleep_hours,
	       meeting_component, work_component, focus_component, break_component, sleep_component,
	       insight, recommendations, created_at, updated_at
	FROM risk_scores
`

// FindByUserAndDate retrieves the record for the given day.
func (r *SQLiteScoreRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.ScoreRecord, error) {
	row := r.querier(ctx).QueryRowContext(ctx,
		sqliteSelectScore+` WHERE user_id = ? AND score_date = ?`,
		userID.String(), date.Format(time.DateOnly))

	record, err := scanSQLiteScore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to find score record: %w", err)
	}
	return record, nil
}

// FindByUserInRange retrieves records with date in [start, end], ascending.
func (r *SQLiteScoreRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.ScoreRecord, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, sqliteSelectScore+`
		WHERE user_id = ? AND score_date >= ? AND score_date <= ?
		ORDER BY score_date
	`, userID.String(), start.Format(time.DateOnly), end.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to query score records: %w", err)
	}
	defer rows.Close()

	var records []*domain.ScoreRecord
	for rows.Next() {
		record, err := scanSQLiteScore(rows)
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

func scanSQLiteScore(row scanner) (*domain.ScoreRecord, error) {
	var (
		idStr, userIDStr, dateStr  string
		score                      float64
		riskLevel, insight         string
		metrics                    domain.DayMetrics
		components                 domain.ComponentScores
		recommendations            string
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&idStr, &userIDStr, &dateStr, &score, &riskLevel,
		&metrics.MeetingHours, &metrics.WorkHours, &metrics.FocusBlocks,
		&metrics.BreakHours, &metrics.SleepHours,
		&components.Meeting, &components.Work, &components.Focus,
		&components.Break, &components.Sleep,
		&insight, &recommendations, &createdAtStr, &updatedAtStr,
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
	date, err := time.Parse(time.DateOnly, dateStr)
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

	var recs []string
	if recommendations != "" {
		if err := json.Unmarshal([]byte(recommendations), &recs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
	}

	return domain.RehydrateScoreRecord(
		id, userID, date, score, domain.RiskLevel(riskLevel),
		metrics, components, insight, recs, createdAt, updatedAt,
	), nil
}
