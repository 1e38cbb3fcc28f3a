package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteThresholdRepository implements domain.ThresholdRepository using SQLite.
type SQLiteThresholdRepository struct {
	db *sql.DB
}

// NewSQLiteThresholdRepository creates a new SQLite threshold repository.
func NewSQLiteThresholdRepository(db *sql.DB) *SQLiteThresholdRepository {
	return &SQLiteThresholdRepository{db: db}
}

func (r *SQLiteThresholdRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

const sqliteSelectThresholds = `
	SELECT user_id, max_meeting_hours, max_work_hours, min_break_hours, min_focus_blocks,
	       min_sleep_hours, weight_meeting, weight_work, weight_focus, weight_break, weight_sleep,
	       created_at, updated_at
	FROM threshold_profiles
`

// FindByUser retrieves the user's threshold profile.
func (r *SQLiteThresholdRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.ThresholdProfile, error) {
	row := r.querier(ctx).QueryRowContext(ctx, sqliteSelectThresholds+` WHERE user_id = ?`, userID.String())
	profile, err := scanSQLiteThresholds(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrThresholdsNotFound
		}
		return nil, fmt.Errorf("failed to find threshold profile: %w", err)
	}
	return profile, nil
}

// InsertIfAbsent inserts the profile unless one already exists for the user.
func (r *SQLiteThresholdRepository) InsertIfAbsent(ctx context.Context, profile *domain.ThresholdProfile) error {
	query := `
		INSERT INTO threshold_profiles (
			user_id, max_meeting_hours, max_work_hours, min_break_hours, min_focus_blocks,
			min_sleep_hours, weight_meeting, weight_work, weight_focus, weight_break, weight_sleep,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
	`

	_, err := r.querier(ctx).ExecContext(ctx, query,
		profile.UserID().String(),
		profile.MaxMeetingHours(),
		profile.MaxWorkHours(),
		profile.MinBreakHours(),
		profile.MinFocusBlocks(),
		profile.MinSleepHours(),
		profile.WeightMeeting(),
		profile.WeightWork(),
		profile.WeightFocus(),
		profile.WeightBreak(),
		profile.WeightSleep(),
		profile.CreatedAt().UTC().Format(time.RFC3339),
		profile.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert threshold profile: %w", err)
	}
	return nil
}

// Update overwrites an existing profile.
func (r *SQLiteThresholdRepository) Update(ctx context.Context, profile *domain.ThresholdProfile) error {
	query := `
		UPDATE threshold_profiles SET
			max_meeting_hours = ?,
			max_work_hours = ?,
			min_break_hours = ?,
			min_focus_blocks = ?,
			min_sleep_hours = ?,
			weight_meeting = ?,
			weight_work = ?,
			weight_focus = ?,
			weight_break = ?,
			weight_sleep = ?,
			updated_at = ?
		WHERE user_id = ?
	`

	result, err := r.querier(ctx).ExecContext(ctx, query,
		profile.MaxMeetingHours(),
		profile.MaxWorkHours(),
		profile.MinBreakHours(),
		profile.MinFocusBlocks(),
		profile.MinSleepHours(),
		profile.WeightMeeting(),
		profile.WeightWork(),
		profile.WeightFocus(),
		profile.WeightBreak(),
		profile.WeightSleep(),
		profile.UpdatedAt().UTC().Format(time.RFC3339),
		profile.UserID().String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update threshold profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrThresholdsNotFound
	}
	return nil
}

func scanSQLiteThresholds(row scanner) (*domain.ThresholdProfile, error) {
	var (
		userIDStr                               string
		maxMeeting, maxWork, minBreak, minSleep float64
		minFocusBlocks                          int
		wMeeting, wWork, wFocus, wBreak, wSleep float64
		createdAtStr, updatedAtStr              string
	)

	err := row.Scan(
		&userIDStr, &maxMeeting, &maxWork, &minBreak, &minFocusBlocks,
		&minSleep, &wMeeting, &wWork, &wFocus, &wBreak, &wSleep,
		&createdAtStr, &updatedAtStr,
	)
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

	return domain.RehydrateThresholdProfile(
		userID, maxMeeting, maxWork, minBreak, minFocusBlocks, minSleep,
		wMeeting, wWork, wFocus, wBreak, wSleep, createdAt, updatedAt,
	), nil
}
