package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresThresholdRepository implements domain.ThresholdRepository using PostgreSQL.
type PostgresThresholdRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresThresholdRepository creates a new PostgreSQL threshold repository.
func NewPostgresThresholdRepository(pool *pgxpool.Pool) *PostgresThresholdRepository {
	return &PostgresThresholdRepository{pool: pool}
}

const postgresSelectThresholds = `
	SELECT user_id, max_meeting_hours, max_work_hours, min_break_hours, min_focus_blocks,
	       min_sleep_hours, weight_meeting, weight_work, weight_focus, weight_break, weight_sleep,
	       created_at, updated_at
	FROM threshold_profiles
`

// FindByUser retrieves the user's threshold profile.
func (r *PostgresThresholdRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*domain.ThresholdProfile, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	profile, err := scanPostgresThresholds(execer.QueryRow(ctx, postgresSelectThresholds+` WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrThresholdsNotFound
		}
		return nil, fmt.Errorf("failed to find threshold profile: %w", err)
	}
	return profile, nil
}

// InsertIfAbsent inserts the profile unless one already exists for the user.
// ON CONFLICT DO NOTHING makes concurrent lazy creation race-safe.
func (r *PostgresThresholdRepository) InsertIfAbsent(ctx context.Context, profile *domain.ThresholdProfile) error {
	query := `
		INSERT INTO threshold_profiles (
			user_id, max_meeting_hours, max_work_hours, min_break_hours, min_focus_blocks,
			min_sleep_hours, weight_meeting, weight_work, weight_focus, weight_break, weight_sleep,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO NOTHING
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		profile.UserID(),
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
		profile.CreatedAt(),
		profile.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert threshold profile: %w", err)
	}
	return nil
}

// Update overwrites an existing profile.
func (r *PostgresThresholdRepository) Update(ctx context.Context, profile *domain.ThresholdProfile) error {
	query := `
		UPDATE threshold_profiles SET
			max_meeting_hours = $2,
			max_work_hours = $3,
			min_break_hours = $4,
			min_focus_blocks = $5,
			min_sleep_hours = $6,
			weight_meeting = $7,
			weight_work = $8,
			weight_focus = $9,
			weight_break = $10,
			weight_sleep = $11,
			updated_at = $12
		WHERE user_id = $1
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, query,
		profile.UserID(),
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
		profile.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update threshold profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrThresholdsNotFound
	}
	return nil
}

func scanPostgresThresholds(row pgx.Row) (*domain.ThresholdProfile, error) {
	var (
		userID                                  uuid.UUID
		maxMeeting, maxWork, minBreak, minSleep float64
		minFocusBlocks                          int
		wMeeting, wWork, wFocus, wBreak, wSleep float64
		createdAt, updatedAt                    time.Time
	)

	err := row.Scan(
		&userID, &maxMeeting, &maxWork, &minBreak, &minFocusBlocks,
		&minSleep, &wMeeting, &wWork, &wFocus, &wBreak, &wSleep,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateThresholdProfile(
		userID, maxMeeting, maxWork, minBreak, minFocusBlocks, minSleep,
		wMeeting, wWork, wFocus, wBreak, wSleep, createdAt, updatedAt,
	), nil
}
