package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/calendar/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEventRepository implements domain.EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Save inserts or updates a calendar event.
func (r *PostgresEventRepository) Save(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO calendar_events (id, user_id, title, kind, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			kind = EXCLUDED.kind,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			updated_at = EXCLUDED.updated_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err := execer.Exec(ctx, query,
		event.ID(),
		event.UserID(),
		event.Title(),
		string(event.Kind()),
		event.StartTime(),
		event.EndTime(),
		event.CreatedAt(),
		event.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save calendar event: %w", err)
	}
	return nil
}

// FindByID retrieves an event by its ID.
func (r *PostgresEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	query := `
		SELECT id, user_id, title, kind, starts_at, ends_at, created_at, updated_at
		FROM calendar_events
		WHERE id = $1
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	event, err := scanPostgresEvent(execer.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find calendar event: %w", err)
	}
	return event, nil
}

// FindByUserInRange retrieves events overlapping [from, to), ordered by start time.
func (r *PostgresEventRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	query := `
		SELECT id, user_id, title, kind, starts_at, ends_at, created_at, updated_at
		FROM calendar_events
		WHERE user_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at
	`

	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanPostgresEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calendar events: %w", err)
	}
	return events, nil
}

// Delete removes an event.
func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	execer := sharedPersistence.Executor(ctx, r.pool)
	tag, err := execer.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanPostgresEvent(row pgx.Row) (*domain.Event, error) {
	var (
		id, userID           uuid.UUID
		title, kind          string
		startsAt, endsAt     time.Time
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &title, &kind, &startsAt, &endsAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateEvent(id, userID, title, domain.EventKind(kind), startsAt, endsAt, createdAt, updatedAt), nil
}
