package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/calendar/domain"
	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteEventRepository implements domain.EventRepository using SQLite.
// Times are stored as RFC3339 strings.
type SQLiteEventRepository struct {
	db *sql.DB
}

// NewSQLiteEventRepository creates a new SQLite event repository.
func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

type sqliteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteEventRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

// Save inserts or updates a calendar event.
func (r *SQLiteEventRepository) Save(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO calendar_events (id, user_id, title, kind, starts_at, ends_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			kind = excluded.kind,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			updated_at = excluded.updated_at
	`

	_, err := r.querier(ctx).ExecContext(ctx, query,
		event.ID().String(),
		event.UserID().String(),
		event.Title(),
		string(event.Kind()),
		event.StartTime().UTC().Format(time.RFC3339),
		event.EndTime().UTC().Format(time.RFC3339),
		event.CreatedAt().UTC().Format(time.RFC3339),
		event.UpdatedAt().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save calendar event: %w", err)
	}
	return nil
}

const sqliteSelectEvent = `
	SELECT id, user_id, title, kind, starts_at, ends_at, created_at, updated_at
	FROM calendar_events
`

// FindByID retrieves an event by its ID.
func (r *SQLiteEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	row := r.querier(ctx).QueryRowContext(ctx, sqliteSelectEvent+` WHERE id = ?`, id.String())
	event, err := scanSQLiteEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find calendar event: %w", err)
	}
	return event, nil
}

// FindByUserInRange retrieves events overlapping [from, to), ordered by start time.
func (r *SQLiteEventRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	query := sqliteSelectEvent + `
		WHERE user_id = ? AND starts_at < ? AND ends_at > ?
		ORDER BY starts_at
	`

	rows, err := r.querier(ctx).QueryContext(ctx, query,
		userID.String(),
		to.UTC().Format(time.RFC3339),
		from.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanSQLiteEvent(rows)
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
func (r *SQLiteEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.querier(ctx).ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLiteEvent(row scanner) (*domain.Event, error) {
	var (
		idStr, userIDStr, title, kind          string
		startsAt, endsAt, createdAt, updatedAt string
	)

	if err := row.Scan(&idStr, &userIDStr, &title, &kind, &startsAt, &endsAt, &createdAt, &updatedAt); err != nil {
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

	start, err := time.Parse(time.RFC3339, startsAt)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, endsAt)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateEvent(id, userID, title, domain.EventKind(kind), start, end, created, updated), nil
}
