package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sharedPersistence "github.com/askoglund/balans/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using SQLite.
// Timestamps are stored as RFC3339 strings.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type sqliteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// querier returns the transaction from context when present, otherwise the connection.
func (r *SQLiteRepository) querier(ctx context.Context) sqliteQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.db
}

const sqliteInsertOutbox = `
	INSERT INTO outbox (
		event_id, aggregate_type, aggregate_id, event_type, routing_key,
		payload, metadata, created_at, retry_count
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)
`

func (r *SQLiteRepository) insert(ctx context.Context, q sqliteQuerier, msg *Message) error {
	result, err := q.ExecContext(ctx, sqliteInsertOutbox,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		string(msg.Metadata),
		msg.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = id
	return nil
}

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	return r.insert(ctx, r.querier(ctx), msg)
}

// SaveBatch stores multiple outbox messages atomically.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	// Reuse an ambient transaction when one is present.
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		for _, msg := range msgs {
			if err := r.insert(ctx, info.Tx, msg); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, msg := range msgs {
		if err := r.insert(ctx, tx, msg); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const sqliteSelectOutbox = `
	SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
	       payload, metadata, created_at, published_at, next_retry_at, retry_count,
	       last_error, dead_lettered_at, dead_letter_reason
	FROM outbox
`

// GetUnpublished retrieves unpublished messages ordered by creation time.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := sqliteSelectOutbox + `
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`

	rows, err := r.querier(ctx).QueryContext(ctx, query, nowString(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// MarkPublished marks a message as successfully published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox SET published_at = ?, dead_lettered_at = NULL WHERE id = ?`
	_, err := r.querier(ctx).ExecContext(ctx, query, nowString(), id)
	return err
}

// MarkFailed records a publish failure with error message.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	query := `
		UPDATE outbox
		SET retry_count = retry_count + 1,
			last_error = ?,
			next_retry_at = ?
		WHERE id = ?
	`
	_, err := r.querier(ctx).ExecContext(ctx, query, errMsg, nextRetryAt.UTC().Format(time.RFC3339), id)
	return err
}

// MarkDead marks a message as dead-lettered.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE outbox
		SET dead_lettered_at = ?,
			dead_letter_reason = ?
		WHERE id = ?
	`
	_, err := r.querier(ctx).ExecContext(ctx, query, nowString(), reason, id)
	return err
}

// GetFailed retrieves failed messages eligible for retry.
func (r *SQLiteRepository) GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error) {
	query := sqliteSelectOutbox + `
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND retry_count > 0
		  AND retry_count < ?
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at
		LIMIT ?
	`

	rows, err := r.querier(ctx).QueryContext(ctx, query, maxRetries, nowString(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteMessages(rows)
}

// DeleteOld removes successfully published messages older than the retention period.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)
	query := `DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`
	result, err := r.querier(ctx).ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func scanSQLiteMessages(rows *sql.Rows) ([]*Message, error) {
	var messages []*Message

	for rows.Next() {
		var (
			msg                                    Message
			eventID, aggregateID, createdAt        string
			payload, metadata                      string
			publishedAt, nextRetryAt, deadLettered sql.NullString
			lastError, deadReason                  sql.NullString
		)

		err := rows.Scan(
			&msg.ID,
			&eventID,
			&msg.AggregateType,
			&aggregateID,
			&msg.EventType,
			&msg.RoutingKey,
			&payload,
			&metadata,
			&createdAt,
			&publishedAt,
			&nextRetryAt,
			&msg.RetryCount,
			&lastError,
			&deadLettered,
			&deadReason,
		)
		if err != nil {
			return nil, err
		}

		msg.EventID, err = uuid.Parse(eventID)
		if err != nil {
			return nil, err
		}
		msg.AggregateID, err = uuid.Parse(aggregateID)
		if err != nil {
			return nil, err
		}
		msg.Payload = json.RawMessage(payload)
		if metadata != "" {
			msg.Metadata = json.RawMessage(metadata)
		}

		msg.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, err
		}
		if t, err := parseNullTime(publishedAt); err != nil {
			return nil, err
		} else {
			msg.PublishedAt = t
		}
		if t, err := parseNullTime(nextRetryAt); err != nil {
			return nil, err
		} else {
			msg.NextRetryAt = t
		}
		if t, err := parseNullTime(deadLettered); err != nil {
			return nil, err
		} else {
			msg.DeadLetteredAt = t
		}
		if lastError.Valid {
			msg.LastError = &lastError.String
		}
		if deadReason.Valid {
			msg.DeadLetterReason = &deadReason.String
		}

		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

func parseNullTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
