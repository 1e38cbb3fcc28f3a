// Package persistence provides PostgreSQL and SQLite implementations of the
// insights repositories.
package persistence

import (
	"context"
	"database/sql"
)

type sqliteQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}
