package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDContextKey contextKey = "correlation_id"
	userIDContextKey        contextKey = "user_id"
)

const (
	// CorrelationIDKey is the log attribute key for correlation IDs.
	CorrelationIDKey = "correlation_id"
	// UserIDKey is the log attribute key for user IDs.
	UserIDKey = "user_id"
)

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey, id)
}

// WithNewCorrelationID returns a context carrying a freshly generated
// correlation ID, and the ID itself.
func WithNewCorrelationID(ctx context.Context) (context.Context, string) {
	id := uuid.New().String()
	return WithCorrelationID(ctx, id), id
}

// CorrelationIDFromContext extracts the correlation ID, or "" if absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDContextKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID returns a context carrying the acting user's ID.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

// UserIDFromContext extracts the user ID, or "" if absent.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDContextKey).(string); ok {
		return id
	}
	return ""
}
