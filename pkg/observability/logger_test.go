package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:          LogLevelInfo,
		Format:         LogFormatJSON,
		Output:         &buf,
		ServiceName:    "balans",
		ServiceVersion: "test",
	})

	logger.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "balans", entry["service"])
	assert.Equal(t, "test", entry["version"])
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:  LogLevelWarn,
		Format: LogFormatText,
		Output: &buf,
	})

	logger.Info("filtered out")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogger_CorrelationIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{
		Level:  LogLevelInfo,
		Format: LogFormatJSON,
		Output: &buf,
	})

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithUserID(ctx, "user-456")
	logger.InfoContext(ctx, "with ids")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-123", entry[CorrelationIDKey])
	assert.Equal(t, "user-456", entry[UserIDKey])
}

func TestWithNewCorrelationID(t *testing.T) {
	ctx, id := WithNewCorrelationID(context.Background())
	require.NotEmpty(t, id)
	assert.Equal(t, id, CorrelationIDFromContext(ctx))
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseSlogLevel(LogLevelDebug))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel(LogLevelInfo))
	assert.Equal(t, slog.LevelWarn, parseSlogLevel(LogLevelWarn))
	assert.Equal(t, slog.LevelError, parseSlogLevel(LogLevelError))
	assert.Equal(t, slog.LevelInfo, parseSlogLevel(LogLevel("bogus")))
}

func TestInMemoryMetrics(t *testing.T) {
	m := NewInMemoryMetrics()

	m.IncrCounter(MetricScoreComputations, 1)
	m.IncrCounter(MetricScoreComputations, 2)
	m.SetGauge("queue.depth", 7)
	m.RecordDuration(MetricScoreComputeDuration, 25*time.Millisecond)

	assert.Equal(t, int64(3), m.Counter(MetricScoreComputations))
	assert.Equal(t, 7.0, m.Gauge("queue.depth"))
	require.Len(t, m.Durations(MetricScoreComputeDuration), 1)
}
