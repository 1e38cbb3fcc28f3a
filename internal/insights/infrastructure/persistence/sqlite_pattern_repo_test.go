package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/askoglund/balans/internal/insights/domain"
	"github.com/askoglund/balans/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupPatternTestDB(t *testing.T) *SQLitePatternRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))

	return NewSQLitePatternRepository(db)
}

func mkPattern(t *testing.T, userID uuid.UUID, patternType string, severity domain.Severity) *domain.StressPattern {
	t.Helper()
	pattern, err := domain.NewStressPattern(userID, patternType, "description", severity,
		"4 of last 7 days", map[string]string{"component": "work"})
	require.NoError(t, err)
	return pattern
}

func TestSQLitePatternRepository_SaveAndFind(t *testing.T) {
	repo := setupPatternTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	pattern := mkPattern(t, userID, domain.PatternChronicOverwork, domain.SeverityHigh)
	require.NoError(t, repo.Save(ctx, pattern))

	found, err := repo.FindByID(ctx, pattern.ID())
	require.NoError(t, err)
	assert.Equal(t, pattern.ID(), found.ID())
	assert.Equal(t, domain.PatternChronicOverwork, found.PatternType())
	assert.Equal(t, domain.SeverityHigh, found.Severity())
	assert.Equal(t, "4 of last 7 days", found.Frequency())
	assert.Equal(t, map[string]string{"component": "work"}, found.Metadata())
	assert.True(t, found.IsActive())
}

func TestSQLitePatternRepository_FindByIDNotFound(t *testing.T) {
	repo := setupPatternTestDB(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrPatternNotFound)
}

func TestSQLitePatternRepository_FindActiveExcludesResolved(t *testing.T) {
	repo := setupPatternTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	active := mkPattern(t, userID, domain.PatternChronicOverwork, domain.SeverityHigh)
	resolved := mkPattern(t, userID, domain.PatternSleepDebt, domain.SeverityHigh)
	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, resolved))

	require.NoError(t, resolved.Resolve())
	require.NoError(t, repo.Update(ctx, resolved))

	activePatterns, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, activePatterns, 1)
	assert.Equal(t, active.ID(), activePatterns[0].ID())

	// The resolved pattern remains queryable; resolution never drops rows.
	all, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLitePatternRepository_FindByUserIgnoresOtherUsers(t *testing.T) {
	repo := setupPatternTestDB(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Save(ctx, mkPattern(t, userID, domain.PatternSleepDebt, domain.SeverityHigh)))
	require.NoError(t, repo.Save(ctx, mkPattern(t, uuid.New(), domain.PatternSleepDebt, domain.SeverityHigh)))

	patterns, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, patterns, 1)
}

func TestSQLitePatternRepository_UpdateMissingPattern(t *testing.T) {
	repo := setupPatternTestDB(t)

	pattern := mkPattern(t, uuid.New(), domain.PatternMeetingOverload, domain.SeverityMedium)
	err := repo.Update(context.Background(), pattern)
	assert.ErrorIs(t, err, domain.ErrPatternNotFound)
}
