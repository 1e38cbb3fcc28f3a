package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	"github.com/askoglund/balans/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupScoringTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func testResult(score float64) domain.ScoreResult {
	return domain.ScoreResult{
		Score:     score,
		RiskLevel: domain.RiskLevelForScore(score),
		Metrics: domain.DayMetrics{
			MeetingHours: 3,
			WorkHours:    8,
			FocusBlocks:  1,
			BreakHours:   0.5,
			SleepHours:   6.5,
		},
		Components: domain.ComponentScores{
			Meeting: 0.56, Work: 0.44, Focus: 0.5, Break: 0.5, Sleep: 0.02,
		},
		Insight:         "test insight",
		Recommendations: []string{"take a break"},
	}
}

func TestSQLiteScoreRepository_UpsertAndFind(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewSQLiteScoreRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	record := domain.NewScoreRecord(userID, date, testResult(42.5))

	require.NoError(t, repo.Upsert(ctx, record))

	found, err := repo.FindByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	assert.Equal(t, 42.5, found.Score())
	assert.Equal(t, domain.RiskModerate, found.RiskLevel())
	assert.Equal(t, record.Metrics(), found.Metrics())
	assert.Equal(t, record.Components(), found.Components())
	assert.Equal(t, "test insight", found.Insight())
	assert.Equal(t, []string{"take a break"}, found.Recommendations())
	assert.True(t, found.Date().Equal(date))
}

func TestSQLiteScoreRepository_UpsertIsIdempotentPerDay(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewSQLiteScoreRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	first := domain.NewScoreRecord(userID, date, testResult(42.5))
	require.NoError(t, repo.Upsert(ctx, first))

	// A recomputation for the same day arrives as a fresh record. The row
	// for (user, date) must be updated in place, never duplicated.
	second := domain.NewScoreRecord(userID, date, testResult(77.0))
	require.NoError(t, repo.Upsert(ctx, second))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM risk_scores").Scan(&count))
	assert.Equal(t, 1, count)

	found, err := repo.FindByUserAndDate(ctx, userID, date)
	require.NoError(t, err)
	assert.Equal(t, 77.0, found.Score())
	assert.Equal(t, domain.RiskSevere, found.RiskLevel())
	// The original row identity survives the upsert.
	assert.Equal(t, first.ID(), found.ID())
}

func TestSQLiteScoreRepository_FindByUserInRange(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewSQLiteScoreRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order; the query must return dates ascending.
	for _, offset := range []int{4, 0, 2} {
		record := domain.NewScoreRecord(userID, base.AddDate(0, 0, offset), testResult(30+float64(offset)))
		require.NoError(t, repo.Upsert(ctx, record))
	}

	records, err := repo.FindByUserInRange(ctx, userID, base, base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Date().Before(records[1].Date()))

	all, err := repo.FindByUserInRange(ctx, userID, base, base.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteScoreRepository_FindByUserAndDate_NotFound(t *testing.T) {
	db := setupScoringTestDB(t)
	repo := NewSQLiteScoreRepository(db)

	_, err := repo.FindByUserAndDate(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, domain.ErrScoreNotFound)
}
