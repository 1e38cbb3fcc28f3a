package domain

import (
	"testing"
	"time"

	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func historyWithScores(t *testing.T, userID uuid.UUID, scores []float64) []*scoringDomain.ScoreRecord {
	t.Helper()
	return historyWithMetrics(t, userID, scores, scoringDomain.DayMetrics{
		MeetingHours: 2, WorkHours: 7, FocusBlocks: 2, BreakHours: 1, SleepHours: 7,
	})
}

func historyWithMetrics(t *testing.T, userID uuid.UUID, scores []float64, metrics scoringDomain.DayMetrics) []*scoringDomain.ScoreRecord {
	t.Helper()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	records := make([]*scoringDomain.ScoreRecord, len(scores))
	for i, score := range scores {
		records[i] = scoringDomain.RehydrateScoreRecord(
			uuid.New(), userID, base.AddDate(0, 0, i),
			score, scoringDomain.RiskLevelForScore(score),
			metrics, scoringDomain.ComponentScores{},
			"", nil, base, base,
		)
	}
	return records
}

func TestTrendAnalyzer_InsufficientData(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	userID := uuid.New()

	for _, n := range []int{0, 1, 4} {
		result := analyzer.Analyze(historyWithScores(t, userID, make([]float64, n)))
		assert.Equal(t, TrendInsufficientData, result.Direction, "with %d records", n)
		assert.NotEmpty(t, result.Suggestions)
		assert.Equal(t, n, result.SampleSize)
	}
}

func TestTrendAnalyzer_ClassificationBoundaries(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	userID := uuid.New()

	// Seven prior records at the base score, seven recent records offset
	// by the diff under test.
	mkScores := func(prior, recent float64) []float64 {
		scores := make([]float64, 0, 14)
		for i := 0; i < 7; i++ {
			scores = append(scores, prior)
		}
		for i := 0; i < 7; i++ {
			scores = append(scores, recent)
		}
		return scores
	}

	tests := []struct {
		name     string
		prior    float64
		recent   float64
		expected TrendDirection
	}{
		{"diff exactly +10", 40, 50, TrendRapidlyWorsening},
		{"diff above +10", 40, 55, TrendRapidlyWorsening},
		{"diff exactly +5", 40, 45, TrendWorsening},
		{"diff +4.9 is stable", 40, 44.9, TrendStable},
		{"no change", 40, 40, TrendStable},
		{"diff -4.9 is stable", 40, 35.1, TrendStable},
		{"diff exactly -5", 40, 35, TrendImproving},
		{"diff exactly -10", 40, 30, TrendRapidlyImproving},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.Analyze(historyWithScores(t, userID, mkScores(tt.prior, tt.recent)))
			assert.Equal(t, tt.expected, result.Direction)
			assert.InDelta(t, tt.recent, result.RecentMean, 1e-9)
			assert.InDelta(t, tt.prior, result.PreviousMean, 1e-9)
		})
	}
}

func TestTrendAnalyzer_ShortHistoryComparesHalves(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	userID := uuid.New()

	// A flat first week must read as stable, not as a spike against an
	// empty baseline.
	for _, n := range []int{5, 6, 7} {
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = 40
		}
		result := analyzer.Analyze(historyWithScores(t, userID, scores))
		assert.Equal(t, TrendStable, result.Direction, "with %d records", n)
		assert.InDelta(t, 0, result.Change, 1e-9, "with %d records", n)
	}

	// Movement within a short history still registers: the halves are
	// compared against each other.
	result := analyzer.Analyze(historyWithScores(t, userID, []float64{30, 30, 30, 45, 45, 45}))
	assert.Equal(t, TrendRapidlyWorsening, result.Direction)
	assert.InDelta(t, 30, result.PreviousMean, 1e-9)
	assert.InDelta(t, 45, result.RecentMean, 1e-9)
}

func TestTrendAnalyzer_WindowsCapAtSevenRecords(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	userID := uuid.New()

	// 20 records: only the last 7 form "recent", the 7 before them
	// "previous". The oldest 6 must not influence either mean.
	scores := make([]float64, 0, 20)
	for i := 0; i < 6; i++ {
		scores = append(scores, 99)
	}
	for i := 0; i < 7; i++ {
		scores = append(scores, 40)
	}
	for i := 0; i < 7; i++ {
		scores = append(scores, 52)
	}

	result := analyzer.Analyze(historyWithScores(t, userID, scores))
	assert.InDelta(t, 52, result.RecentMean, 1e-9)
	assert.InDelta(t, 40, result.PreviousMean, 1e-9)
	assert.Equal(t, TrendRapidlyWorsening, result.Direction)
}

func TestTrendAnalyzer_SuggestionsIndependentOfDirection(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	userID := uuid.New()

	// Stable trend but heavy meetings and no focus time: both guideline
	// suggestions fire anyway.
	records := historyWithMetrics(t, userID, []float64{40, 40, 40, 40, 40, 40},
		scoringDomain.DayMetrics{MeetingHours: 6, FocusBlocks: 0})

	result := analyzer.Analyze(records)
	assert.Equal(t, TrendStable, result.Direction)
	assert.Len(t, result.Suggestions, 2)
}

func TestTrendAnalyzer_HealthyScheduleGetsMaintenanceSuggestion(t *testing.T) {
	analyzer := NewTrendAnalyzer()
	userID := uuid.New()

	records := historyWithMetrics(t, userID, []float64{20, 20, 20, 20, 20},
		scoringDomain.DayMetrics{MeetingHours: 2, FocusBlocks: 3})

	result := analyzer.Analyze(records)
	assert.Len(t, result.Suggestions, 1)
}
