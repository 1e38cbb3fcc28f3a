package domain

import (
	"fmt"

	scoringDomain "github.com/askoglund/balans/internal/scoring/domain"
	"github.com/google/uuid"
)

// Detection thresholds. A component is "elevated" when it crosses its
// trigger level; a pattern fires when elevation recurs often enough
// inside the detection window.
const (
	detectionWindow = 7

	overworkTrigger = 0.7
	overworkMinDays = 4

	meetingTrigger = 0.7
	meetingMinDays = 3

	sleepTrigger = 0.5
	sleepMinDays = 3
)

// PatternDetector derives recurring stress patterns from recent score
// history. It is stateless; deduplication against already-known patterns
// belongs to the caller.
type PatternDetector struct{}

func NewPatternDetector() *PatternDetector { return &PatternDetector{} }

// Detect inspects up to the last seven records and returns newly observed
// patterns. Records must be ordered ascending by date.
func (d *PatternDetector) Detect(userID uuid.UUID, records []*scoringDomain.ScoreRecord) ([]*StressPattern, error) {
	if len(records) > detectionWindow {
		records = records[len(records)-detectionWindow:]
	}
	if len(records) == 0 {
		return nil, nil
	}

	var overworkDays, meetingDays, sleepDays int
	for _, r := range records {
		c := r.Components()
		if c.Work >= overworkTrigger {
			overworkDays++
		}
		if c.Meeting >= meetingTrigger {
			meetingDays++
		}
		if c.Sleep >= sleepTrigger {
			sleepDays++
		}
	}

	var patterns []*StressPattern

	if overworkDays >= overworkMinDays {
		p, err := NewStressPattern(userID, PatternChronicOverwork,
			"Sustained long working hours across most of the past week.",
			SeverityHigh,
			frequency(overworkDays, len(records)),
			map[string]string{"component": "work"},
		)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	if meetingDays >= meetingMinDays {
		severity := SeverityMedium
		if meetingDays >= overworkMinDays+1 {
			severity = SeverityHigh
		}
		p, err := NewStressPattern(userID, PatternMeetingOverload,
			"Meeting load repeatedly exceeded a sustainable level this week.",
			severity,
			frequency(meetingDays, len(records)),
			map[string]string{"component": "meeting"},
		)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	if sleepDays >= sleepMinDays {
		p, err := NewStressPattern(userID, PatternSleepDebt,
			"Repeated short sleep is building up a recovery deficit.",
			SeverityHigh,
			frequency(sleepDays, len(records)),
			map[string]string{"component": "sleep"},
		)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	return patterns, nil
}

func frequency(days, window int) string {
	return fmt.Sprintf("%d of last %d days", days, window)
}
