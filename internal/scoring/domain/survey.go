package domain

import "errors"

var (
	ErrInvalidSurveyScore = errors.New("survey scores must be between 1 and 10")
	ErrInvalidSleepHours  = errors.New("sleep hours must be between 0 and 24")
)

// Survey is a caller-supplied self-report. Mood, stress, and energy are
// 1-10 scores. SleepHours is hours of sleep (0-24), not a score; it
// overrides the metric sleep value during scoring.
type Survey struct {
	mood       int
	stress     int
	energy     int
	sleepHours float64
}

// NewSurvey validates and creates a survey.
func NewSurvey(mood, stress, energy int, sleepHours float64) (*Survey, error) {
	for _, score := range []int{mood, stress, energy} {
		if score < 1 || score > 10 {
			return nil, ErrInvalidSurveyScore
		}
	}
	if sleepHours < 0 || sleepHours > 24 {
		return nil, ErrInvalidSleepHours
	}

	return &Survey{
		mood:       mood,
		stress:     stress,
		energy:     energy,
		sleepHours: sleepHours,
	}, nil
}

func (s *Survey) Mood() int           { return s.mood }
func (s *Survey) Stress() int         { return s.stress }
func (s *Survey) Energy() int         { return s.energy }
func (s *Survey) SleepHours() float64 { return s.sleepHours }

// Adjustment returns the additive score adjustment derived from the
// self-reported mood, stress, and energy.
func (s *Survey) Adjustment() float64 {
	return float64(10-s.mood)*0.02 + float64(s.stress)*0.03 + float64(10-s.energy)*0.02
}
