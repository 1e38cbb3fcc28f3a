package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrThresholdsNotFound = errors.New("threshold profile not found")
	ErrInvalidLimit       = errors.New("threshold limits must be positive")
	ErrInvalidWeight      = errors.New("weights must not be negative")
)

// Default threshold limits and weights, used when a user has no profile.
const (
	DefaultMaxMeetingHours = 4.0
	DefaultMaxWorkHours    = 9.0
	DefaultMinBreakHours   = 1.0
	DefaultMinFocusBlocks  = 2
	DefaultMinSleepHours   = 7.0

	DefaultWeightMeeting = 0.25
	DefaultWeightWork    = 0.25
	DefaultWeightFocus   = 0.15
	DefaultWeightBreak   = 0.15
	DefaultWeightSleep   = 0.20
)

// ThresholdProfile holds a user's tunable scoring parameters. One per user,
// created lazily with defaults on first access.
type ThresholdProfile struct {
	userID          uuid.UUID
	maxMeetingHours float64
	maxWorkHours    float64
	minBreakHours   float64
	minFocusBlocks  int
	minSleepHours   float64
	weightMeeting   float64
	weightWork      float64
	weightFocus     float64
	weightBreak     float64
	weightSleep     float64
	createdAt       time.Time
	updatedAt       time.Time
}

// DefaultThresholdProfile creates a profile with system defaults.
func DefaultThresholdProfile(userID uuid.UUID) *ThresholdProfile {
	now := time.Now().UTC()
	return &ThresholdProfile{
		userID:          userID,
		maxMeetingHours: DefaultMaxMeetingHours,
		maxWorkHours:    DefaultMaxWorkHours,
		minBreakHours:   DefaultMinBreakHours,
		minFocusBlocks:  DefaultMinFocusBlocks,
		minSleepHours:   DefaultMinSleepHours,
		weightMeeting:   DefaultWeightMeeting,
		weightWork:      DefaultWeightWork,
		weightFocus:     DefaultWeightFocus,
		weightBreak:     DefaultWeightBreak,
		weightSleep:     DefaultWeightSleep,
		createdAt:       now,
		updatedAt:       now,
	}
}

// RehydrateThresholdProfile recreates a profile from persisted state.
func RehydrateThresholdProfile(
	userID uuid.UUID,
	maxMeetingHours, maxWorkHours, minBreakHours float64,
	minFocusBlocks int,
	minSleepHours float64,
	weightMeeting, weightWork, weightFocus, weightBreak, weightSleep float64,
	createdAt, updatedAt time.Time,
) *ThresholdProfile {
	return &ThresholdProfile{
		userID:          userID,
		maxMeetingHours: maxMeetingHours,
		maxWorkHours:    maxWorkHours,
		minBreakHours:   minBreakHours,
		minFocusBlocks:  minFocusBlocks,
		minSleepHours:   minSleepHours,
		weightMeeting:   weightMeeting,
		weightWork:      weightWork,
		weightFocus:     weightFocus,
		weightBreak:     weightBreak,
		weightSleep:     weightSleep,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// Getters
func (p *ThresholdProfile) UserID() uuid.UUID        { return p.userID }
func (p *ThresholdProfile) MaxMeetingHours() float64 { return p.maxMeetingHours }
func (p *ThresholdProfile) MaxWorkHours() float64    { return p.maxWorkHours }
func (p *ThresholdProfile) MinBreakHours() float64   { return p.minBreakHours }
func (p *ThresholdProfile) MinFocusBlocks() int      { return p.minFocusBlocks }
func (p *ThresholdProfile) MinSleepHours() float64   { return p.minSleepHours }
func (p *ThresholdProfile) WeightMeeting() float64   { return p.weightMeeting }
func (p *ThresholdProfile) WeightWork() float64      { return p.weightWork }
func (p *ThresholdProfile) WeightFocus() float64     { return p.weightFocus }
func (p *ThresholdProfile) WeightBreak() float64     { return p.weightBreak }
func (p *ThresholdProfile) WeightSleep() float64     { return p.weightSleep }
func (p *ThresholdProfile) CreatedAt() time.Time     { return p.createdAt }
func (p *ThresholdProfile) UpdatedAt() time.Time     { return p.updatedAt }

// ThresholdPatch is a partial update. Nil fields are left unchanged; fields
// outside this struct cannot be expressed and are therefore ignored by
// construction.
type ThresholdPatch struct {
	MaxMeetingHours *float64
	MaxWorkHours    *float64
	MinBreakHours   *float64
	MinFocusBlocks  *int
	MinSleepHours   *float64
	WeightMeeting   *float64
	WeightWork      *float64
	WeightFocus     *float64
	WeightBreak     *float64
	WeightSleep     *float64
}

// Apply merges the supplied fields into the profile. Limits must be
// positive; weights must not be negative. Weights are not required to sum
// to 1 -- the scoring clamp bounds the final score regardless.
func (p *ThresholdProfile) Apply(patch ThresholdPatch) error {
	for _, limit := range []*float64{patch.MaxMeetingHours, patch.MaxWorkHours, patch.MinBreakHours, patch.MinSleepHours} {
		if limit != nil && *limit <= 0 {
			return ErrInvalidLimit
		}
	}
	if patch.MinFocusBlocks != nil && *patch.MinFocusBlocks <= 0 {
		return ErrInvalidLimit
	}
	for _, weight := range []*float64{patch.WeightMeeting, patch.WeightWork, patch.WeightFocus, patch.WeightBreak, patch.WeightSleep} {
		if weight != nil && *weight < 0 {
			return ErrInvalidWeight
		}
	}

	if patch.MaxMeetingHours != nil {
		p.maxMeetingHours = *patch.MaxMeetingHours
	}
	if patch.MaxWorkHours != nil {
		p.maxWorkHours = *patch.MaxWorkHours
	}
	if patch.MinBreakHours != nil {
		p.minBreakHours = *patch.MinBreakHours
	}
	if patch.MinFocusBlocks != nil {
		p.minFocusBlocks = *patch.MinFocusBlocks
	}
	if patch.MinSleepHours != nil {
		p.minSleepHours = *patch.MinSleepHours
	}
	if patch.WeightMeeting != nil {
		p.weightMeeting = *patch.WeightMeeting
	}
	if patch.WeightWork != nil {
		p.weightWork = *patch.WeightWork
	}
	if patch.WeightFocus != nil {
		p.weightFocus = *patch.WeightFocus
	}
	if patch.WeightBreak != nil {
		p.weightBreak = *patch.WeightBreak
	}
	if patch.WeightSleep != nil {
		p.weightSleep = *patch.WeightSleep
	}

	p.updatedAt = time.Now().UTC()
	return nil
}
