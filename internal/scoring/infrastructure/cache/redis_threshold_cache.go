// Package cache provides a redis read-through cache for threshold profiles.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/askoglund/balans/internal/scoring/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisThresholdCache caches threshold profiles in redis so the scoring
// path does not hit the store on every request.
type RedisThresholdCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisThresholdCache creates a cache with the given TTL.
func NewRedisThresholdCache(client *redis.Client, ttl time.Duration) *RedisThresholdCache {
	return &RedisThresholdCache{client: client, ttl: ttl}
}

type cachedProfile struct {
	UserID          uuid.UUID `json:"user_id"`
	MaxMeetingHours float64   `json:"max_meeting_hours"`
	MaxWorkHours    float64   `json:"max_work_hours"`
	MinBreakHours   float64   `json:"min_break_hours"`
	MinFocusBlocks  int       `json:"min_focus_blocks"`
	MinSleepHours   float64   `json:"min_sleep_hours"`
	WeightMeeting   float64   `json:"weight_meeting"`
	WeightWork      float64   `json:"weight_work"`
	WeightFocus     float64   `json:"weight_focus"`
	WeightBreak     float64   `json:"weight_break"`
	WeightSleep     float64   `json:"weight_sleep"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func cacheKey(userID uuid.UUID) string {
	return "balans:thresholds:" + userID.String()
}

// Get returns the cached profile when present.
func (c *RedisThresholdCache) Get(ctx context.Context, userID uuid.UUID) (*domain.ThresholdProfile, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read threshold cache: %w", err)
	}

	var cached cachedProfile
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached thresholds: %w", err)
	}

	profile := domain.RehydrateThresholdProfile(
		cached.UserID,
		cached.MaxMeetingHours, cached.MaxWorkHours, cached.MinBreakHours,
		cached.MinFocusBlocks, cached.MinSleepHours,
		cached.WeightMeeting, cached.WeightWork, cached.WeightFocus,
		cached.WeightBreak, cached.WeightSleep,
		cached.CreatedAt, cached.UpdatedAt,
	)
	return profile, true, nil
}

// Set stores the profile with the configured TTL.
func (c *RedisThresholdCache) Set(ctx context.Context, profile *domain.ThresholdProfile) error {
	data, err := json.Marshal(cachedProfile{
		UserID:          profile.UserID(),
		MaxMeetingHours: profile.MaxMeetingHours(),
		MaxWorkHours:    profile.MaxWorkHours(),
		MinBreakHours:   profile.MinBreakHours(),
		MinFocusBlocks:  profile.MinFocusBlocks(),
		MinSleepHours:   profile.MinSleepHours(),
		WeightMeeting:   profile.WeightMeeting(),
		WeightWork:      profile.WeightWork(),
		WeightFocus:     profile.WeightFocus(),
		WeightBreak:     profile.WeightBreak(),
		WeightSleep:     profile.WeightSleep(),
		CreatedAt:       profile.CreatedAt(),
		UpdatedAt:       profile.UpdatedAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode thresholds for cache: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(profile.UserID()), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write threshold cache: %w", err)
	}
	return nil
}

// Invalidate removes the user's cached profile.
func (c *RedisThresholdCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate threshold cache: %w", err)
	}
	return nil
}
