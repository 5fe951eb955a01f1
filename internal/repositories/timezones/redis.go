package timezones

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	rosterr "github.com/frostveil/rosterbot/internal/errors"
)

type redisRepo struct {
	client redis.UniversalClient
}

// NewRedis creates a Redis-backed timezone repository.
func NewRedis(client redis.UniversalClient) Repository {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &redisRepo{client: client}
}

func (r *redisRepo) key(userID string) string {
	return fmt.Sprintf("timezone:%s", userID)
}

func (r *redisRepo) Get(ctx context.Context, userID string) (*Record, error) {
	if userID == "" {
		return nil, rosterr.InvalidArgument("user ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(userID)).Result()
	if err == redis.Nil {
		return nil, rosterr.NotFoundf("no saved timezone for user '%s'", userID).
			WithMeta("user_id", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get timezone: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(jsonData), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timezone: %w", err)
	}
	return &rec, nil
}

func (r *redisRepo) Set(ctx context.Context, rec *Record) error {
	if rec == nil {
		return rosterr.InvalidArgument("record cannot be nil")
	}
	if rec.UserID == "" {
		return rosterr.InvalidArgument("user ID is required")
	}

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal timezone: %w", err)
	}
	if err := r.client.Set(ctx, r.key(rec.UserID), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to set timezone: %w", err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return rosterr.InvalidArgument("user ID is required")
	}

	if err := r.client.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete timezone: %w", err)
	}
	return nil
}
