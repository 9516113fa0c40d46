package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/telmeet/conference-scheduler/pkg/config"
)

// NewRedisClient creates a Redis client from configuration and verifies the
// connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// SubmitLock guards against double submission of the same draft across
// service instances, backed by a redis SET NX with TTL.
type SubmitLock struct {
	client *redis.Client
}

// NewSubmitLock creates a submit lock over the given client.
func NewSubmitLock(client *redis.Client) *SubmitLock {
	return &SubmitLock{client: client}
}

func (l *SubmitLock) key(draftID string) string {
	return "conference:submit-lock:" + draftID
}

// Acquire takes the lock for the draft. Returns false when another submit
// holds it.
func (l *SubmitLock) Acquire(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Minute
	}
	ok, err := l.client.SetNX(ctx, l.key(draftID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire submit lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock for the draft.
func (l *SubmitLock) Release(ctx context.Context, draftID string) error {
	if err := l.client.Del(ctx, l.key(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to release submit lock: %w", err)
	}
	return nil
}
