package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	claimKeyPrefix = "packdemo:"
	claimKeyTTL    = 24 * time.Hour
)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) ClaimRelease(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, claimKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), claimKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseClaim(ctx context.Context, key string) error {
	return r.client.Del(ctx, claimKeyPrefix+key).Err()
}

// ClaimTTL reports the remaining lifetime of a claim, zero when absent.
func (r *RedisAdapter) ClaimTTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, claimKeyPrefix+key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
