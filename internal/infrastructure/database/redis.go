package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the shared client behind the per-user lock and the OTP resend throttle
type RedisClient struct{ *redis.Client }

// NewRedis creates a client; the connection is opened lazily, call Ping to check it
func NewRedis(addr, pass string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})}
}

func (c *RedisClient) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }

// Helpers

// SetNX claims key for ttl; false means another holder already has it
func SetNX(ctx context.Context, r *redis.Client, key string, val any, ttl time.Duration) (bool, error) {
	return r.SetNX(ctx, key, val, ttl).Result()
}

// RemainingTTL returns how long key lives; zero when it is missing or has no expiry
func RemainingTTL(ctx context.Context, r *redis.Client, key string) (time.Duration, error) {
	ttl, err := r.TTL(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Forget deletes key, detached from the request so cancellation cannot skip it
func Forget(r *redis.Client, key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.Del(ctx, key).Err()
}
