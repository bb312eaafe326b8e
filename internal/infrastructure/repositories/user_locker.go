package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kunalkv2000/reset-password/domain"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// DefaultLockTTL bounds how long a crashed holder can block a user record.
// It must stay above the mail send timeout since OTP delivery runs under the lock.
const DefaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only while it still carries the holder's token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisUserLocker implements domain.UserLocker with SETNX keys in Redis.
// Acquire does not wait; a held lock yields domain.ErrUserLocked.
type RedisUserLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisUserLocker creates a new Redis backed user locker
func NewRedisUserLocker(client *redis.Client, ttl time.Duration) domain.UserLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisUserLocker{
		client: client,
		prefix: "lock:user:",
		ttl:    ttl,
	}
}

// Acquire implements domain.UserLocker
func (l *RedisUserLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return nil, oops.Code("USER_LOCK_FAILED").With("key", key).Wrap(err)
	}
	if !ok {
		return nil, domain.ErrUserLocked
	}

	release := func() {
		// background context so a cancelled request still frees the key
		releaseScript.Run(context.Background(), l.client, []string{lockKey}, token)
	}
	return release, nil
}

// NoopLocker is used when Redis is not configured
type NoopLocker struct{}

// NewNoopLocker creates a locker that never blocks
func NewNoopLocker() domain.UserLocker {
	return NoopLocker{}
}

// Acquire implements domain.UserLocker
func (NoopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
