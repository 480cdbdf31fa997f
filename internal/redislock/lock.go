package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// Locker serializes the check-then-write critical section for one slot,
// so two concurrent bookings of the same (therapist, date, time) cannot
// both pass the availability check.
type Locker interface {
	WithSlotLock(ctx context.Context, therapistID uint, date, timeStr string, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSlotLocker creates a locker backed by a per-slot Redis key.
func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisSlotLocker) WithSlotLock(ctx context.Context, therapistID uint, date, timeStr string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:slot:%d:%s:%s", therapistID, date, timeStr)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

// Release only deletes the key while it still holds our token, so an
// expired lock re-acquired by another request is never removed.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

// NoopLocker runs the critical section without distributed locking; the
// storage-level unique index remains the backstop. Used in tests.
type NoopLocker struct{}

func (NoopLocker) WithSlotLock(ctx context.Context, _ uint, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
