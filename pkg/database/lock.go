package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockTimeout = errors.New("timed out waiting for record lock")

// releaseScript deletes the lock only when the stored token still matches,
// so an expired lock reacquired by another writer is never released by us.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RecordLock serializes read-modify-write cycles on a progress record.
// Progress mutations for the same (user, course) pair must not interleave;
// mutations for different pairs are independent and run in parallel.
type RecordLock struct {
	rdb *redis.Client
}

func NewRecordLock(rdb *redis.Client) *RecordLock {
	return &RecordLock{rdb: rdb}
}

// Acquire blocks until the lock is held or the wait budget runs out.
// The returned token must be passed back to Release.
func (l *RecordLock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(ttl)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func (l *RecordLock) Release(ctx context.Context, key, token string) error {
	return l.rdb.Eval(ctx, releaseScript, []string{key}, token).Err()
}
