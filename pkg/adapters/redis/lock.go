package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
	"github.com/aretw0/macrograph/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

const lockRetryInterval = 25 * time.Millisecond

// unlockScript deletes the key only if we still own it.
var unlockScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// refreshScript extends the key's ttl only if we still own it.
var refreshScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`)

// Locker implements ports.DistributedLocker and ports.LockRefresher using Redis.
type Locker struct {
	client *backend.Client
	prefix string

	mu     sync.Mutex
	tokens map[string]string // lock key -> token of the lock this Locker holds
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
		tokens: make(map[string]string),
	}
}

func (l *Locker) lockKey(key string) string { return l.prefix + "lock:" + key }

// Lock acquires a distributed lock for the given key using Redis SET NX.
// It tries immediately, then polls until ctx is done. A zero ttl never expires.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.lockKey(key)
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrLockAcquire, ctx.Err())
			}
			return nil, fmt.Errorf("redis error acquiring lock: %w", err)
		}
		if ok {
			l.mu.Lock()
			l.tokens[lockKey] = token
			l.mu.Unlock()
			return func(ctx context.Context) error {
				l.forget(lockKey, token)
				return unlockScript.Run(ctx, l.client, []string{lockKey}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrLockAcquire, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Refresh resets the ttl of a lock previously acquired by this Locker.
func (l *Locker) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	lockKey := l.lockKey(key)
	l.mu.Lock()
	token, ok := l.tokens[lockKey]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s not held", domain.ErrLockLost, lockKey)
	}

	n, err := refreshScript.Run(ctx, l.client, []string{lockKey}, token, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis error refreshing lock: %w", err)
	}
	if n == 0 {
		l.forget(lockKey, token)
		return fmt.Errorf("%w: %s expired or taken over", domain.ErrLockLost, lockKey)
	}
	return nil
}

func (l *Locker) forget(lockKey, token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tokens[lockKey] == token {
		delete(l.tokens, lockKey)
	}
}

var _ ports.LockRefresher = (*Locker)(nil)
