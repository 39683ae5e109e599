package booking

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// SlotLocker serializes reservation attempts per (provider, date) key.
// Acquire blocks until the critical section is held or the context is done;
// a context deadline expiry surfaces as a retryable lock-timeout error.
// Locks for different keys never contend.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// KeyedMutexLocker is the in-process SlotLocker: a table of per-key
// semaphores. Entries are removed once the last waiter leaves, so the table
// stays proportional to live contention, not to key history.
type KeyedMutexLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

func NewKeyedMutexLocker() *KeyedMutexLocker {
	return &KeyedMutexLocker{entries: make(map[string]*lockEntry)}
}

func (l *KeyedMutexLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry := l.entries[key]
	if entry == nil {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
		return func() {
			<-entry.ch
			l.drop(key, entry)
		}, nil
	case <-ctx.Done():
		l.drop(key, entry)
		return nil, NewLockTimeoutError()
	}
}

func (l *KeyedMutexLocker) drop(key string, entry *lockEntry) {
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}

// RedisLocker implements SlotLocker on a shared Redis, for deployments
// running more than one instance. SET NX with a TTL holds the lock; release
// deletes the key only if the holder's token still matches.
type RedisLocker struct {
	Client *redis.Client
	// TTL bounds how long a crashed holder can wedge a provider-day.
	TTL time.Duration
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	ttl := l.TTL
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	token := uuid.New().String()
	redisKey := "reserve_lock:" + key

	for {
		ok, err := l.Client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			return nil, NewLockTimeoutError()
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, l.Client, []string{redisKey}, token).Err()
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, NewLockTimeoutError()
		case <-time.After(25 * time.Millisecond):
		}
	}
}
