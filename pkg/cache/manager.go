package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates the cache entry is invalid or corrupted
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// Store is the key-value capability the stock service depends on.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored value, or ErrCacheMiss if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Manager is the Redis-backed Store.
type Manager struct {
	redis *redis.Client
}

var _ Store = (*Manager)(nil)

// NewManager creates a new cache manager with Redis backend.
func NewManager(redisClient *redis.Client) *Manager {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}

	return &Manager{
		redis: redisClient,
	}
}

// Get retrieves the value stored under key.
// Returns ErrCacheMiss if the key doesn't exist or entry is expired.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := m.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, &StoreError{Op: "get", Key: key, Err: err}
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, &StoreError{Op: "get", Key: key, Err: fmt.Errorf("%w: %v", ErrInvalidEntry, err)}
	}

	// Redis normally evicts first; this covers clock skew between writers.
	if entry.IsExpired() {
		CacheExpired.Inc()
		_ = m.Delete(ctx, key)
		return nil, ErrCacheMiss
	}

	return entry.Data, nil
}

// Set stores value under key with the given TTL.
// A non-positive TTL is a no-op so that unknown operations are never cached forever.
func (m *Manager) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if value == nil {
		return fmt.Errorf("cache value cannot be nil")
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(NewEntry(value, ttl))
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return &StoreError{Op: "set", Key: key, Err: fmt.Errorf("marshal cache entry: %w", err)}
	}

	if err := m.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return &StoreError{Op: "set", Key: key, Err: err}
	}

	CacheWrittenBytes.Add(float64(len(data)))

	return nil
}

// Delete removes a cache entry.
func (m *Manager) Delete(ctx context.Context, key string) error {
	if err := m.redis.Del(ctx, key).Err(); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// Ping checks the Redis connection. Used by readiness probes.
func (m *Manager) Ping(ctx context.Context) error {
	return m.redis.Ping(ctx).Err()
}
