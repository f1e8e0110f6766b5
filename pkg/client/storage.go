package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStorage is a string key/value store scoped to one client session.
// Get returns "" for a missing key.
type SessionStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStorage keeps session values in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// RedisStorage keeps session values in Redis under "session:<id>:<key>".
// A zero TTL keeps values until they are overwritten.
type RedisStorage struct {
	rdb       *redis.Client
	sessionID string
	ttl       time.Duration
}

func NewRedisStorage(rdb *redis.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{rdb: rdb, sessionID: sessionID, ttl: ttl}
}

func (r *RedisStorage) key(k string) string {
	return "session:" + r.sessionID + ":" + k
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if value == "" {
		return r.rdb.Del(ctx, r.key(key)).Err()
	}
	return r.rdb.Set(ctx, r.key(key), value, r.ttl).Err()
}
