package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dharti-automation/dharti-web/internal/content/domain"
	"github.com/redis/go-redis/v9"
)

const (
	contentKeyPrefix = "content:" // Key prefix for cached resources: content:{resource}
	scanBatchSize    = 100
)

// CacheRepository stores decoded content resources by name.
type CacheRepository interface {
	// Get decodes the cached value into dest, or returns domain.ErrCacheMiss.
	Get(ctx context.Context, resource string, dest any) error
	Set(ctx context.Context, resource string, value any, ttl time.Duration) error
	// Clear drops every cached resource and returns how many were removed.
	Clear(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Name() string
}

// RedisCacheRepository shares cached resources between processes.
type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) *RedisCacheRepository {
	return &RedisCacheRepository{client: client}
}

func (r *RedisCacheRepository) Name() string { return "redis" }

func (r *RedisCacheRepository) Get(ctx context.Context, resource string, dest any) error {
	data, err := r.client.Get(ctx, contentKey(resource)).Bytes()
	if err == redis.Nil {
		return domain.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cached %s: %w", resource, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached %s: %w", resource, err)
	}
	return nil
}

func (r *RedisCacheRepository) Set(ctx context.Context, resource string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", resource, err)
	}
	if err := r.client.Set(ctx, contentKey(resource), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", resource, err)
	}
	return nil
}

func (r *RedisCacheRepository) Clear(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, contentKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan cached content: %w", err)
		}
		if len(keys) > 0 {
			pipe := r.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return removed, fmt.Errorf("failed to clear cached content: %w", err)
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func (r *RedisCacheRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func contentKey(resource string) string {
	return contentKeyPrefix + resource
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCacheRepository is the in-process store used when Redis is not configured.
type MemoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCacheRepository) Name() string { return "memory" }

func (m *MemoryCacheRepository) Get(_ context.Context, resource string, dest any) error {
	m.mu.RLock()
	entry, ok := m.entries[resource]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[resource]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, resource)
		}
		m.mu.Unlock()
		return domain.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached %s: %w", resource, err)
	}
	return nil
}

func (m *MemoryCacheRepository) Set(_ context.Context, resource string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", resource, err)
	}
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[resource] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCacheRepository) Clear(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = make(map[string]memoryEntry)
	return n, nil
}

func (m *MemoryCacheRepository) Ping(context.Context) error { return nil }

// IsMiss reports whether err is a cache miss.
func IsMiss(err error) bool {
	return errors.Is(err, domain.ErrCacheMiss)
}
