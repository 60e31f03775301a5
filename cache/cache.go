package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"finboard/config"

	"github.com/redis/go-redis/v9"
)

// Cache is the store behind market data and analysis responses. Values are
// JSON blobs with a TTL; expired entries behave as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type RedisCache struct {
	client *redis.Client
}

type MemoryCache struct {
	mu    sync.Mutex
	items map[string]memItem
}

type memItem struct {
	val []byte
	exp time.Time
}

// New connects to Redis when REDIS_URL is set and reachable, otherwise falls
// back to the in-process map so the service still runs without Redis.
func New(cfg config.Config) Cache {
	if cfg.RedisURL == "" {
		return NewMemoryCache()
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return NewMemoryCache()
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return NewMemoryCache()
	}
	return &RedisCache{client: client}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memItem)}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *RedisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, val, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !it.exp.IsZero() && time.Now().After(it.exp) {
		delete(m.items, key)
		return nil, false
	}
	return it.val, true
}

func (m *MemoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.items[key] = memItem{val: val, exp: exp}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// GetJSON unmarshals a cached entry into v. Returns false on miss or when
// the stored blob no longer decodes.
func GetJSON(ctx context.Context, c Cache, key string, v any) bool {
	b, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false
	}
	return true
}

// SetJSON marshals v and stores it under key for ttl.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}
