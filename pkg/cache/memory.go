package cache

import (
	"context"
	"path"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMemoryTTL = 7 * 24 * time.Hour

type memoryItem struct {
	data     []byte
	expireAt time.Time
}

// MemoryCache implements Service using a bounded in-process LRU.
type MemoryCache struct {
	lru *lru.Cache[string, memoryItem]
	now func() time.Time
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1000
	}

	// lru.New only fails for a non-positive size.
	l, _ := lru.New[string, memoryItem](cfg.MaxSize)
	return &MemoryCache{lru: l, now: time.Now}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}
	mc.lru.Add(key, memoryItem{data: data, expireAt: mc.now().Add(expiration)})
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	item, ok := mc.lru.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if !mc.now().Before(item.expireAt) {
		mc.lru.Remove(key)
		return ErrCacheMiss
	}
	return decode(item.data, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		mc.lru.Remove(key)
	}
	return nil
}

// DeleteByPattern removes keys matching a glob pattern such as "quote:*".
func (mc *MemoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	for _, key := range mc.lru.Keys() {
		if ok, _ := path.Match(pattern, key); ok {
			mc.lru.Remove(key)
		}
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	now := mc.now()
	for _, key := range keys {
		if item, ok := mc.lru.Peek(key); ok && now.Before(item.expireAt) {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of entries, expired ones included.
func (mc *MemoryCache) Len() int { return mc.lru.Len() }

func (mc *MemoryCache) Close() error {
	mc.lru.Purge()
	return nil
}
