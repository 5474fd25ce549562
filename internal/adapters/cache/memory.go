package cache

import (
	"context"
	"time"

	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache кэш в памяти процесса на go-cache
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache создает кэш с периодом очистки просроченных записей
func NewMemoryCache(cleanupInterval time.Duration) interfaces.CachePort {
	return &MemoryCache{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.store.Get(key)
	if !ok {
		return nil, utils.ErrCacheMiss
	}
	return v.([]byte), nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration == 0 {
		expiration = gocache.NoExpiration
	}
	m.store.Set(key, value, expiration)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

// Lock использует Add, который завершается ошибкой для существующего ключа
func (m *MemoryCache) Lock(_ context.Context, key string, expiration time.Duration) (bool, error) {
	if expiration == 0 {
		expiration = gocache.NoExpiration
	}
	if err := m.store.Add(key, []byte("1"), expiration); err != nil {
		return false, nil
	}
	return true, nil
}

func (m *MemoryCache) Close() error {
	m.store.Flush()
	return nil
}
