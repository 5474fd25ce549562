package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// Названия реализаций кэша
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// New создает кэш выбранной реализации; для none возвращает nil без ошибки
func New(ctx context.Context, backend string, redisOpts RedisOptions) (interfaces.CachePort, error) {
	switch backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		return NewMemoryCache(time.Minute), nil
	case BackendRedis:
		return NewRedisCache(ctx, redisOpts.Host, redisOpts.Port, redisOpts.Password, redisOpts.DB)
	default:
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownCacheBackend, backend)
	}
}
