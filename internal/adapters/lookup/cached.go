package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

const cacheKeyPrefix = "lookup:table:"

// CachedTable хранит снимок таблицы в кэше в течение ttl
type CachedTable struct {
	next   interfaces.TablePort
	cache  interfaces.CachePort
	ttl    time.Duration
	logger interfaces.LoggerPort
}

// NewCachedTable оборачивает источник таблиц кэшем; ошибки кэша не прерывают чтение
func NewCachedTable(next interfaces.TablePort, cache interfaces.CachePort, ttl time.Duration, logger interfaces.LoggerPort) *CachedTable {
	return &CachedTable{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedTable) Rows(ctx context.Context, table string) ([]models.TableRow, error) {
	key := cacheKeyPrefix + table

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var rows []models.TableRow
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
		c.logger.WarnWithContext(ctx, "Поврежденная запись кэша таблицы", interfaces.LogField{Key: "table", Value: table})
	case !errors.Is(err, utils.ErrCacheMiss):
		c.logger.WarnWithContext(ctx, "Ошибка чтения кэша таблицы",
			interfaces.LogField{Key: "table", Value: table},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}

	rows, err := c.next.Rows(ctx, table)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.WarnWithContext(ctx, "Ошибка записи кэша таблицы",
				interfaces.LogField{Key: "table", Value: table},
				interfaces.LogField{Key: "error", Value: err.Error()},
			)
		}
	}
	return rows, nil
}
