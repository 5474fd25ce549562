package services

import (
	"math/rand/v2"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
)

// RowKeySource выдает ключи строк таблицы дескрипторов
type RowKeySource interface {
	Next() models.RowKey
}

type randomRowKeys struct{}

// NewRandomRowKeys равномерно распределенные ключи в [MinRowKey, MaxRowKey]
func NewRandomRowKeys() RowKeySource {
	return randomRowKeys{}
}

func (randomRowKeys) Next() models.RowKey {
	span := int(models.MaxRowKey - models.MinRowKey + 1)
	return models.MinRowKey + models.RowKey(rand.IntN(span))
}
