package interfaces

import (
	"context"

	"github.com/athebyme/shopify-color-relay/pkg/models"
)

// CommercePort определяет операции Shopify Admin REST API, используемые конвейером
type CommercePort interface {
	// UpsertMetafield создает или обновляет метаполе продукта
	UpsertMetafield(ctx context.Context, productID int64, field models.Metafield) error

	// UpdateVariantOption переписывает слот optionN варианта
	UpdateVariantOption(ctx context.Context, variantID int64, position int, value string) error

	// ListVariants возвращает текущие варианты продукта
	ListVariants(ctx context.Context, productID int64) ([]models.Variant, error)

	// CreateVariant создает вариант и возвращает его с присвоенным ID
	CreateVariant(ctx context.Context, productID int64, variant models.Variant) (*models.Variant, error)

	// DeleteVariant удаляет вариант
	DeleteVariant(ctx context.Context, productID, variantID int64) error

	// UpdateProduct обновляет заголовок, handle или список опций продукта
	UpdateProduct(ctx context.Context, update models.ProductUpdate) error
}

// ImagePort извлекает доминирующий цвет изображения
type ImagePort interface {
	DominantRGB(ctx context.Context, url string) (r, g, b uint8, err error)
}
