package services

import (
	"strings"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// ResolveColorSource определяет источник цвета продукта.
// Порядок: опция "Color" варианта, затем первое изображение, затем (если включено) заголовок
func ResolveColorSource(product *pkgmodels.Product, titleFallback bool) models.ColorSource {
	if option, ok := product.ColorOption(); ok && len(product.Variants) > 0 {
		variant := colorVariant(product)
		if token := strings.TrimSpace(variant.OptionValue(option.Position)); token != "" {
			return models.ColorSource{
				Kind:           models.SourceOption,
				Token:          token,
				Variant:        variant,
				OptionPosition: option.Position,
			}
		}
	}

	if len(product.Images) > 0 && strings.TrimSpace(product.Images[0].Src) != "" {
		return models.ColorSource{
			Kind:     models.SourceImage,
			ImageURL: product.Images[0].Src,
		}
	}

	if titleFallback && strings.TrimSpace(product.Title) != "" {
		return models.ColorSource{
			Kind:  models.SourceTitle,
			Token: strings.TrimSpace(product.Title),
		}
	}

	return models.ColorSource{Kind: models.SourceNone}
}

// colorVariant вариант, привязанный к первому изображению, иначе первый вариант
func colorVariant(product *pkgmodels.Product) *pkgmodels.Variant {
	if len(product.Images) > 0 {
		linked := product.Images[0].VariantIDs
		for i := range product.Variants {
			if pkgmodels.HasVariant(linked, product.Variants[i].ID) {
				return &product.Variants[i]
			}
		}
	}
	return &product.Variants[0]
}
