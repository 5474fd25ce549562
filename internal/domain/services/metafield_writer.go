package services

import (
	"context"
	"strconv"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"github.com/athebyme/shopify-color-relay/internal/metrics"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// BuildMetafieldSet набор метаполей в фиксированном порядке:
// цвет, ключ строки 1, ключ строки 2, слова
func BuildMetafieldSet(color models.CanonicalColor, first, second models.RowKey, words string) []pkgmodels.Metafield {
	field := func(key, value string) pkgmodels.Metafield {
		return pkgmodels.Metafield{
			Namespace: pkgmodels.MetafieldNamespace,
			Key:       key,
			Type:      pkgmodels.MetafieldType,
			Value:     value,
		}
	}
	return []pkgmodels.Metafield{
		field(pkgmodels.MetafieldKeyColor, color.String()),
		field(pkgmodels.MetafieldKeyRowKey1, strconv.Itoa(int(first))),
		field(pkgmodels.MetafieldKeyRowKey2, strconv.Itoa(int(second))),
		field(pkgmodels.MetafieldKeyNatureWords, words),
	}
}

// MetafieldWriter записывает метаполя продукта последовательно.
// Ошибка записи одного поля логируется и не прерывает запись остальных
type MetafieldWriter struct {
	commerce interfaces.CommercePort
	policy   CallPolicy
	logger   interfaces.LoggerPort
}

func NewMetafieldWriter(commerce interfaces.CommercePort, policy CallPolicy, logger interfaces.LoggerPort) *MetafieldWriter {
	return &MetafieldWriter{commerce: commerce, policy: policy, logger: logger}
}

// Write выполняет по одному запросу на поле в порядке набора
func (w *MetafieldWriter) Write(ctx context.Context, productID int64, fields []pkgmodels.Metafield) models.WriteReport {
	var report models.WriteReport

	for _, f := range fields {
		report.Attempted++
		out := CallErr(ctx, w.policy, DependencyShopify, "upsert_metafield", func(ctx context.Context) error {
			return w.commerce.UpsertMetafield(ctx, productID, f)
		})
		if !out.OK() {
			report.Failed++
			report.Errors = append(report.Errors, out.Err)
			metrics.MetafieldWrites.WithLabelValues(f.Key, "error").Inc()
			w.logger.ErrorWithContext(ctx, "Ошибка записи метаполя",
				interfaces.LogField{Key: "key", Value: f.Key},
				interfaces.LogField{Key: "error", Value: out.Err.Error()},
			)
			continue
		}
		metrics.MetafieldWrites.WithLabelValues(f.Key, "ok").Inc()
	}

	return report
}
