package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"github.com/athebyme/shopify-color-relay/internal/metrics"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// colorPlaceholder подставляется в шаблон имени таблицы
const colorPlaceholder = "{color}"

// DescriptorService ищет слова-дескрипторы и синонимы в таблице, адресуемой цветом
type DescriptorService struct {
	table           interfaces.TablePort
	descriptorTable string
	vocabularyTable string
	policy          CallPolicy
	logger          interfaces.LoggerPort
}

// NewDescriptorService создает сервис; шаблоны имен таблиц содержат {color}
func NewDescriptorService(table interfaces.TablePort, descriptorTable, vocabularyTable string, policy CallPolicy, logger interfaces.LoggerPort) *DescriptorService {
	if descriptorTable == "" {
		descriptorTable = colorPlaceholder
	}
	if vocabularyTable == "" {
		vocabularyTable = descriptorTable
	}
	return &DescriptorService{
		table:           table,
		descriptorTable: descriptorTable,
		vocabularyTable: vocabularyTable,
		policy:          policy,
		logger:          logger,
	}
}

// TableName имя таблицы для цвета по шаблону
func TableName(template string, color models.CanonicalColor) string {
	return strings.ReplaceAll(template, colorPlaceholder, color.String())
}

// Lookup возвращает значение второй колонки строки, чей ключ численно равен key.
// Отказ сервиса таблиц и отсутствие строки дают found=false
func (s *DescriptorService) Lookup(ctx context.Context, color models.CanonicalColor, key models.RowKey) (string, bool) {
	table := TableName(s.descriptorTable, color)

	out := Call(ctx, s.policy, DependencyLookup, "rows", func(ctx context.Context) ([]pkgmodels.TableRow, error) {
		return s.table.Rows(ctx, table)
	})
	if !out.OK() {
		metrics.DescriptorLookups.WithLabelValues("error").Inc()
		s.logger.WarnWithContext(ctx, "Ошибка чтения таблицы дескрипторов",
			interfaces.LogField{Key: "table", Value: table},
			interfaces.LogField{Key: "row", Value: int(key)},
			interfaces.LogField{Key: "error", Value: out.Err.Error()},
		)
		return "", false
	}

	for _, row := range out.Value {
		k, ok := ParseRowKey(row.Key)
		if !ok || k != key {
			continue
		}
		word := strings.TrimSpace(row.Value)
		if word == "" {
			break
		}
		metrics.DescriptorLookups.WithLabelValues("found").Inc()
		return word, true
	}

	metrics.DescriptorLookups.WithLabelValues("missing").Inc()
	return "", false
}

// Describe выполняет два независимых поиска и объединяет найденные слова через пробел.
// Если оба поиска пусты, результатом будет Unknown
func (s *DescriptorService) Describe(ctx context.Context, color models.CanonicalColor, first, second models.RowKey) models.DescriptorResult {
	res := models.DescriptorResult{
		First:  models.Descriptor{Key: first},
		Second: models.Descriptor{Key: second},
	}
	res.First.Word, res.First.Found = s.Lookup(ctx, color, first)
	res.Second.Word, res.Second.Found = s.Lookup(ctx, color, second)
	res.Words = JoinDescriptors(res.First, res.Second)
	return res
}

// JoinDescriptors объединяет непустые слова; Unknown, если таких нет
func JoinDescriptors(descriptors ...models.Descriptor) string {
	parts := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Found && d.Word != "" {
			parts = append(parts, d.Word)
		}
	}
	if len(parts) == 0 {
		return models.UnknownDescriptor
	}
	return strings.Join(parts, " ")
}

// Synonyms слова второй колонки таблицы словаря цвета, в нижнем регистре.
// Строки без целочисленного ключа (заголовки) пропускаются
func (s *DescriptorService) Synonyms(ctx context.Context, color models.CanonicalColor) ([]string, error) {
	table := TableName(s.vocabularyTable, color)

	out := Call(ctx, s.policy, DependencyLookup, "vocabulary", func(ctx context.Context) ([]pkgmodels.TableRow, error) {
		return s.table.Rows(ctx, table)
	})
	if !out.OK() {
		return nil, out.Err
	}

	var words []string
	for _, row := range out.Value {
		if _, ok := ParseRowKey(row.Key); !ok {
			continue
		}
		words = append(words, tokenize(row.Value)...)
	}
	return words, nil
}

// ParseRowKey разбирает ключ строки как целое число: "37", " 037 ", "37.0"
func ParseRowKey(raw string) (models.RowKey, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return models.RowKey(n), true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return models.RowKey(int(f)), true
}
