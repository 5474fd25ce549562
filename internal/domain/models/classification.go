package models

import (
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// SourceKind откуда получен исходный цвет
type SourceKind string

const (
	SourceOption SourceKind = "option"
	SourceImage  SourceKind = "image"
	SourceTitle  SourceKind = "title"
	SourceNone   SourceKind = "none"
)

// ColorSource результат разрешения источника цвета продукта
type ColorSource struct {
	Kind SourceKind `json:"source"`
	// Token исходное строковое значение (для option и title)
	Token string `json:"raw,omitempty"`
	// ImageURL адрес первого изображения (для image)
	ImageURL string `json:"image_url,omitempty"`
	// Variant и OptionPosition заполнены только для option
	Variant        *pkgmodels.Variant `json:"-"`
	OptionPosition int                `json:"-"`
}

// Classification источник и итоговый базовый цвет
type Classification struct {
	ColorSource
	Color CanonicalColor `json:"color"`
}

// Descriptor результат одного поиска по ключу строки
type Descriptor struct {
	Key   RowKey
	Word  string
	Found bool
}

// DescriptorResult объединение двух независимых поисков
type DescriptorResult struct {
	First  Descriptor
	Second Descriptor
	Words  string
}

// WriteStatus итог записи набора метаполей
type WriteStatus string

const (
	WriteSuccess WriteStatus = "success"
	WritePartial WriteStatus = "partial"
	WriteFailure WriteStatus = "failure"
)

// WriteReport результат записи метаполей
type WriteReport struct {
	Attempted int
	Failed    int
	Errors    []error
}

// Status success, если все записи прошли, failure, если ни одна
func (r WriteReport) Status() WriteStatus {
	switch {
	case r.Failed == 0:
		return WriteSuccess
	case r.Failed < r.Attempted:
		return WritePartial
	default:
		return WriteFailure
	}
}

// ReconcileReport изменения вариантов после нормализации
type ReconcileReport struct {
	Strategy         string  `json:"strategy"`
	UpdatedVariantID int64   `json:"updated_variant_id,omitempty"`
	CreatedVariantID int64   `json:"created_variant_id,omitempty"`
	DeletedVariants  []int64 `json:"deleted_variants,omitempty"`
}

// PipelineResult итог обработки одного вебхука
type PipelineResult struct {
	ProductID      int64            `json:"product_id"`
	Classification Classification   `json:"classification"`
	RowKey1        RowKey           `json:"random_number_1"`
	RowKey2        RowKey           `json:"random_number_2"`
	Words          string           `json:"nature_words"`
	Writes         WriteReport      `json:"-"`
	Reconcile      *ReconcileReport `json:"reconcile,omitempty"`
}
