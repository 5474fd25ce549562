package models

// Ключи метаполей, записываемых в продукт
const (
	MetafieldNamespace = "custom"
	MetafieldType      = "single_line_text_field"

	MetafieldKeyColor       = "product_color"
	MetafieldKeyRowKey1     = "random_number_1"
	MetafieldKeyRowKey2     = "random_number_2"
	MetafieldKeyNatureWords = "nature_words"
)

// Metafield типизированное поле ключ/значение продукта
type Metafield struct {
	ID        int64  `json:"id,omitempty"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

// ProductUpdate изменяемые атрибуты продукта
type ProductUpdate struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title,omitempty"`
	Handle  string   `json:"handle,omitempty"`
	Options []Option `json:"options,omitempty"`
}
