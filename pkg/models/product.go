package models

import "strings"

// ColorOptionName имя опции продукта, содержащей цвет (сравнение без учета регистра)
const ColorOptionName = "color"

// Product представляет ресурс продукта Shopify, приходящий в вебхуке products/create
type Product struct {
	ID       int64     `json:"id" validate:"required,gt=0"`
	Title    string    `json:"title"`
	Handle   string    `json:"handle,omitempty"`
	Options  []Option  `json:"options"`
	Variants []Variant `json:"variants" validate:"dive"`
	Images   []Image   `json:"images"`
}

// Option описание опции продукта; Position (1..3) определяет слот optionN у варианта
type Option struct {
	ID       int64    `json:"id,omitempty"`
	Name     string   `json:"name"`
	Position int      `json:"position"`
	Values   []string `json:"values,omitempty"`
}

// Variant вариант продукта. Коммерческие атрибуты переносятся без изменений при пересоздании
type Variant struct {
	ID                  int64   `json:"id,omitempty"`
	ProductID           int64   `json:"product_id,omitempty"`
	Title               string  `json:"title,omitempty"`
	Price               string  `json:"price,omitempty"`
	CompareAtPrice      *string `json:"compare_at_price,omitempty"`
	SKU                 string  `json:"sku,omitempty"`
	Barcode             string  `json:"barcode,omitempty"`
	Position            int     `json:"position,omitempty"`
	InventoryPolicy     string  `json:"inventory_policy,omitempty"`
	InventoryManagement *string `json:"inventory_management,omitempty"`
	InventoryQuantity   int     `json:"inventory_quantity,omitempty"`
	FulfillmentService  string  `json:"fulfillment_service,omitempty"`
	Taxable             bool    `json:"taxable"`
	RequiresShipping    bool    `json:"requires_shipping"`
	Grams               int     `json:"grams,omitempty"`
	Weight              float64 `json:"weight,omitempty"`
	WeightUnit          string  `json:"weight_unit,omitempty"`
	ImageID             *int64  `json:"image_id,omitempty"`
	Option1             *string `json:"option1,omitempty"`
	Option2             *string `json:"option2,omitempty"`
	Option3             *string `json:"option3,omitempty"`
}

// Image изображение продукта с привязкой к вариантам
type Image struct {
	ID         int64   `json:"id,omitempty"`
	Position   int     `json:"position,omitempty"`
	Src        string  `json:"src"`
	VariantIDs []int64 `json:"variant_ids,omitempty"`
}

// ColorOption возвращает опцию цвета и ее позицию (1-based). ok=false, если опции нет
func (p *Product) ColorOption() (Option, bool) {
	for i, o := range p.Options {
		if strings.EqualFold(strings.TrimSpace(o.Name), ColorOptionName) {
			if o.Position < 1 {
				o.Position = i + 1
			}
			return o, true
		}
	}
	return Option{}, false
}

// OptionValue возвращает значение слота optionN
func (v *Variant) OptionValue(position int) string {
	var p *string
	switch position {
	case 1:
		p = v.Option1
	case 2:
		p = v.Option2
	case 3:
		p = v.Option3
	}
	if p == nil {
		return ""
	}
	return *p
}

// SetOptionValue записывает значение в слот optionN
func (v *Variant) SetOptionValue(position int, value string) {
	switch position {
	case 1:
		v.Option1 = &value
	case 2:
		v.Option2 = &value
	case 3:
		v.Option3 = &value
	}
}

// HasVariant проверяет, что id входит в список
func HasVariant(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
