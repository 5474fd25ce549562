package models

import "strings"

// CanonicalColor член фиксированного набора базовых цветов.
// Other означает отсутствие совпадения и никогда не заменяется пустым значением
type CanonicalColor string

const (
	White  CanonicalColor = "White"
	Black  CanonicalColor = "Black"
	Gray   CanonicalColor = "Gray"
	Red    CanonicalColor = "Red"
	Orange CanonicalColor = "Orange"
	Yellow CanonicalColor = "Yellow"
	Green  CanonicalColor = "Green"
	Blue   CanonicalColor = "Blue"
	Brown  CanonicalColor = "Brown"
	Purple CanonicalColor = "Purple"
	Pink   CanonicalColor = "Pink"
	Tan    CanonicalColor = "Tan"
	Other  CanonicalColor = "Other"
)

func (c CanonicalColor) String() string {
	return string(c)
}

// Lower имя цвета в нижнем регистре
func (c CanonicalColor) Lower() string {
	return strings.ToLower(string(c))
}

// RGB усредненный цвет изображения
type RGB struct {
	R, G, B uint8
}

// RowKey ключ строки таблицы дескрипторов в диапазоне [MinRowKey, MaxRowKey]
type RowKey int

const (
	MinRowKey RowKey = 1
	MaxRowKey RowKey = 100
)

// UnknownDescriptor подставляется, когда оба поиска не дали результата
const UnknownDescriptor = "Unknown"
