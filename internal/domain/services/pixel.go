package services

import "github.com/athebyme/shopify-color-relay/internal/domain/models"

// Пороги классификации пикселя. Проверяются по порядку:
// Red, Green, Blue, Orange, White, Black, Gray, затем доминирующий канал.
const (
	// Red: r > 180, g < 100, b < 100
	redMinR, redMaxGB = 180, 100
	// Green / Blue: основной канал > 180, остальные < 120
	primaryMin, primaryOtherMax = 180, 120
	// Orange: r > 200, g > 140, b < 100
	orangeMinR, orangeMinG, orangeMaxB = 200, 140, 100
	// White: все каналы >= 221
	whiteMin = 221
	// Black: все каналы < 70
	blackMax = 70
	// Gray: все каналы > 160
	grayMin = 160
)

// ClassifyRGB сопоставляет цвет пикселя базовому цвету
func ClassifyRGB(rgb models.RGB) models.CanonicalColor {
	r, g, b := int(rgb.R), int(rgb.G), int(rgb.B)

	switch {
	case r > redMinR && g < redMaxGB && b < redMaxGB:
		return models.Red
	case g > primaryMin && r < primaryOtherMax && b < primaryOtherMax:
		return models.Green
	case b > primaryMin && r < primaryOtherMax && g < primaryOtherMax:
		return models.Blue
	case r > orangeMinR && g > orangeMinG && b < orangeMaxB:
		return models.Orange
	case r >= whiteMin && g >= whiteMin && b >= whiteMin:
		return models.White
	case r < blackMax && g < blackMax && b < blackMax:
		return models.Black
	case r > grayMin && g > grayMin && b > grayMin:
		return models.Gray
	}

	switch {
	case r > g && r > b:
		return models.Red
	case g > r && g > b:
		return models.Green
	case b > r && b > g:
		return models.Blue
	}

	return models.Other
}
