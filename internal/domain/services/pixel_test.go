package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
)

func TestClassifyRGB(t *testing.T) {
	tests := []struct {
		rgb  models.RGB
		want models.CanonicalColor
	}{
		{models.RGB{R: 250, G: 250, B: 250}, models.White},
		{models.RGB{R: 10, G: 10, B: 10}, models.Black},
		{models.RGB{R: 200, G: 50, B: 50}, models.Red},
		{models.RGB{R: 50, G: 200, B: 50}, models.Green},
		{models.RGB{R: 30, G: 60, B: 220}, models.Blue},
		{models.RGB{R: 240, G: 160, B: 40}, models.Orange},
		{models.RGB{R: 190, G: 190, B: 190}, models.Gray},
		{models.RGB{R: 150, G: 120, B: 90}, models.Red},
		{models.RGB{R: 90, G: 130, B: 100}, models.Green},
		{models.RGB{R: 90, G: 90, B: 140}, models.Blue},
		{models.RGB{R: 120, G: 120, B: 120}, models.Other},
		{models.RGB{R: 140, G: 140, B: 90}, models.Other},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyRGB(tt.rgb), "rgb=%v", tt.rgb)
	}
}

func TestClassifyRGB_WhiteAndBlackBounds(t *testing.T) {
	for v := whiteMin; v <= 255; v++ {
		for _, rgb := range []models.RGB{
			{R: uint8(v), G: uint8(v), B: uint8(v)},
			{R: 255, G: uint8(v), B: whiteMin},
			{R: whiteMin, G: 255, B: uint8(v)},
		} {
			assert.Equal(t, models.White, ClassifyRGB(rgb), "rgb=%v", rgb)
		}
	}

	for v := 0; v < blackMax; v++ {
		for _, rgb := range []models.RGB{
			{R: uint8(v), G: uint8(v), B: uint8(v)},
			{R: blackMax - 1, G: uint8(v), B: 0},
			{R: 0, G: blackMax - 1, B: uint8(v)},
		} {
			assert.Equal(t, models.Black, ClassifyRGB(rgb), "rgb=%v", rgb)
		}
	}
}
