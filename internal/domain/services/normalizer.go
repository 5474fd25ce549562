package services

import (
	"context"
	"strings"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"github.com/athebyme/shopify-color-relay/internal/domain/palette"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// VocabularyPort словарь синонимов базового цвета (колонка B таблицы цвета)
type VocabularyPort interface {
	Synonyms(ctx context.Context, color models.CanonicalColor) ([]string, error)
}

// Normalizer приводит исходный цвет к одному из базовых цветов палитры
type Normalizer struct {
	palette    *palette.Palette
	vocabulary VocabularyPort
	images     interfaces.ImagePort
	policy     CallPolicy
	logger     interfaces.LoggerPort
}

// NewNormalizer создает нормализатор; vocabulary и images могут быть nil
func NewNormalizer(p *palette.Palette, vocabulary VocabularyPort, images interfaces.ImagePort, policy CallPolicy, logger interfaces.LoggerPort) *Normalizer {
	return &Normalizer{
		palette:    p,
		vocabulary: vocabulary,
		images:     images,
		policy:     policy,
		logger:     logger,
	}
}

// Normalize выбирает стратегию по типу источника; результат всегда член палитры
func (n *Normalizer) Normalize(ctx context.Context, src models.ColorSource) models.CanonicalColor {
	switch src.Kind {
	case models.SourceOption, models.SourceTitle:
		return n.NormalizeToken(ctx, src.Token)
	case models.SourceImage:
		return n.NormalizeImage(ctx, src.ImageURL)
	default:
		return models.Other
	}
}

// NormalizeToken сопоставляет строковое значение цвета:
// словарь описательных цветов и имена базовых цветов, затем пересечение слов
// со словарем синонимов в объявленном порядке цветов, иначе Other
func (n *Normalizer) NormalizeToken(ctx context.Context, raw string) models.CanonicalColor {
	token := strings.TrimSpace(raw)
	if token == "" {
		return models.Other
	}

	if c, ok := n.palette.Keyword(token); ok {
		return c
	}
	if c, ok := n.palette.Canonical(token); ok {
		return c
	}

	words := tokenize(token)
	for _, candidate := range n.palette.Candidates() {
		if intersects(words, n.synonyms(ctx, candidate)) {
			return candidate
		}
	}

	return models.Other
}

// NormalizeImage классифицирует доминирующий цвет изображения; ошибка загрузки дает Other
func (n *Normalizer) NormalizeImage(ctx context.Context, url string) models.CanonicalColor {
	if n.images == nil || url == "" {
		return models.Other
	}

	out := Call(ctx, n.policy, DependencyImage, "dominant_color", func(ctx context.Context) (models.RGB, error) {
		r, g, b, err := n.images.DominantRGB(ctx, url)
		return models.RGB{R: r, G: g, B: b}, err
	})
	if !out.OK() {
		n.logger.WarnWithContext(ctx, "Не удалось определить цвет изображения",
			interfaces.LogField{Key: "url", Value: url},
			interfaces.LogField{Key: "error", Value: out.Err.Error()},
		)
		return models.Other
	}

	color := ClassifyRGB(out.Value)
	n.logger.DebugWithContext(ctx, "Цвет изображения классифицирован",
		interfaces.LogField{Key: "rgb", Value: []uint8{out.Value.R, out.Value.G, out.Value.B}},
		interfaces.LogField{Key: "color", Value: color.String()},
	)
	return color
}

// synonyms локальные синонимы палитры и слова внешнего словаря.
// Ошибка внешнего словаря означает отсутствие совпадения только для этого кандидата
func (n *Normalizer) synonyms(ctx context.Context, color models.CanonicalColor) []string {
	words := n.palette.LocalSynonyms(color)
	if n.vocabulary == nil {
		return words
	}

	remote, err := n.vocabulary.Synonyms(ctx, color)
	if err != nil {
		n.logger.WarnWithContext(ctx, "Словарь синонимов недоступен",
			interfaces.LogField{Key: "color", Value: color.String()},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return words
	}
	return append(words, remote...)
}

// tokenize разбивает значение на слова в нижнем регистре по пробельным символам.
// Знаки препинания остаются частью слова: "Navy/White" одно слово
func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func intersects(words, vocabulary []string) bool {
	if len(words) == 0 || len(vocabulary) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(vocabulary))
	for _, v := range vocabulary {
		set[v] = struct{}{}
	}
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
