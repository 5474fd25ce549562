package palette

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed palette.yaml
var defaultPalette []byte

// pixelColors цвета, которые возвращает классификатор пикселей; обязаны присутствовать в палитре
var pixelColors = []models.CanonicalColor{
	models.Red, models.Green, models.Blue, models.Orange,
	models.White, models.Black, models.Gray, models.Other,
}

// Palette версионированный набор базовых цветов и словарь описательных цветов
type Palette struct {
	Version string
	// Colors в объявленном порядке, последний элемент Other
	Colors []models.CanonicalColor
	// keywords ключи в нижнем регистре
	keywords map[string]models.CanonicalColor
	byLower  map[string]models.CanonicalColor
}

type paletteFile struct {
	Version  string            `yaml:"version"`
	Colors   []string          `yaml:"colors"`
	Keywords map[string]string `yaml:"keywords"`
}

// Default возвращает встроенную палитру
func Default() *Palette {
	p, err := Parse(defaultPalette)
	if err != nil {
		panic(fmt.Sprintf("встроенная палитра некорректна: %v", err))
	}
	return p
}

// Load читает палитру из файла; пустой путь означает встроенную палитру
func Load(path string) (*Palette, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette %s: %w", path, err)
	}
	return Parse(data)
}

// Parse разбирает YAML палитры и проверяет ее согласованность
func Parse(data []byte) (*Palette, error) {
	var f paletteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse palette: %w", err)
	}

	p := &Palette{
		Version:  f.Version,
		keywords: make(map[string]models.CanonicalColor, len(f.Keywords)),
		byLower:  make(map[string]models.CanonicalColor, len(f.Colors)),
	}

	for _, name := range f.Colors {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("palette %s: empty color name", f.Version)
		}
		c := models.CanonicalColor(name)
		if _, dup := p.byLower[c.Lower()]; dup {
			return nil, fmt.Errorf("palette %s: duplicate color %q", f.Version, name)
		}
		if c != models.Other {
			p.Colors = append(p.Colors, c)
		}
		p.byLower[c.Lower()] = c
	}
	if _, ok := p.byLower[models.Other.Lower()]; !ok {
		return nil, fmt.Errorf("palette %s: %q is required", f.Version, models.Other)
	}
	p.Colors = append(p.Colors, models.Other)

	for _, c := range pixelColors {
		if _, ok := p.byLower[c.Lower()]; !ok {
			return nil, fmt.Errorf("palette %s: pixel color %q is missing", f.Version, c)
		}
	}

	for word, target := range f.Keywords {
		c, ok := p.byLower[strings.ToLower(strings.TrimSpace(target))]
		if !ok {
			return nil, fmt.Errorf("palette %s: keyword %q maps to unknown color %q", f.Version, word, target)
		}
		p.keywords[strings.ToLower(strings.TrimSpace(word))] = c
	}

	return p, nil
}

// Keyword точное сопоставление описательного цвета без учета регистра
func (p *Palette) Keyword(token string) (models.CanonicalColor, bool) {
	c, ok := p.keywords[strings.ToLower(strings.TrimSpace(token))]
	return c, ok
}

// Canonical сопоставление с именем базового цвета без учета регистра
func (p *Palette) Canonical(token string) (models.CanonicalColor, bool) {
	c, ok := p.byLower[strings.ToLower(strings.TrimSpace(token))]
	return c, ok
}

// Candidates базовые цвета в объявленном порядке без Other
func (p *Palette) Candidates() []models.CanonicalColor {
	return p.Colors[:len(p.Colors)-1]
}

// LocalSynonyms имя цвета и все ключевые слова, указывающие на него, в нижнем регистре
func (p *Palette) LocalSynonyms(c models.CanonicalColor) []string {
	words := []string{c.Lower()}
	for word, target := range p.keywords {
		if target == c {
			words = append(words, word)
		}
	}
	return words
}
