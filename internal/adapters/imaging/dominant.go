package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/hashicorp/go-retryablehttp"
	_ "golang.org/x/image/webp"

	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// DefaultMaxImageBytes ограничение размера загружаемого изображения
const DefaultMaxImageBytes = 10 << 20

// DominantColor загружает изображение и находит его преобладающий цвет (k-means)
type DominantColor struct {
	http     *retryablehttp.Client
	maxBytes int64
}

var _ interfaces.ImagePort = (*DominantColor)(nil)

func NewDominantColor(client *retryablehttp.Client, maxBytes int64) *DominantColor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &DominantColor{http: client, maxBytes: maxBytes}
}

// DominantRGB цвет самого крупного кластера пикселей
func (d *DominantColor) DominantRGB(ctx context.Context, url string) (uint8, uint8, uint8, error) {
	raw, err := httpclient.Fetch(ctx, d.http, httpclient.Request{
		Method:   http.MethodGet,
		URL:      url,
		MaxBytes: d.maxBytes,
	})
	if errors.Is(err, utils.ErrResponseTooLarge) {
		return 0, 0, 0, fmt.Errorf("%s: %w", url, utils.ErrImageTooLarge)
	}
	if err != nil {
		return 0, 0, 0, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	return Dominant(img)
}

// Dominant преобладающий цвет изображения. Фон не маскируется и кадр не обрезается:
// белый или черный товар должен классифицироваться по своему цвету
func Dominant(img image.Image) (uint8, uint8, uint8, error) {
	items, err := prominentcolor.KmeansWithAll(
		prominentcolor.DefaultK,
		img,
		prominentcolor.ArgumentNoCropping,
		prominentcolor.DefaultSize,
		[]prominentcolor.ColorBackgroundMask{},
	)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to extract colors: %w", err)
	}
	if len(items) == 0 {
		return 0, 0, 0, utils.ErrNoColors
	}

	c := items[0].Color
	return uint8(c.R), uint8(c.G), uint8(c.B), nil
}
