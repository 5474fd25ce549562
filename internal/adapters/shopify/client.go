package shopify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

const accessTokenHeader = "X-Shopify-Access-Token"

// Client клиент Shopify Admin REST API
type Client struct {
	http       *retryablehttp.Client
	baseURL    string
	apiVersion string
	token      string
}

var _ interfaces.CommercePort = (*Client)(nil)

// NewClient создает клиент; baseURL вида https://{shop}.myshopify.com
func NewClient(client *retryablehttp.Client, baseURL, apiVersion, token string) *Client {
	return &Client{
		http:       client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		token:      token,
	}
}

func (c *Client) endpoint(format string, args ...any) string {
	return fmt.Sprintf("%s/admin/api/%s/", c.baseURL, c.apiVersion) + fmt.Sprintf(format, args...)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	return httpclient.DoJSON(ctx, c.http, httpclient.Request{
		Method:  method,
		URL:     url,
		Headers: map[string]string{accessTokenHeader: c.token},
		Body:    body,
	}, out)
}

type metafieldEnvelope struct {
	Metafield models.Metafield `json:"metafield"`
}

type variantEnvelope struct {
	Variant models.Variant `json:"variant"`
}

type variantsEnvelope struct {
	Variants []models.Variant `json:"variants"`
}

type productEnvelope struct {
	Product models.ProductUpdate `json:"product"`
}

// UpsertMetafield POST /products/{id}/metafields.json; Shopify обновляет поле
// с тем же namespace и key
func (c *Client) UpsertMetafield(ctx context.Context, productID int64, field models.Metafield) error {
	url := c.endpoint("products/%d/metafields.json", productID)
	if err := c.do(ctx, http.MethodPost, url, metafieldEnvelope{Metafield: field}, nil); err != nil {
		return fmt.Errorf("metafield %s.%s: %w", field.Namespace, field.Key, err)
	}
	return nil
}

// UpdateVariantOption PUT /variants/{id}.json с одним слотом optionN
func (c *Client) UpdateVariantOption(ctx context.Context, variantID int64, position int, value string) error {
	if position < 1 || position > 3 {
		return fmt.Errorf("variant %d: invalid option position %d", variantID, position)
	}
	variant := map[string]any{"id": variantID}
	variant[fmt.Sprintf("option%d", position)] = value
	body := map[string]any{"variant": variant}
	if err := c.do(ctx, http.MethodPut, c.endpoint("variants/%d.json", variantID), body, nil); err != nil {
		return fmt.Errorf("variant %d: %w", variantID, err)
	}
	return nil
}

// ListVariants GET /products/{id}/variants.json
func (c *Client) ListVariants(ctx context.Context, productID int64) ([]models.Variant, error) {
	var out variantsEnvelope
	url := c.endpoint("products/%d/variants.json?limit=250", productID)
	if err := c.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, fmt.Errorf("variants of product %d: %w", productID, err)
	}
	return out.Variants, nil
}

// CreateVariant POST /products/{id}/variants.json
func (c *Client) CreateVariant(ctx context.Context, productID int64, variant models.Variant) (*models.Variant, error) {
	variant.ID = 0
	variant.ProductID = 0

	var out variantEnvelope
	url := c.endpoint("products/%d/variants.json", productID)
	if err := c.do(ctx, http.MethodPost, url, variantEnvelope{Variant: variant}, &out); err != nil {
		return nil, fmt.Errorf("create variant of product %d: %w", productID, err)
	}
	return &out.Variant, nil
}

// DeleteVariant DELETE /products/{id}/variants/{variant_id}.json
func (c *Client) DeleteVariant(ctx context.Context, productID, variantID int64) error {
	url := c.endpoint("products/%d/variants/%d.json", productID, variantID)
	if err := c.do(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return fmt.Errorf("delete variant %d: %w", variantID, err)
	}
	return nil
}

// UpdateProduct PUT /products/{id}.json
func (c *Client) UpdateProduct(ctx context.Context, update models.ProductUpdate) error {
	url := c.endpoint("products/%d.json", update.ID)
	if err := c.do(ctx, http.MethodPut, url, productEnvelope{Product: update}, nil); err != nil {
		return fmt.Errorf("update product %d: %w", update.ID, err)
	}
	return nil
}
