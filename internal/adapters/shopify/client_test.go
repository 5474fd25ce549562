package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

const apiVersion = "2024-07"

type recorded struct {
	method string
	path   string
	body   map[string]any
}

// fakeShop минимальный Admin API на chi
func fakeShop(t *testing.T, calls *[]recorded) *httptest.Server {
	t.Helper()

	record := func(r *http.Request) {
		assert.Equal(t, "token", r.Header.Get(accessTokenHeader))
		rec := recorded{method: r.Method, path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			assert.NoError(t, json.Unmarshal(data, &rec.body))
		}
		*calls = append(*calls, rec)
	}

	r := chi.NewRouter()
	r.Route("/admin/api/"+apiVersion, func(r chi.Router) {
		r.Post("/products/{id}/metafields.json", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"metafield":{"id":1}}`))
		})
		r.Put("/variants/{id}.json", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			_, _ = w.Write([]byte(`{"variant":{}}`))
		})
		r.Get("/products/{id}/variants.json", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			_, _ = w.Write([]byte(`{"variants":[{"id":10,"option1":"Blue","price":"9.99"},{"id":11,"option1":"Sky Blue Stripe"}]}`))
		})
		r.Post("/products/{id}/variants.json", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"variant":{"id":77,"option1":"Blue"}}`))
		})
		r.Delete("/products/{id}/variants/{variantID}.json", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			if chi.URLParam(r, "variantID") == "404" {
				http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		})
		r.Put("/products/{id}.json", func(w http.ResponseWriter, r *http.Request) {
			record(r)
			_, _ = w.Write([]byte(`{"product":{}}`))
		})
	})

	return httptest.NewServer(r)
}

func newTestClient(url string) *Client {
	client := httpclient.New(httpclient.Options{RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond}, logger.NewNopLogger())
	return NewClient(client, url+"/", apiVersion, "token")
}

func TestClient_UpsertMetafield(t *testing.T) {
	var calls []recorded
	srv := fakeShop(t, &calls)
	defer srv.Close()

	err := newTestClient(srv.URL).UpsertMetafield(context.Background(), 5, models.Metafield{
		Namespace: models.MetafieldNamespace,
		Key:       models.MetafieldKeyColor,
		Type:      models.MetafieldType,
		Value:     "Blue",
	})
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, "/admin/api/2024-07/products/5/metafields.json", calls[0].path)
	mf := calls[0].body["metafield"].(map[string]any)
	assert.Equal(t, "custom", mf["namespace"])
	assert.Equal(t, "product_color", mf["key"])
	assert.Equal(t, "single_line_text_field", mf["type"])
	assert.Equal(t, "Blue", mf["value"])
}

func TestClient_UpdateVariantOption(t *testing.T) {
	var calls []recorded
	srv := fakeShop(t, &calls)
	defer srv.Close()

	c := newTestClient(srv.URL)
	require.NoError(t, c.UpdateVariantOption(context.Background(), 10, 2, "Blue"))

	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].method)
	v := calls[0].body["variant"].(map[string]any)
	assert.Equal(t, "Blue", v["option2"])
	assert.EqualValues(t, 10, v["id"])

	assert.Error(t, c.UpdateVariantOption(context.Background(), 10, 4, "Blue"))
}

func TestClient_Variants(t *testing.T) {
	var calls []recorded
	srv := fakeShop(t, &calls)
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()

	variants, err := c.ListVariants(ctx, 5)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "Sky Blue Stripe", variants[1].OptionValue(1))

	price := "19.99"
	created, err := c.CreateVariant(ctx, 5, models.Variant{ID: 10, Price: price, Option1: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)
	sent := calls[1].body["variant"].(map[string]any)
	_, hasID := sent["id"]
	assert.False(t, hasID)

	require.NoError(t, c.DeleteVariant(ctx, 5, 11))
	assert.Equal(t, "/admin/api/2024-07/products/5/variants/11.json", calls[2].path)

	err = c.DeleteVariant(ctx, 5, 404)
	var statusErr *utils.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClient_UpdateProduct(t *testing.T) {
	var calls []recorded
	srv := fakeShop(t, &calls)
	defer srv.Close()

	err := newTestClient(srv.URL).UpdateProduct(context.Background(), models.ProductUpdate{
		ID:      5,
		Options: []models.Option{{Name: "Color", Position: 1, Values: []string{"Blue", "Red"}}},
	})
	require.NoError(t, err)

	p := calls[0].body["product"].(map[string]any)
	assert.EqualValues(t, 5, p["id"])
	assert.Len(t, p["options"], 1)
}
