package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/shopify-color-relay/config"
	"github.com/athebyme/shopify-color-relay/internal/adapters/cache"
	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Shopify.Shop = "example.myshopify.com"
	cfg.Shopify.APIVersion = "2024-07"
	cfg.Shopify.AccessToken = "token"
	cfg.Lookup.Backend = "githubraw"
	cfg.Lookup.BaseURL = "http://127.0.0.1:1/tables"
	cfg.Lookup.CacheBackend = cache.BackendNone
	cfg.Pipeline.ReconcileStrategy = "in_place"
	cfg.Webhook.Mode = "sync"
	return cfg
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Pipeline)
	assert.Nil(t, a.Cache)
	assert.Nil(t, a.Messaging)
}

func TestNew_DedupeUsesMemoryCache(t *testing.T) {
	cfg := testConfig()
	cfg.Webhook.DedupeTTL = time.Hour

	a, err := New(context.Background(), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Cache)
	assert.NoError(t, CheckCache(context.Background(), a.Cache))
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{name: "unknown reconcile strategy", mutate: func(cfg *config.Config) { cfg.Pipeline.ReconcileStrategy = "merge" }},
		{name: "unknown lookup backend", mutate: func(cfg *config.Config) { cfg.Lookup.Backend = "excel" }},
		{name: "missing palette file", mutate: func(cfg *config.Config) { cfg.Pipeline.PaletteFile = "/nonexistent/palette.yaml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			_, err := New(context.Background(), cfg, logger.NewNopLogger())
			assert.Error(t, err)
		})
	}
}
