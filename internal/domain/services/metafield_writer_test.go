package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

func TestBuildMetafieldSet_Order(t *testing.T) {
	fields := BuildMetafieldSet(models.Blue, 3, 98, "Ocean Sky")
	require.Len(t, fields, 4)

	keys := []string{fields[0].Key, fields[1].Key, fields[2].Key, fields[3].Key}
	assert.Equal(t, []string{
		pkgmodels.MetafieldKeyColor,
		pkgmodels.MetafieldKeyRowKey1,
		pkgmodels.MetafieldKeyRowKey2,
		pkgmodels.MetafieldKeyNatureWords,
	}, keys)
	assert.Equal(t, []string{"Blue", "3", "98", "Ocean Sky"},
		[]string{fields[0].Value, fields[1].Value, fields[2].Value, fields[3].Value})

	for _, f := range fields {
		assert.Equal(t, pkgmodels.MetafieldNamespace, f.Namespace)
		assert.Equal(t, pkgmodels.MetafieldType, f.Type)
	}
}

func TestMetafieldWriter_ContinuesAfterFailure(t *testing.T) {
	commerce := newFakeCommerce()
	commerce.failKeys[pkgmodels.MetafieldKeyRowKey1] = true
	w := NewMetafieldWriter(commerce, CallPolicy{Timeout: time.Second}, logger.NewNopLogger())

	report := w.Write(context.Background(), 1, BuildMetafieldSet(models.Green, 1, 2, "Fern"))

	assert.Equal(t, 4, report.Attempted)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Errors, 1)
	assert.Equal(t, models.WritePartial, report.Status())

	_, ok := commerce.metafield(pkgmodels.MetafieldKeyRowKey1)
	assert.False(t, ok)
	words, ok := commerce.metafield(pkgmodels.MetafieldKeyNatureWords)
	assert.True(t, ok)
	assert.Equal(t, "Fern", words)
}

func TestMetafieldWriter_Status(t *testing.T) {
	commerce := newFakeCommerce()
	w := NewMetafieldWriter(commerce, CallPolicy{}, logger.NewNopLogger())

	report := w.Write(context.Background(), 1, BuildMetafieldSet(models.Green, 1, 2, "Fern"))
	assert.Equal(t, models.WriteSuccess, report.Status())

	for _, key := range []string{
		pkgmodels.MetafieldKeyColor,
		pkgmodels.MetafieldKeyRowKey1,
		pkgmodels.MetafieldKeyRowKey2,
		pkgmodels.MetafieldKeyNatureWords,
	} {
		commerce.failKeys[key] = true
	}
	report = w.Write(context.Background(), 1, BuildMetafieldSet(models.Green, 1, 2, "Fern"))
	assert.Equal(t, models.WriteFailure, report.Status())
}
