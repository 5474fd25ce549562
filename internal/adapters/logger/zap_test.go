package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

func newObserved(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &ZapLogger{logger: zap.New(core).Sugar(), level: zap.NewAtomicLevelAt(level)}, logs
}

func TestZapLogger_ContextFields(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, WebhookIDKey, "wh-1")
	ctx = context.WithValue(ctx, ProductIDKey, int64(42))

	log.InfoWithContext(ctx, "Цвет продукта определен", interfaces.LogField{Key: "color", Value: "Blue"})

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "wh-1", fields["webhook_id"])
	assert.Equal(t, int64(42), fields["product_id"])
	assert.Equal(t, "Blue", fields["color"])
}

func TestZapLogger_KeyValuePairs(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	// форма, в которой пишет retryablehttp
	log.Debug("performing request", "method", "GET", "url", "https://example.com")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "https://example.com", fields["url"])
}

func TestZapLogger_WithFields(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)

	child := log.WithFields(interfaces.LogField{Key: "component", Value: "lookup"})
	child.Warn("Строка не найдена")
	log.Debug("ниже уровня")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "lookup", entry.ContextMap()["component"])
}

func TestZapLogger_GetLevel(t *testing.T) {
	log, _ := newObserved(zapcore.WarnLevel)
	assert.Equal(t, interfaces.WarnLevel, log.GetLevel())

	assert.Equal(t, interfaces.FatalLevel, NewNopLogger().GetLevel())
}
