package app

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/shopify-color-relay/config"
	"github.com/athebyme/shopify-color-relay/internal/adapters/cache"
	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/internal/adapters/imaging"
	"github.com/athebyme/shopify-color-relay/internal/adapters/lookup"
	"github.com/athebyme/shopify-color-relay/internal/adapters/messaging"
	"github.com/athebyme/shopify-color-relay/internal/adapters/shopify"
	"github.com/athebyme/shopify-color-relay/internal/domain/palette"
	"github.com/athebyme/shopify-color-relay/internal/domain/services"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// App зависимости процесса, общие для API и воркера
type App struct {
	Pipeline  *services.ColorPipeline
	Cache     interfaces.CachePort // nil, если кэш отключен
	Messaging interfaces.MessagingPort
	closers   []func() error
	logger    interfaces.LoggerPort
}

// New собирает конвейер по конфигурации
func New(ctx context.Context, cfg *config.Config, log interfaces.LoggerPort) (*App, error) {
	a := &App{logger: log}

	cacheBackend := cfg.Lookup.CacheBackend
	if cacheBackend == cache.BackendNone && cfg.Webhook.DedupeTTL > 0 {
		// для проверки повторов достаточно кэша в памяти
		cacheBackend = cache.BackendMemory
	}
	cacheClient, err := cache.New(ctx, cacheBackend, cache.RedisOptions{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации кэша: %w", err)
	}
	if cacheClient != nil {
		a.Cache = cacheClient
		a.closers = append(a.closers, cacheClient.Close)
		log.Info("Кэш инициализирован", interfaces.LogField{Key: "backend", Value: cacheBackend})
	}

	client := httpclient.New(httpclient.Options{
		MaxRetries:   cfg.Resilience.MaxRetries,
		RetryWaitMin: cfg.Resilience.RetryWaitMin,
		RetryWaitMax: cfg.Resilience.RetryWaitMax,
		Timeout:      cfg.Resilience.CallTimeout,
	}, log)

	var lookupCache interfaces.CachePort
	if cfg.Lookup.CacheBackend != cache.BackendNone {
		lookupCache = a.Cache
	}
	table, closeTable, err := lookup.New(ctx, lookup.Options{
		Backend:       cfg.Lookup.Backend,
		BaseURL:       cfg.Lookup.BaseURL,
		BaseID:        cfg.Lookup.BaseID,
		APIKey:        cfg.Lookup.APIKey,
		SpreadsheetID: cfg.Lookup.SpreadsheetID,
		PostgresDSN:   cfg.Lookup.PostgresDSN,
		KeyField:      cfg.Lookup.KeyField,
		ValueField:    cfg.Lookup.ValueField,
		CacheTTL:      cfg.Lookup.CacheTTL,
	}, client, lookupCache, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ошибка инициализации источника таблиц: %w", err)
	}
	a.closers = append(a.closers, closeTable)
	log.Info("Источник таблиц инициализирован", interfaces.LogField{Key: "backend", Value: cfg.Lookup.Backend})

	p, err := palette.Load(cfg.Pipeline.PaletteFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ошибка загрузки палитры: %w", err)
	}

	if cfg.Kafka.Enabled {
		kafkaClient, err := messaging.NewKafkaMessaging(cfg.Kafka.Brokers, cfg.Kafka.GroupID, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("ошибка инициализации Kafka: %w", err)
		}
		a.Messaging = kafkaClient
		a.closers = append(a.closers, kafkaClient.Close)
		log.Info("Система обмена сообщениями инициализирована")
	}

	policy := services.CallPolicy{Timeout: cfg.Resilience.CallTimeout}
	commerce := shopify.NewClient(client, cfg.ShopifyBaseURL(), cfg.Shopify.APIVersion, cfg.Shopify.AccessToken)
	images := imaging.NewDominantColor(client, cfg.Pipeline.MaxImageBytes)

	descriptors := services.NewDescriptorService(table, cfg.Lookup.DescriptorTable, cfg.Lookup.VocabularyTable, policy, log)
	normalizer := services.NewNormalizer(p, descriptors, images, policy, log)
	writer := services.NewMetafieldWriter(commerce, policy, log)
	reconciler, err := services.NewVariantReconciler(cfg.Pipeline.ReconcileStrategy, commerce, policy, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Pipeline = services.NewColorPipeline(normalizer, descriptors, nil, writer, reconciler, a.Messaging, services.PipelineOptions{
		RequireColorOption: cfg.Pipeline.RequireColorOption,
		TitleFallback:      cfg.Pipeline.TitleFallback,
		EventsTopic:        cfg.Kafka.ProducerTopic,
	}, log)
	log.Info("Конвейер классификации инициализирован",
		interfaces.LogField{Key: "reconcile_strategy", Value: cfg.Pipeline.ReconcileStrategy},
	)

	return a, nil
}

// Close освобождает ресурсы в обратном порядке
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Ошибка при закрытии зависимости", interfaces.LogField{Key: "error", Value: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	a.closers = nil
	return firstErr
}

// CheckCache проверяет соединение с кэшем записью и чтением тестового ключа
func CheckCache(ctx context.Context, c interfaces.CachePort) error {
	if c == nil {
		return nil
	}
	testKey := "test:connection"
	testValue := []byte("test-value")

	if err := c.Set(ctx, testKey, testValue, 10*time.Second); err != nil {
		return fmt.Errorf("ошибка записи в кэш: %w", err)
	}
	value, err := c.Get(ctx, testKey)
	if err != nil {
		return fmt.Errorf("ошибка чтения из кэша: %w", err)
	}
	if string(value) != string(testValue) {
		return fmt.Errorf("некорректное значение из кэша: получено %s, ожидалось %s", value, testValue)
	}
	return c.Delete(ctx, testKey)
}
