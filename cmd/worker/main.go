package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/athebyme/shopify-color-relay/config"
	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/api/handlers"
	"github.com/athebyme/shopify-color-relay/internal/app"
	"github.com/athebyme/shopify-color-relay/internal/metrics"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(logger.Options{
		Level:        cfg.Log.Level,
		IsProduction: cfg.ENV == "production",
		File:         cfg.Log.File,
		MaxSizeMB:    cfg.Log.MaxSizeMB,
		MaxBackups:   cfg.Log.MaxBackups,
		MaxAgeDays:   cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Инициализация воркера",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName + "-worker"},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	if !cfg.Kafka.Enabled {
		log.Fatal("Воркеру требуется kafka.enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации зависимостей", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer deps.Close()

	consumer := handlers.NewWebhookConsumer(deps.Pipeline, log)
	handler := func(ctx context.Context, msg *interfaces.Message) error {
		start := time.Now()
		metrics.ActiveWorkers.Inc()
		defer metrics.ActiveWorkers.Dec()
		defer func() {
			metrics.MessageProcessingDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		}()

		log.InfoWithContext(ctx, "Получен вебхук из очереди",
			interfaces.LogField{Key: "message_id", Value: msg.ID},
			interfaces.LogField{Key: "topic", Value: msg.Topic},
			interfaces.LogField{Key: "key", Value: msg.Key},
		)
		return consumer.Handle(ctx, msg)
	}

	unsubscribe, err := deps.Messaging.Subscribe(ctx, cfg.Kafka.ConsumerTopic, handler)
	if err != nil {
		log.Fatal("Ошибка подписки на топик",
			interfaces.LogField{Key: "topic", Value: cfg.Kafka.ConsumerTopic},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}

	g, gctx := errgroup.WithContext(ctx)

	// HTTP сервер для метрик и проверки живости
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Endpoint, promhttp.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Info("Запуск HTTP сервера для метрик", interfaces.LogField{Key: "addr", Value: server.Addr})
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("сервер метрик: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")
		return unsubscribe()
	})

	log.Info("Воркер запущен и готов к обработке сообщений",
		interfaces.LogField{Key: "topic", Value: cfg.Kafka.ConsumerTopic},
	)

	if err := g.Wait(); err != nil {
		log.Error("Воркер завершился с ошибкой", interfaces.LogField{Key: "error", Value: err.Error()})
		deps.Close()
		os.Exit(1)
	}
	log.Info("Воркер корректно завершил работу")
}
