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
	"github.com/athebyme/shopify-color-relay/internal/api"
	"github.com/athebyme/shopify-color-relay/internal/api/handlers"
	"github.com/athebyme/shopify-color-relay/internal/app"
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

	log.Info("Инициализация сервиса",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
		interfaces.LogField{Key: "webhook_mode", Value: cfg.Webhook.Mode},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации зависимостей", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer deps.Close()

	checkCtx, checkCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := app.CheckCache(checkCtx, deps.Cache); err != nil {
		checkCancel()
		log.Fatal("Ошибка подключения к кэшу", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	checkCancel()

	webhook := handlers.NewWebhookHandler(deps.Pipeline, deps.Messaging, deps.Cache, handlers.WebhookOptions{
		Mode:         cfg.Webhook.Mode,
		InboundTopic: cfg.Kafka.ConsumerTopic,
		DedupeTTL:    cfg.Webhook.DedupeTTL,
	}, log)

	routerOpts := api.RouterOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
		BodyLimitBytes: int64(cfg.Server.BodyLimit) << 20,
	}
	// без отдельного порта метрики отдаются основным сервером
	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		routerOpts.MetricsPath = cfg.Metrics.Endpoint
	}
	router := api.SetupRouter(webhook, log, routerOpts)
	log.Info("Маршрутизатор настроен")

	servers := []*http.Server{{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}}
	if cfg.Metrics.Enabled && cfg.Metrics.Port != 0 {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Endpoint, promhttp.Handler())
		servers = append(servers, &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, server := range servers {
		g.Go(func() error {
			log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("сервер %s: %w", server.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		for _, server := range servers {
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Error("Ошибка при graceful shutdown",
					interfaces.LogField{Key: "address", Value: server.Addr},
					interfaces.LogField{Key: "error", Value: err.Error()},
				)
			}
		}
		log.Info("HTTP сервер остановлен")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Сервер завершился с ошибкой", interfaces.LogField{Key: "error", Value: err.Error()})
		deps.Close()
		os.Exit(1)
	}

	log.Info("Сервер корректно завершил работу")
}
