package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athebyme/shopify-color-relay/internal/api/handlers"
	"github.com/athebyme/shopify-color-relay/internal/api/middleware"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// RouterOptions настройки HTTP-слоя
type RouterOptions struct {
	RequestTimeout time.Duration
	BodyLimitBytes int64
	// MetricsPath пустое значение отключает /metrics на основном порту
	MetricsPath string
}

// SetupRouter настраивает маршрутизатор
func SetupRouter(webhook *handlers.WebhookHandler, logger interfaces.LoggerPort, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Webhook)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.Metrics)
	r.Use(middleware.BodyLimit(opts.BodyLimitBytes))

	r.Get("/", webhook.Root)

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, promhttp.Handler())
	}

	r.Post("/webhooks/product-create", webhook.ProductCreate)

	r.Route("/api/v1", func(r chi.Router) {
		// определение цвета без записи в магазин
		r.Post("/classify", webhook.Classify)
	})

	return r
}
