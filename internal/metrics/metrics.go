package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// метрики для Prometheus
var (
	HTTPDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_durations_seconds",
		Help:    "Длительность HTTP запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Общее количество HTTP запросов",
	}, []string{"path", "method", "status"})

	ActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_active_requests",
		Help: "Количество активных HTTP запросов",
	})

	ExternalCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "external_calls_total",
		Help: "Вызовы внешних сервисов",
	}, []string{"dependency", "operation", "status"})

	ExternalCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "external_call_duration_seconds",
		Help:    "Длительность вызовов внешних сервисов",
		Buckets: prometheus.DefBuckets,
	}, []string{"dependency", "operation"})

	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifications_total",
		Help: "Результаты классификации цвета",
	}, []string{"source", "color"})

	DescriptorLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "descriptor_lookups_total",
		Help: "Поиск слов-дескрипторов по ключу строки",
	}, []string{"result"})

	MetafieldWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metafield_writes_total",
		Help: "Запись метаполей в Shopify",
	}, []string{"key", "status"})

	VariantReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "variant_reconciliations_total",
		Help: "Изменения вариантов после нормализации цвета",
	}, []string{"strategy", "action"})

	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_messages_processed_total",
		Help: "Общее количество обработанных сообщений",
	}, []string{"topic", "status"})

	MessageProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_message_processing_duration_seconds",
		Help:    "Длительность обработки сообщений",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "worker_active_goroutines",
		Help: "Количество активных горутин-обработчиков",
	})
)
