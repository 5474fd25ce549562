package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит все настройки сервиса
type Config struct {
	AppName string
	Version string
	ENV     string

	Server struct {
		Host            string
		Port            int `validate:"gte=0,lte=65535"`
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		RequestTimeout  time.Duration
		BodyLimit       int // максимальный размер запроса в МБ
	}

	Log struct {
		Level      string
		File       string // пустое значение - только stdout
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}

	Shopify struct {
		Shop        string `validate:"required"`
		APIVersion  string `validate:"required"`
		AccessToken string `validate:"required"`
		BaseURL     string // переопределение https://{shop}, используется в тестах
	}

	Lookup struct {
		Backend         string `validate:"oneof=airtable sheets githubraw postgres"`
		BaseID          string // airtable base id
		APIKey          string // airtable token или ключ Google API
		BaseURL         string // базовый URL сервиса таблиц
		SpreadsheetID   string
		PostgresDSN     string
		KeyField        string
		ValueField      string
		DescriptorTable string // шаблон имени таблицы, {color} заменяется цветом
		VocabularyTable string
		CacheBackend    string `validate:"oneof=none memory redis"`
		CacheTTL        time.Duration
	}

	Redis struct {
		Host     string
		Port     int
		Password string
		DB       int
	}

	Kafka struct {
		Enabled       bool     `mapstructure:"enabled"`
		Brokers       []string `mapstructure:"brokers"`
		GroupID       string   `mapstructure:"group_id"`
		ProducerTopic string   `mapstructure:"producer_topic"` // события классификации
		ConsumerTopic string   `mapstructure:"consumer_topic"` // входящие вебхуки для воркера
	}

	Metrics struct {
		Enabled  bool
		Endpoint string
		Port     int `mapstructure:"port"`
	}

	Resilience struct {
		CallTimeout  time.Duration // таймаут одного внешнего вызова
		MaxRetries   int           // максимальное число повторов
		RetryWaitMin time.Duration
		RetryWaitMax time.Duration
	}

	Pipeline struct {
		ReconcileStrategy  string `validate:"oneof=in_place recreate none"`
		RequireColorOption bool
		TitleFallback      bool
		PaletteFile        string
		MaxImageBytes      int64
	}

	Webhook struct {
		Mode      string `validate:"oneof=sync async"`
		DedupeTTL time.Duration
	}
}

// Load загружает конфигурацию из .env, файла и переменных окружения.
// configPath имя файла без расширения для поиска в стандартных каталогах либо путь к .yaml
func Load(configPath string) (*Config, error) {
	configFile := "config"
	if configPath != "" {
		configFile = configPath
	}

	// .env не обязателен
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if strings.HasSuffix(configFile, ".yaml") || strings.HasSuffix(configFile, ".yml") {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFile)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("../config")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// Продолжаем, если файл не найден, будем использовать только переменные окружения
	}

	setDefaults(v)
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка десериализации конфигурации: %w", err)
	}

	cfg.ENV = v.GetString("env")
	if cfg.ENV == "" {
		cfg.ENV = "development"
		if envVar := os.Getenv("APP_ENV"); envVar != "" {
			cfg.ENV = envVar
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет обязательные поля и допустимые значения
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}
	if cfg.Webhook.Mode == "async" && !cfg.Kafka.Enabled {
		return fmt.Errorf("некорректная конфигурация: webhook.mode=async требует kafka.enabled")
	}
	return nil
}

// ShopifyBaseURL возвращает адрес магазина
func (c *Config) ShopifyBaseURL() string {
	if c.Shopify.BaseURL != "" {
		return strings.TrimRight(c.Shopify.BaseURL, "/")
	}
	return "https://" + c.Shopify.Shop
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	// Основные настройки
	v.SetDefault("appName", "shopify-color-relay")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("env", "development")

	// Настройки сервера
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "60s")
	v.SetDefault("server.shutdownTimeout", "5s")
	v.SetDefault("server.requestTimeout", "50s")
	v.SetDefault("server.bodyLimit", 5) // 5 МБ

	// Логирование
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxSizeMB", 100)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 28)

	// Shopify
	v.SetDefault("shopify.apiVersion", "2024-07")

	// Сервис таблиц
	v.SetDefault("lookup.backend", "airtable")
	v.SetDefault("lookup.keyField", "Row")
	v.SetDefault("lookup.valueField", "Color")
	v.SetDefault("lookup.descriptorTable", "{color}")
	v.SetDefault("lookup.vocabularyTable", "{color}")
	v.SetDefault("lookup.cacheBackend", "none")
	v.SetDefault("lookup.cacheTTL", "0s")

	// Настройки Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Настройки Kafka
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_id", "shopify-color-relay")
	v.SetDefault("kafka.producer_topic", "product-color-classified")
	v.SetDefault("kafka.consumer_topic", "shopify-products-create")

	// Настройки метрик
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.endpoint", "/metrics")
	v.SetDefault("metrics.port", 9100)

	// Настройки отказоустойчивости
	v.SetDefault("resilience.callTimeout", "10s")
	v.SetDefault("resilience.maxRetries", 2)
	v.SetDefault("resilience.retryWaitMin", "200ms")
	v.SetDefault("resilience.retryWaitMax", "2s")

	// Конвейер
	v.SetDefault("pipeline.reconcileStrategy", "in_place")
	v.SetDefault("pipeline.requireColorOption", false)
	v.SetDefault("pipeline.titleFallback", false)
	v.SetDefault("pipeline.maxImageBytes", 10<<20)

	// Вебхук
	v.SetDefault("webhook.mode", "sync")
	v.SetDefault("webhook.dedupeTTL", "0s")
}

// bindEnvVariables привязывает переменные окружения к конфигурации
func bindEnvVariables(v *viper.Viper) {
	// Основные настройки
	v.BindEnv("appName", "APP_NAME")
	v.BindEnv("version", "APP_VERSION")
	v.BindEnv("env", "APP_ENV")

	// Настройки сервера
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")
	v.BindEnv("server.requestTimeout", "SERVER_REQUEST_TIMEOUT")
	v.BindEnv("server.bodyLimit", "SERVER_BODY_LIMIT")

	// Логирование
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.file", "LOG_FILE")

	// Shopify
	v.BindEnv("shopify.shop", "SHOPIFY_SHOP")
	v.BindEnv("shopify.apiVersion", "API_VERSION")
	v.BindEnv("shopify.accessToken", "SHOPIFY_ADMIN_TOKEN")
	v.BindEnv("shopify.baseURL", "SHOPIFY_BASE_URL")

	// Сервис таблиц
	v.BindEnv("lookup.backend", "LOOKUP_BACKEND")
	v.BindEnv("lookup.baseID", "AIRTABLE_BASE_ID")
	v.BindEnv("lookup.apiKey", "AIRTABLE_API_KEY")
	v.BindEnv("lookup.baseURL", "LOOKUP_BASE_URL")
	v.BindEnv("lookup.spreadsheetID", "SHEETS_SPREADSHEET_ID")
	v.BindEnv("lookup.postgresDSN", "LOOKUP_POSTGRES_DSN")
	v.BindEnv("lookup.keyField", "LOOKUP_KEY_FIELD")
	v.BindEnv("lookup.valueField", "LOOKUP_VALUE_FIELD")
	v.BindEnv("lookup.descriptorTable", "LOOKUP_DESCRIPTOR_TABLE")
	v.BindEnv("lookup.vocabularyTable", "LOOKUP_VOCABULARY_TABLE")
	v.BindEnv("lookup.cacheBackend", "LOOKUP_CACHE_BACKEND")
	v.BindEnv("lookup.cacheTTL", "LOOKUP_CACHE_TTL")

	// Настройки Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Настройки Kafka
	v.BindEnv("kafka.enabled", "KAFKA_ENABLED")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("kafka.producer_topic", "KAFKA_PRODUCER_TOPIC")
	v.BindEnv("kafka.consumer_topic", "KAFKA_CONSUMER_TOPIC")

	// Настройки метрик
	v.BindEnv("metrics.enabled", "METRICS_ENABLED")
	v.BindEnv("metrics.endpoint", "METRICS_ENDPOINT")
	v.BindEnv("metrics.port", "METRICS_PORT")

	// Настройки отказоустойчивости
	v.BindEnv("resilience.callTimeout", "RESILIENCE_CALL_TIMEOUT")
	v.BindEnv("resilience.maxRetries", "RESILIENCE_MAX_RETRIES")
	v.BindEnv("resilience.retryWaitMin", "RESILIENCE_RETRY_WAIT_MIN")
	v.BindEnv("resilience.retryWaitMax", "RESILIENCE_RETRY_WAIT_MAX")

	// Конвейер
	v.BindEnv("pipeline.reconcileStrategy", "RECONCILE_STRATEGY")
	v.BindEnv("pipeline.requireColorOption", "REQUIRE_COLOR_OPTION")
	v.BindEnv("pipeline.titleFallback", "TITLE_FALLBACK")
	v.BindEnv("pipeline.paletteFile", "PALETTE_FILE")
	v.BindEnv("pipeline.maxImageBytes", "MAX_IMAGE_BYTES")

	// Вебхук
	v.BindEnv("webhook.mode", "WEBHOOK_MODE")
	v.BindEnv("webhook.dedupeTTL", "WEBHOOK_DEDUPE_TTL")
}
