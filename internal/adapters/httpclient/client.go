package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// DefaultMaxResponseBytes ограничение на размер читаемого ответа по умолчанию
const DefaultMaxResponseBytes = 8 << 20

// Options настройки повторов исходящих запросов
type Options struct {
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
}

// New создает HTTP-клиент с повторами для временных ошибок (сеть, 429, 5xx).
// Таймаут одного вызова задается контекстом
func New(opts Options, logger interfaces.LoggerPort) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.MaxRetries
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	// после исчерпания повторов возвращаем последний ответ, статус разбирает вызывающий
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = logger
	return client
}

// WithTransport копия клиента с теми же повторами и таймаутом,
// чей транспорт обернут wrap (например, авторизацией)
func WithTransport(client *retryablehttp.Client, wrap func(base http.RoundTripper) http.RoundTripper) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = client.RetryMax
	c.RetryWaitMin = client.RetryWaitMin
	c.RetryWaitMax = client.RetryWaitMax
	c.CheckRetry = client.CheckRetry
	c.Backoff = client.Backoff
	c.ErrorHandler = client.ErrorHandler
	c.Logger = client.Logger

	base := http.DefaultTransport
	var timeout time.Duration
	if client.HTTPClient != nil {
		timeout = client.HTTPClient.Timeout
		if client.HTTPClient.Transport != nil {
			base = client.HTTPClient.Transport
		}
	}
	c.HTTPClient = &http.Client{Transport: wrap(base), Timeout: timeout}
	return c
}

// Request описание одного исходящего запроса
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body сериализуется в JSON
	Body any
	// MaxBytes ограничение размера ответа, 0 - DefaultMaxResponseBytes
	MaxBytes int64
}

// Fetch выполняет запрос и возвращает тело успешного ответа.
// Неуспешный статус возвращается как *utils.StatusError,
// ответ больше MaxBytes как utils.ErrResponseTooLarge
func Fetch(ctx context.Context, client *retryablehttp.Client, r Request) ([]byte, error) {
	var body any
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	limit := r.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, utils.NewStatusError(resp.StatusCode, raw)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%s: %w", r.URL, utils.ErrResponseTooLarge)
	}
	return raw, nil
}

// DoJSON выполняет запрос и декодирует JSON-ответ в out (если out != nil)
func DoJSON(ctx context.Context, client *retryablehttp.Client, r Request, out any) error {
	if r.Headers == nil {
		r.Headers = make(map[string]string, 1)
	}
	if _, ok := r.Headers["Accept"]; !ok {
		r.Headers["Accept"] = "application/json"
	}

	raw, err := Fetch(ctx, client, r)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
