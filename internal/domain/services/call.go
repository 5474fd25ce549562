package services

import (
	"context"
	"time"

	"github.com/athebyme/shopify-color-relay/internal/metrics"
)

// Названия внешних зависимостей для метрик и логов
const (
	DependencyShopify = "shopify"
	DependencyLookup  = "lookup"
	DependencyImage   = "image"
)

// CallPolicy ограничения одного внешнего вызова
type CallPolicy struct {
	Timeout time.Duration
}

// Outcome единый результат внешнего вызова: значение либо причина отказа
type Outcome[T any] struct {
	Value    T
	Err      error
	Duration time.Duration
}

// OK вызов завершился без ошибки
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Call выполняет fn с таймаутом политики и учитывает вызов в метриках.
// Истечение таймаута возвращается как обычная ошибка вызова
func Call[T any](ctx context.Context, policy CallPolicy, dependency, operation string, fn func(ctx context.Context) (T, error)) Outcome[T] {
	if policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, policy.Timeout)
		defer cancel()
	}

	start := time.Now()
	value, err := fn(ctx)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ExternalCalls.WithLabelValues(dependency, operation, status).Inc()
	metrics.ExternalCallDuration.WithLabelValues(dependency, operation).Observe(duration.Seconds())

	return Outcome[T]{Value: value, Err: err, Duration: duration}
}

// CallErr вариант Call для операций без результата
func CallErr(ctx context.Context, policy CallPolicy, dependency, operation string, fn func(ctx context.Context) error) Outcome[struct{}] {
	return Call(ctx, policy, dependency, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}
