package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/athebyme/shopify-color-relay/internal/adapters/messaging"
	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"github.com/athebyme/shopify-color-relay/internal/metrics"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// PipelineOptions настройки конвейера, задаются один раз при запуске
type PipelineOptions struct {
	RequireColorOption bool
	TitleFallback      bool
	EventsTopic        string
}

// ColorPipeline обрабатывает продукт: источник цвета, нормализация,
// дескрипторы, запись метаполей и согласование вариантов
type ColorPipeline struct {
	normalizer  *Normalizer
	descriptors *DescriptorService
	rowKeys     RowKeySource
	writer      *MetafieldWriter
	reconciler  VariantReconciler
	messaging   interfaces.MessagingPort
	opts        PipelineOptions
	logger      interfaces.LoggerPort
}

// NewColorPipeline создает конвейер; messaging может быть nil
func NewColorPipeline(
	normalizer *Normalizer,
	descriptors *DescriptorService,
	rowKeys RowKeySource,
	writer *MetafieldWriter,
	reconciler VariantReconciler,
	messaging interfaces.MessagingPort,
	opts PipelineOptions,
	logger interfaces.LoggerPort,
) *ColorPipeline {
	if rowKeys == nil {
		rowKeys = NewRandomRowKeys()
	}
	if reconciler == nil {
		reconciler = noopReconciler{}
	}
	return &ColorPipeline{
		normalizer:  normalizer,
		descriptors: descriptors,
		rowKeys:     rowKeys,
		writer:      writer,
		reconciler:  reconciler,
		messaging:   messaging,
		opts:        opts,
		logger:      logger,
	}
}

// Classify определяет источник и базовый цвет без изменений в магазине
func (p *ColorPipeline) Classify(ctx context.Context, product *pkgmodels.Product) (models.Classification, error) {
	src := ResolveColorSource(product, p.opts.TitleFallback)
	if p.opts.RequireColorOption && src.Kind != models.SourceOption {
		return models.Classification{ColorSource: src, Color: models.Other}, utils.ErrNoColorOption
	}

	color := p.normalizer.Normalize(ctx, src)
	metrics.Classifications.WithLabelValues(string(src.Kind), color.String()).Inc()

	return models.Classification{ColorSource: src, Color: color}, nil
}

// Process выполняет конвейер целиком. Вызовы к внешним сервисам идут последовательно.
// Возвращает ErrNoColorOption, если опция цвета обязательна и отсутствует,
// и ErrWriteFailed, если не записано ни одно метаполе
func (p *ColorPipeline) Process(ctx context.Context, product *pkgmodels.Product) (*models.PipelineResult, error) {
	classification, err := p.Classify(ctx, product)
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithContext(ctx, "Цвет продукта определен",
		interfaces.LogField{Key: "product_id", Value: product.ID},
		interfaces.LogField{Key: "source", Value: string(classification.Kind)},
		interfaces.LogField{Key: "raw", Value: classification.Token},
		interfaces.LogField{Key: "color", Value: classification.Color.String()},
	)

	result := &models.PipelineResult{
		ProductID:      product.ID,
		Classification: classification,
		RowKey1:        p.rowKeys.Next(),
		RowKey2:        p.rowKeys.Next(),
	}

	described := p.descriptors.Describe(ctx, classification.Color, result.RowKey1, result.RowKey2)
	result.Words = described.Words

	fields := BuildMetafieldSet(classification.Color, result.RowKey1, result.RowKey2, result.Words)
	result.Writes = p.writer.Write(ctx, product.ID, fields)

	reconcile, err := p.reconciler.Reconcile(ctx, product, classification.ColorSource, classification.Color)
	if err != nil {
		p.logger.ErrorWithContext(ctx, "Ошибка согласования вариантов",
			interfaces.LogField{Key: "product_id", Value: product.ID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}
	result.Reconcile = reconcile

	p.publish(ctx, result)

	switch result.Writes.Status() {
	case models.WriteFailure:
		return result, fmt.Errorf("product %d: %w", product.ID, utils.ErrWriteFailed)
	case models.WritePartial:
		p.logger.WarnWithContext(ctx, "Метаполя записаны частично",
			interfaces.LogField{Key: "product_id", Value: product.ID},
			interfaces.LogField{Key: "failed", Value: result.Writes.Failed},
			interfaces.LogField{Key: "attempted", Value: result.Writes.Attempted},
		)
	}

	return result, nil
}

// publish отправляет событие классификации; ошибка публикации не влияет на ответ
func (p *ColorPipeline) publish(ctx context.Context, result *models.PipelineResult) {
	if p.messaging == nil || p.opts.EventsTopic == "" {
		return
	}

	event := messaging.NewColorClassifiedEvent(result)
	data, err := event.Marshal()
	if err != nil {
		p.logger.ErrorWithContext(ctx, "Ошибка сериализации события", interfaces.LogField{Key: "error", Value: err.Error()})
		return
	}

	headers := map[string]string{messaging.HeaderEventType: messaging.ProductColorClassifiedEvent}
	key := strconv.FormatInt(result.ProductID, 10)
	if err := p.messaging.PublishWithKey(ctx, p.opts.EventsTopic, key, data, headers); err != nil {
		p.logger.WarnWithContext(ctx, "Не удалось опубликовать событие классификации",
			interfaces.LogField{Key: "topic", Value: p.opts.EventsTopic},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}
}
