package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/adapters/messaging"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// WebhookConsumer обрабатывает вебхуки, поставленные в очередь API
type WebhookConsumer struct {
	pipeline ColorProcessor
	validate *validator.Validate
	logger   interfaces.LoggerPort
}

// NewWebhookConsumer создает обработчик сообщений для воркера
func NewWebhookConsumer(pipeline ColorProcessor, logger interfaces.LoggerPort) *WebhookConsumer {
	return &WebhookConsumer{
		pipeline: pipeline,
		validate: validator.New(),
		logger:   logger,
	}
}

// Handle реализует interfaces.MessageHandler
func (c *WebhookConsumer) Handle(ctx context.Context, msg *interfaces.Message) error {
	if eventType := msg.Headers[messaging.HeaderEventType]; eventType != "" && eventType != messaging.ProductCreateReceivedEvent {
		c.logger.DebugWithContext(ctx, "Сообщение пропущено",
			interfaces.LogField{Key: "event_type", Value: eventType},
		)
		return nil
	}
	if id := msg.Headers[messaging.HeaderWebhookID]; id != "" {
		ctx = context.WithValue(ctx, logger.WebhookIDKey, id)
	}

	product, err := DecodeProduct(msg.Value, c.validate)
	if err != nil {
		// повтор не поможет
		c.logger.ErrorWithContext(ctx, "Некорректное сообщение вебхука",
			interfaces.LogField{Key: "message_id", Value: msg.ID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return nil
	}
	ctx = context.WithValue(ctx, logger.ProductIDKey, product.ID)

	result, err := c.pipeline.Process(ctx, product)
	if errors.Is(err, utils.ErrNoColorOption) {
		c.logger.InfoWithContext(ctx, "У продукта нет опции цвета, обработка пропущена")
		return nil
	}
	if err != nil {
		return err
	}

	c.logger.InfoWithContext(ctx, "Вебхук обработан",
		interfaces.LogField{Key: "color", Value: result.Classification.Color.String()},
		interfaces.LogField{Key: "status", Value: string(result.Writes.Status())},
	)
	return nil
}
