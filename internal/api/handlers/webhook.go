package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/adapters/messaging"
	"github.com/athebyme/shopify-color-relay/internal/api/middleware"
	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

// Тексты ответов вебхука
const (
	MsgRunning          = "Shopify color-detection webhook is running"
	MsgUpdated          = "Metafields updated based on variant or image color."
	MsgPartiallyUpdated = "Metafields partially updated based on variant or image color."
	MsgUpdateFailed     = "Failed to update metafields."
	MsgInvalidPayload   = "Invalid product payload."
	MsgNoColorOption    = "Color option not found."
	MsgAccepted         = "Accepted"
	MsgDuplicate        = "Webhook already processed."
	MsgEnqueueFailed    = "Failed to enqueue webhook."
)

const (
	ModeSync  = "sync"
	ModeAsync = "async"

	dedupeKeyPrefix = "webhook:"
)

// ColorProcessor конвейер обработки продукта
type ColorProcessor interface {
	Process(ctx context.Context, product *pkgmodels.Product) (*models.PipelineResult, error)
	Classify(ctx context.Context, product *pkgmodels.Product) (models.Classification, error)
}

// WebhookOptions режим приема вебхуков
type WebhookOptions struct {
	Mode string
	// InboundTopic топик Kafka для асинхронного режима
	InboundTopic string
	// DedupeTTL срок хранения ID доставки, 0 отключает проверку повторов
	DedupeTTL time.Duration
}

// WebhookHandler принимает вебхук products/create
type WebhookHandler struct {
	pipeline  ColorProcessor
	messaging interfaces.MessagingPort
	cache     interfaces.CachePort
	opts      WebhookOptions
	validate  *validator.Validate
	logger    interfaces.LoggerPort
}

// NewWebhookHandler создает обработчик; messaging и cache могут быть nil
func NewWebhookHandler(pipeline ColorProcessor, messaging interfaces.MessagingPort, cache interfaces.CachePort, opts WebhookOptions, logger interfaces.LoggerPort) *WebhookHandler {
	if opts.Mode == "" {
		opts.Mode = ModeSync
	}
	return &WebhookHandler{
		pipeline:  pipeline,
		messaging: messaging,
		cache:     cache,
		opts:      opts,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Root отвечает текстом о работе сервиса
func (h *WebhookHandler) Root(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, MsgRunning)
}

// ProductCreate обрабатывает вебхук создания продукта
func (h *WebhookHandler) ProductCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, product, err := h.decode(r.Body)
	if err != nil {
		h.logger.WarnWithContext(ctx, "Некорректное тело вебхука", interfaces.LogField{Key: "error", Value: err.Error()})
		plainText(w, r, http.StatusBadRequest, MsgInvalidPayload)
		return
	}
	ctx = context.WithValue(ctx, logger.ProductIDKey, product.ID)
	r = r.WithContext(ctx)

	webhookID := middleware.WebhookID(ctx)
	if !h.acquire(ctx, webhookID) {
		h.logger.InfoWithContext(ctx, "Повторная доставка вебхука пропущена",
			interfaces.LogField{Key: "product_id", Value: product.ID})
		plainText(w, r, http.StatusOK, MsgDuplicate)
		return
	}

	if h.opts.Mode == ModeAsync {
		h.enqueue(w, r, raw, product, webhookID)
		return
	}

	result, err := h.pipeline.Process(ctx, product)
	switch {
	case errors.Is(err, utils.ErrNoColorOption):
		h.release(ctx, webhookID)
		plainText(w, r, http.StatusBadRequest, MsgNoColorOption)
	case err != nil:
		h.release(ctx, webhookID)
		h.logger.ErrorWithContext(ctx, "Ошибка обработки продукта",
			interfaces.LogField{Key: "product_id", Value: product.ID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		plainText(w, r, http.StatusInternalServerError, MsgUpdateFailed)
	case result.Writes.Status() == models.WritePartial:
		plainText(w, r, http.StatusOK, MsgPartiallyUpdated)
	default:
		plainText(w, r, http.StatusOK, MsgUpdated)
	}
}

// enqueue публикует исходное тело вебхука для воркера
func (h *WebhookHandler) enqueue(w http.ResponseWriter, r *http.Request, raw []byte, product *pkgmodels.Product, webhookID string) {
	ctx := r.Context()
	if h.messaging == nil {
		h.release(ctx, webhookID)
		plainText(w, r, http.StatusInternalServerError, MsgEnqueueFailed)
		return
	}

	headers := map[string]string{
		messaging.HeaderEventType:  messaging.ProductCreateReceivedEvent,
		messaging.HeaderWebhookID:  webhookID,
		messaging.HeaderShopDomain: r.Header.Get(middleware.HeaderShopDomain),
	}
	key := strconv.FormatInt(product.ID, 10)

	if err := h.messaging.PublishWithKey(ctx, h.opts.InboundTopic, key, raw, headers); err != nil {
		h.release(ctx, webhookID)
		h.logger.ErrorWithContext(ctx, "Ошибка публикации вебхука",
			interfaces.LogField{Key: "product_id", Value: product.ID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		plainText(w, r, http.StatusInternalServerError, MsgEnqueueFailed)
		return
	}

	plainText(w, r, http.StatusOK, MsgAccepted)
}

// decode читает тело и проверяет продукт
func (h *WebhookHandler) decode(body io.Reader) ([]byte, *pkgmodels.Product, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read body: %w", err)
	}
	product, err := DecodeProduct(raw, h.validate)
	if err != nil {
		return nil, nil, err
	}
	return raw, product, nil
}

// DecodeProduct разбирает и проверяет JSON ресурса продукта
func DecodeProduct(raw []byte, validate *validator.Validate) (*pkgmodels.Product, error) {
	var product pkgmodels.Product
	if err := render.DecodeJSON(bytes.NewReader(raw), &product); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidPayload, err)
	}
	if err := validate.Struct(&product); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidPayload, err)
	}
	return &product, nil
}

// acquire занимает ID доставки; false означает повторную доставку
func (h *WebhookHandler) acquire(ctx context.Context, webhookID string) bool {
	if h.cache == nil || h.opts.DedupeTTL <= 0 || webhookID == "" {
		return true
	}
	ok, err := h.cache.Lock(ctx, dedupeKeyPrefix+webhookID, h.opts.DedupeTTL)
	if err != nil {
		h.logger.WarnWithContext(ctx, "Ошибка проверки повторной доставки", interfaces.LogField{Key: "error", Value: err.Error()})
		return true
	}
	return ok
}

// release освобождает ID доставки, чтобы повтор Shopify после ошибки был обработан
func (h *WebhookHandler) release(ctx context.Context, webhookID string) {
	if h.cache == nil || h.opts.DedupeTTL <= 0 || webhookID == "" {
		return
	}
	if err := h.cache.Delete(ctx, dedupeKeyPrefix+webhookID); err != nil {
		h.logger.WarnWithContext(ctx, "Ошибка освобождения ID доставки", interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

func plainText(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.PlainText(w, r, msg)
}
