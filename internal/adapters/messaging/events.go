package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
)

type KafkaEvent = string

const (
	ProductCreateReceivedEvent  KafkaEvent = "product_create_received"
	ProductColorClassifiedEvent KafkaEvent = "product_color_classified"
)

// Заголовки сообщений
const (
	HeaderEventType  = "event_type"
	HeaderWebhookID  = "webhook_id"
	HeaderShopDomain = "shop_domain"
)

// ColorClassifiedEvent публикуется после обработки продукта
type ColorClassifiedEvent struct {
	ID          string                  `json:"id"`
	Type        KafkaEvent              `json:"type"`
	ProductID   int64                   `json:"product_id"`
	Source      models.SourceKind       `json:"source"`
	Raw         string                  `json:"raw,omitempty"`
	Color       string                  `json:"color"`
	RowKey1     int                     `json:"random_number_1"`
	RowKey2     int                     `json:"random_number_2"`
	NatureWords string                  `json:"nature_words"`
	WriteStatus models.WriteStatus      `json:"write_status"`
	Reconcile   *models.ReconcileReport `json:"reconcile,omitempty"`
	OccurredAt  time.Time               `json:"occurred_at"`
}

// NewColorClassifiedEvent собирает событие из результата конвейера
func NewColorClassifiedEvent(res *models.PipelineResult) ColorClassifiedEvent {
	return ColorClassifiedEvent{
		ID:          uuid.New().String(),
		Type:        ProductColorClassifiedEvent,
		ProductID:   res.ProductID,
		Source:      res.Classification.Kind,
		Raw:         res.Classification.Token,
		Color:       res.Classification.Color.String(),
		RowKey1:     int(res.RowKey1),
		RowKey2:     int(res.RowKey2),
		NatureWords: res.Words,
		WriteStatus: res.Writes.Status(),
		Reconcile:   res.Reconcile,
		OccurredAt:  time.Now().UTC(),
	}
}

// Marshal сериализует событие
func (e ColorClassifiedEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
