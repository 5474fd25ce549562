package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type classifyResponse struct {
	Source   string `json:"source"`
	Raw      string `json:"raw,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Color    string `json:"color"`
}

// Classify определяет цвет продукта без записи в магазин
func (h *WebhookHandler) Classify(w http.ResponseWriter, r *http.Request) {
	_, product, err := h.decode(r.Body)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	c, err := h.pipeline.Classify(r.Context(), product)
	if errors.Is(err, utils.ErrNoColorOption) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "no_color_option",
			Code:    http.StatusBadRequest,
			Message: MsgNoColorOption,
		})
		return
	}
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка классификации", interfaces.LogField{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: "internal_error", Code: http.StatusInternalServerError})
		return
	}

	render.JSON(w, r, classifyResponse{
		Source:   string(c.Kind),
		Raw:      c.Token,
		ImageURL: c.ImageURL,
		Color:    c.Color.String(),
	})
}
