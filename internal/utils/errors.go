package utils

import (
	"errors"
	"fmt"
)

// ----------------- webhook ------------------
var (
	ErrInvalidPayload   = errors.New("invalid product payload")
	ErrNoColorOption    = errors.New("product has no color option")
	ErrDuplicateWebhook = errors.New("webhook already processed")
)

// ----------------- lookup ------------------
var (
	ErrRowNotFound          = errors.New("row not found")
	ErrUnknownLookupBackend = errors.New("unknown lookup backend")
	ErrUnknownCacheBackend  = errors.New("unknown cache backend")
	ErrCacheMiss            = errors.New("cache miss")
)

// ----------------- shopify ------------------
var (
	ErrUnknownReconcileStrategy = errors.New("unknown reconcile strategy")
	ErrWritePartial             = errors.New("some metafield writes failed")
	ErrWriteFailed              = errors.New("all metafield writes failed")
)

// ----------------- http ------------------
var (
	ErrResponseTooLarge = errors.New("response exceeds size limit")
)

// ----------------- image ------------------
var (
	ErrImageTooLarge = errors.New("image exceeds size limit")
	ErrNoColors      = errors.New("no prominent colors found")
)

// StatusError ответ внешнего сервиса с неуспешным HTTP-статусом
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// NewStatusError создает StatusError, обрезая тело ответа
func NewStatusError(code int, body []byte) *StatusError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &StatusError{StatusCode: code, Body: string(body)}
}
