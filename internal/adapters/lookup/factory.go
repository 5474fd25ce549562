package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/interfaces"
)

// Backend названия источников таблиц
const (
	BackendAirtable  = "airtable"
	BackendSheets    = "sheets"
	BackendGithubRaw = "githubraw"
	BackendPostgres  = "postgres"
)

// Options параметры источника таблиц
type Options struct {
	Backend       string
	BaseURL       string
	BaseID        string
	APIKey        string
	SpreadsheetID string
	PostgresDSN   string
	KeyField      string
	ValueField    string
	CacheTTL      time.Duration
}

// New создает источник таблиц. Если cache != nil и CacheTTL > 0, снимки таблиц кэшируются.
// Возвращаемая функция освобождает ресурсы источника
func New(ctx context.Context, opts Options, client *retryablehttp.Client, cache interfaces.CachePort, logger interfaces.LoggerPort) (interfaces.TablePort, func() error, error) {
	var (
		table   interfaces.TablePort
		closeFn = func() error { return nil }
	)

	switch opts.Backend {
	case BackendAirtable:
		table = NewAirtableTable(client, opts.BaseURL, opts.BaseID, opts.APIKey, opts.KeyField, opts.ValueField)
	case BackendSheets:
		table = NewSheetsTable(client, opts.BaseURL, opts.SpreadsheetID, opts.APIKey)
	case BackendGithubRaw:
		if opts.BaseURL == "" {
			return nil, nil, fmt.Errorf("githubraw: base URL is required")
		}
		table = NewCSVTable(client, opts.BaseURL)
	case BackendPostgres:
		pg, err := NewPostgresTable(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		table, closeFn = pg, pg.Close
	default:
		return nil, nil, fmt.Errorf("%w: %s", utils.ErrUnknownLookupBackend, opts.Backend)
	}

	if cache != nil && opts.CacheTTL > 0 {
		logger.Info("Кэширование таблиц включено", interfaces.LogField{Key: "ttl", Value: opts.CacheTTL.String()})
		table = NewCachedTable(table, cache, opts.CacheTTL, logger)
	}

	return table, closeFn, nil
}
