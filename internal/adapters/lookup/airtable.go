package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

// DefaultAirtableURL адрес Airtable REST API
const DefaultAirtableURL = "https://api.airtable.com/v0"

// AirtableTable читает записи таблицы Airtable с постраничной выборкой
type AirtableTable struct {
	http       *retryablehttp.Client
	baseURL    string
	baseID     string
	keyField   string
	valueField string
}

// NewAirtableTable создает адаптер с отдельным клиентом, который подписывает
// каждый запрос apiKey как Bearer-токеном через oauth2.Transport
func NewAirtableTable(client *retryablehttp.Client, baseURL, baseID, apiKey, keyField, valueField string) *AirtableTable {
	if baseURL == "" {
		baseURL = DefaultAirtableURL
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	authorized := httpclient.WithTransport(client, func(base http.RoundTripper) http.RoundTripper {
		return &oauth2.Transport{Source: source, Base: base}
	})
	return &AirtableTable{
		http:       authorized,
		baseURL:    strings.TrimRight(baseURL, "/"),
		baseID:     baseID,
		keyField:   keyField,
		valueField: valueField,
	}
}

type airtablePage struct {
	Records []struct {
		ID     string         `json:"id"`
		Fields map[string]any `json:"fields"`
	} `json:"records"`
	Offset string `json:"offset"`
}

// Rows возвращает все записи таблицы в порядке выдачи API
func (a *AirtableTable) Rows(ctx context.Context, table string) ([]models.TableRow, error) {
	var rows []models.TableRow
	offset := ""
	for {
		var page airtablePage
		err := httpclient.DoJSON(ctx, a.http, httpclient.Request{
			Method: http.MethodGet,
			URL:    a.pageURL(table, offset),
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("airtable table %q: %w", table, err)
		}

		for _, rec := range page.Records {
			rows = append(rows, models.TableRow{
				Key:   fieldString(rec.Fields[a.keyField]),
				Value: fieldString(rec.Fields[a.valueField]),
			})
		}

		if page.Offset == "" {
			return rows, nil
		}
		offset = page.Offset
	}
}

func (a *AirtableTable) pageURL(table, offset string) string {
	q := url.Values{}
	q.Add("fields[]", a.keyField)
	q.Add("fields[]", a.valueField)
	q.Set("pageSize", "100")
	if offset != "" {
		q.Set("offset", offset)
	}
	return fmt.Sprintf("%s/%s/%s?%s", a.baseURL, url.PathEscape(a.baseID), url.PathEscape(table), q.Encode())
}

// fieldString приводит значение поля Airtable к строке; числа без экспоненты
func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fieldString(p))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(t)
	}
}
