package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

// DefaultSheetsURL адрес Google Sheets API v4
const DefaultSheetsURL = "https://sheets.googleapis.com/v4"

// SheetsTable читает колонки A:B вкладки Google Sheets по ключу API
type SheetsTable struct {
	http          *retryablehttp.Client
	baseURL       string
	spreadsheetID string
	apiKey        string
}

func NewSheetsTable(client *retryablehttp.Client, baseURL, spreadsheetID, apiKey string) *SheetsTable {
	if baseURL == "" {
		baseURL = DefaultSheetsURL
	}
	return &SheetsTable{
		http:          client,
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
		apiKey:        apiKey,
	}
}

type valueRange struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// Rows возвращает строки вкладки; пустые строки пропускаются
func (s *SheetsTable) Rows(ctx context.Context, tab string) ([]models.TableRow, error) {
	q := url.Values{}
	q.Set("key", s.apiKey)
	q.Set("valueRenderOption", "FORMATTED_VALUE")
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s?%s",
		s.baseURL, url.PathEscape(s.spreadsheetID), url.PathEscape(tab+"!A:B"), q.Encode())

	var out valueRange
	if err := httpclient.DoJSON(ctx, s.http, httpclient.Request{Method: http.MethodGet, URL: endpoint}, &out); err != nil {
		return nil, fmt.Errorf("sheets tab %q: %w", tab, err)
	}

	rows := make([]models.TableRow, 0, len(out.Values))
	for _, cells := range out.Values {
		if len(cells) == 0 {
			continue
		}
		row := models.TableRow{Key: cells[0]}
		if len(cells) > 1 {
			row.Value = cells[1]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
