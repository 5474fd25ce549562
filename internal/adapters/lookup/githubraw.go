package lookup

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

// CSVTable читает таблицу из CSV-файла {baseURL}/{table}.csv (например, raw.githubusercontent.com)
type CSVTable struct {
	http    *retryablehttp.Client
	baseURL string
}

func NewCSVTable(client *retryablehttp.Client, baseURL string) *CSVTable {
	return &CSVTable{http: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// Rows возвращает первые две колонки каждой записи
func (c *CSVTable) Rows(ctx context.Context, table string) ([]models.TableRow, error) {
	endpoint := fmt.Sprintf("%s/%s.csv", c.baseURL, url.PathEscape(table))

	raw, err := httpclient.Fetch(ctx, c.http, httpclient.Request{Method: http.MethodGet, URL: endpoint})
	if err != nil {
		return nil, fmt.Errorf("csv table %q: %w", table, err)
	}

	return parseCSV(raw)
}

func parseCSV(raw []byte) ([]models.TableRow, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows []models.TableRow
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		row := models.TableRow{Key: record[0]}
		if len(record) > 1 {
			row.Value = record[1]
		}
		rows = append(rows, row)
	}
}
