package interfaces

import (
	"context"

	"github.com/athebyme/shopify-color-relay/pkg/models"
)

// TablePort определяет чтение внешней таблицы, адресуемой по имени (таблица Airtable,
// вкладка Google Sheets, CSV-файл, строки в PostgreSQL)
type TablePort interface {
	// Rows возвращает строки таблицы в порядке хранения
	Rows(ctx context.Context, table string) ([]models.TableRow, error)
}
