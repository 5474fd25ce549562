package models

// TableRow строка внешней таблицы: первая колонка (ключ строки) и вторая колонка (слово)
type TableRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
