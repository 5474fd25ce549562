package services

import (
	"context"
	"errors"
	"sync"

	"github.com/athebyme/shopify-color-relay/internal/domain/models"
	pkgmodels "github.com/athebyme/shopify-color-relay/pkg/models"
)

var errRemote = errors.New("remote unavailable")

// fakeTable таблицы в памяти; failing - таблицы, чтение которых завершается ошибкой
type fakeTable struct {
	mu      sync.Mutex
	tables  map[string][]pkgmodels.TableRow
	failing map[string]bool
	reads   map[string]int
}

func newFakeTable() *fakeTable {
	return &fakeTable{
		tables:  make(map[string][]pkgmodels.TableRow),
		failing: make(map[string]bool),
		reads:   make(map[string]int),
	}
}

func (f *fakeTable) set(table string, rows ...pkgmodels.TableRow) {
	f.tables[table] = rows
}

func (f *fakeTable) Rows(_ context.Context, table string) ([]pkgmodels.TableRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[table]++
	if f.failing[table] {
		return nil, errRemote
	}
	return f.tables[table], nil
}

func row(key, value string) pkgmodels.TableRow {
	return pkgmodels.TableRow{Key: key, Value: value}
}

// fakeImages возвращает заданный цвет для каждого URL
type fakeImages struct {
	colors map[string]models.RGB
	err    error
}

func (f *fakeImages) DominantRGB(_ context.Context, url string) (uint8, uint8, uint8, error) {
	if f.err != nil {
		return 0, 0, 0, f.err
	}
	c, ok := f.colors[url]
	if !ok {
		return 0, 0, 0, errRemote
	}
	return c.R, c.G, c.B, nil
}

// fakeCommerce магазин в памяти, записывающий все вызовы
type fakeCommerce struct {
	mu            sync.Mutex
	metafields    []pkgmodels.Metafield
	failKeys      map[string]bool
	variants      []pkgmodels.Variant
	nextID        int64
	updates       []pkgmodels.ProductUpdate
	failDelete    map[int64]bool
	failUpdate    bool
	optionUpdates map[int64]string
}

func newFakeCommerce(variants ...pkgmodels.Variant) *fakeCommerce {
	return &fakeCommerce{
		failKeys:      make(map[string]bool),
		failDelete:    make(map[int64]bool),
		variants:      append([]pkgmodels.Variant(nil), variants...),
		nextID:        1000,
		optionUpdates: make(map[int64]string),
	}
}

func (f *fakeCommerce) UpsertMetafield(_ context.Context, _ int64, field pkgmodels.Metafield) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[field.Key] {
		return errRemote
	}
	f.metafields = append(f.metafields, field)
	return nil
}

func (f *fakeCommerce) UpdateVariantOption(_ context.Context, variantID int64, position int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errRemote
	}
	for i := range f.variants {
		if f.variants[i].ID == variantID {
			f.variants[i].SetOptionValue(position, value)
			f.optionUpdates[variantID] = value
			return nil
		}
	}
	return errors.New("variant not found")
}

func (f *fakeCommerce) ListVariants(_ context.Context, _ int64) ([]pkgmodels.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pkgmodels.Variant, len(f.variants))
	copy(out, f.variants)
	return out, nil
}

func (f *fakeCommerce) CreateVariant(_ context.Context, productID int64, v pkgmodels.Variant) (*pkgmodels.Variant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	v.ID = f.nextID
	v.ProductID = productID
	f.variants = append(f.variants, v)
	return &v, nil
}

func (f *fakeCommerce) DeleteVariant(_ context.Context, _ int64, variantID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete[variantID] {
		return errRemote
	}
	for i := range f.variants {
		if f.variants[i].ID == variantID {
			f.variants = append(f.variants[:i], f.variants[i+1:]...)
			return nil
		}
	}
	return errors.New("variant not found")
}

func (f *fakeCommerce) UpdateProduct(_ context.Context, update pkgmodels.ProductUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeCommerce) variantIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.variants))
	for _, v := range f.variants {
		ids = append(ids, v.ID)
	}
	return ids
}

func (f *fakeCommerce) metafield(key string) (string, bool) {
	for _, m := range f.metafields {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// fixedRowKeys выдает ключи по кругу
type fixedRowKeys struct {
	keys []models.RowKey
	i    int
}

func (f *fixedRowKeys) Next() models.RowKey {
	k := f.keys[f.i%len(f.keys)]
	f.i++
	return k
}

func strPtr(s string) *string {
	return &s
}

func variant(id int64, color string) pkgmodels.Variant {
	return pkgmodels.Variant{ID: id, Price: "19.99", SKU: "SKU-" + color, Option1: strPtr(color)}
}
