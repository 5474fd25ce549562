package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/shopify-color-relay/internal/adapters/cache"
	"github.com/athebyme/shopify-color-relay/internal/adapters/httpclient"
	"github.com/athebyme/shopify-color-relay/internal/adapters/logger"
	"github.com/athebyme/shopify-color-relay/internal/utils"
	"github.com/athebyme/shopify-color-relay/pkg/models"
)

func testHTTP() *retryablehttp.Client {
	return httpclient.New(httpclient.Options{RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond}, logger.NewNopLogger())
}

func TestAirtableTable_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Equal(t, "/appBase/Green", r.URL.Path)
		assert.Equal(t, []string{"Row", "Color"}, r.URL.Query()["fields[]"])

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "" {
			_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Row":1,"Color":"Fern"}},{"id":"rec2","fields":{"Row":"02","Color":"Moss"}}],"offset":"itr2"}`))
			return
		}
		assert.Equal(t, "itr2", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"records":[{"id":"rec3","fields":{"Row":37.0}}]}`))
	}))
	defer srv.Close()

	table := NewAirtableTable(testHTTP(), srv.URL, "appBase", "key123", "Row", "Color")
	rows, err := table.Rows(context.Background(), "Green")
	require.NoError(t, err)

	assert.Equal(t, []models.TableRow{
		{Key: "1", Value: "Fern"},
		{Key: "02", Value: "Moss"},
		{Key: "37", Value: ""},
	}, rows)
}

func TestAirtableTable_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"NOT_FOUND"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	table := NewAirtableTable(testHTTP(), srv.URL, "appBase", "key", "Row", "Color")
	_, err := table.Rows(context.Background(), "Teal")
	assert.Error(t, err)
}

func TestAirtableTable_BearerTransport(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/other" {
			assert.Empty(t, r.Header.Get("Authorization"))
			return
		}
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Row":1,"Color":"Fern"}}]}`))
	}))
	defer srv.Close()

	shared := httpclient.New(httpclient.Options{MaxRetries: 1, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond}, logger.NewNopLogger())
	table := NewAirtableTable(shared, srv.URL, "appBase", "key123", "Row", "Color")

	rows, err := table.Rows(context.Background(), "Green")
	require.NoError(t, err)
	assert.Equal(t, []models.TableRow{{Key: "1", Value: "Fern"}}, rows)
	assert.Equal(t, int32(2), calls.Load())

	// общий клиент не получает токен Airtable
	_, err = httpclient.Fetch(context.Background(), shared, httpclient.Request{Method: http.MethodGet, URL: srv.URL + "/other"})
	require.NoError(t, err)
}

func TestSheetsTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/sheet1/values/Blue!A:B", r.URL.Path)
		assert.Equal(t, "api-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"range":"Blue!A1:B4","values":[["Row","Color"],["1","Ocean"],[],["2"]]}`))
	}))
	defer srv.Close()

	table := NewSheetsTable(testHTTP(), srv.URL, "sheet1", "api-key")
	rows, err := table.Rows(context.Background(), "Blue")
	require.NoError(t, err)

	assert.Equal(t, []models.TableRow{
		{Key: "Row", Value: "Color"},
		{Key: "1", Value: "Ocean"},
		{Key: "2"},
	}, rows)
}

func TestCSVTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/colors/Red.csv", r.URL.Path)
		_, _ = w.Write([]byte("\xef\xbb\xbfRow,Color\n1,Crimson\n\n2,\"Brick, Rust\"\n3\n"))
	}))
	defer srv.Close()

	table := NewCSVTable(testHTTP(), srv.URL+"/colors/")
	rows, err := table.Rows(context.Background(), "Red")
	require.NoError(t, err)

	assert.Equal(t, []models.TableRow{
		{Key: "Row", Value: "Color"},
		{Key: "1", Value: "Crimson"},
		{Key: "2", Value: "Brick, Rust"},
		{Key: "3"},
	}, rows)
}

type countingTable struct {
	calls int32
}

func (c *countingTable) Rows(_ context.Context, table string) ([]models.TableRow, error) {
	atomic.AddInt32(&c.calls, 1)
	return []models.TableRow{{Key: "1", Value: table}}, nil
}

func TestCachedTable(t *testing.T) {
	next := &countingTable{}
	table := NewCachedTable(next, cache.NewMemoryCache(time.Minute), time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rows, err := table.Rows(ctx, "Green")
		require.NoError(t, err)
		assert.Equal(t, "Green", rows[0].Value)
	}
	_, err := table.Rows(ctx, "Blue")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&next.calls))
}

func TestNew_Backends(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	table, closeFn, err := New(ctx, Options{Backend: BackendAirtable, BaseID: "app"}, testHTTP(), nil, log)
	require.NoError(t, err)
	assert.IsType(t, &AirtableTable{}, table)
	assert.NoError(t, closeFn())

	table, _, err = New(ctx, Options{Backend: BackendSheets, CacheTTL: time.Minute}, testHTTP(), cache.NewMemoryCache(time.Minute), log)
	require.NoError(t, err)
	assert.IsType(t, &CachedTable{}, table)

	_, _, err = New(ctx, Options{Backend: BackendGithubRaw}, testHTTP(), nil, log)
	assert.Error(t, err)

	_, _, err = New(ctx, Options{Backend: "excel"}, testHTTP(), nil, log)
	assert.ErrorIs(t, err, utils.ErrUnknownLookupBackend)
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "37", fieldString(float64(37)))
	assert.Equal(t, "3.5", fieldString(3.5))
	assert.Equal(t, "", fieldString(nil))
	assert.Equal(t, "a b", fieldString([]any{"a", "b"}))
}
