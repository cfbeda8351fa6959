package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abinayasri1011/noolsakaa/internal/catalog/service"
	"github.com/Abinayasri1011/noolsakaa/internal/config"
	"github.com/Abinayasri1011/noolsakaa/internal/middleware"
)

const booksCSV = `Book Name,Author,Genre,Average Rating,Number of Ratings,Stall Number
Book A,Kalki,Fiction,4.5,100,12
Book B,Kalki,Fiction,4.0,50,12
Book C,Jeyamohan,Fiction,4.8,200,7
`

func testConfig(path string) config.Config {
	return config.Config{
		CatalogPath:  path,
		HeaderRow:    1,
		DefaultTopN:  10,
		MaxTopN:      25,
		MaxFavorites: 3,
		FuzzyCutoff:  0.30,
		SuggestLimit: 30,
		QRPayloadMax: 4200,
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(booksCSV), 0o644))
	cfg := testConfig(path)
	return New(cfg, service.NewLoader(cfg.HeaderRow), service.NewRecommender(nil), zerolog.Nop())
}

func post(t *testing.T, fn http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRecommend(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Recommend, "/api/recommend", map[string]any{"favorites": []string{"Book A"}, "top_n": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	resp := decode[recommendResponse](t, rec)
	assert.Equal(t, 2, resp.TopN)
	require.Len(t, resp.Picks, 1)
	assert.Equal(t, "Book A", resp.Picks[0].Title)
	assert.Equal(t, "title", resp.Picks[0].Method)
	assert.False(t, resp.Picks[0].ByAuthor)

	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "Book B", resp.Recommendations[0].Title)
	assert.Equal(t, 1, resp.Recommendations[0].Rank)
	assert.Equal(t, "same_author", resp.Recommendations[0].Tier)
	assert.Equal(t, "Book C", resp.Recommendations[1].Title)
	assert.Equal(t, "tamil", resp.Recommendations[1].Tier)
	assert.Equal(t, "7", resp.Recommendations[1].StallNumber)
	assert.Equal(t, 4.8, resp.Recommendations[1].AverageRating)
}

func TestRecommendDefaultsTopN(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Recommend, "/api/recommend", map[string]any{"favorites": []string{"kalki"}})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[recommendResponse](t, rec)
	assert.Equal(t, 10, resp.TopN)
	assert.Equal(t, "author", resp.Picks[0].Method)
	assert.True(t, resp.Picks[0].ByAuthor)
	// Only two books besides the favorite exist.
	assert.Len(t, resp.Recommendations, 2)
}

func TestRecommendRejects(t *testing.T) {
	h := newTestHandler(t)

	cases := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"blank favorites", map[string]any{"favorites": []string{"", "  "}}, http.StatusBadRequest, "empty_favorites"},
		{"no favorites", map[string]any{}, http.StatusBadRequest, "empty_favorites"},
		{"too many", map[string]any{"favorites": []string{"a", "b", "c", "d"}}, http.StatusBadRequest, "too_many_favorites"},
		{"top_n too large", map[string]any{"favorites": []string{"Book A"}, "top_n": 26}, http.StatusBadRequest, "invalid_request"},
		{"negative top_n", map[string]any{"favorites": []string{"Book A"}, "top_n": -1}, http.StatusBadRequest, "invalid_request"},
		{"unknown favorite", map[string]any{"favorites": []string{"Book A", "zzzz"}}, http.StatusNotFound, "no_match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, h.Recommend, "/api/recommend", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, decode[errorResponse](t, rec).Error)
		})
	}

	rec := post(t, h.Recommend, "/api/recommend", map[string]any{"favorites": []string{"zzzz"}})
	assert.Equal(t, "zzzz", decode[errorResponse](t, rec).Query)

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", bytes.NewBufferString("{"))
	bad := httptest.NewRecorder()
	h.Recommend(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestResolve(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Resolve, "/api/resolve", map[string]string{"query": "jeyamohan"})
	require.Equal(t, http.StatusOK, rec.Code)
	pick := decode[pickDTO](t, rec)
	assert.Equal(t, "Book C", pick.Title)
	assert.Equal(t, "author", pick.Method)
	assert.Nil(t, pick.Score)

	rec = post(t, h.Resolve, "/api/resolve", map[string]string{"query": "zzzz"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(t, h.Resolve, "/api/resolve", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decode[errorResponse](t, rec).Error)
}

func TestExportCSV(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Export, "/api/recommend/export", map[string]any{"favorites": []string{"Book A"}, "top_n": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "noolsaka_recs.csv")
	assert.Equal(t, "Book Name,Author,Stall Number\nBook B,Kalki,12\nBook C,Jeyamohan,7\n", rec.Body.String())
}

func TestExportQR(t *testing.T) {
	h := newTestHandler(t)

	rec := post(t, h.Export, "/api/recommend/export?format=qr", map[string]any{"favorites": []string{"Book A"}, "top_n": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1. Book B — Kalki — Stall 12\n2. Book C — Jeyamohan — Stall 7", rec.Body.String())

	rec = post(t, h.Export, "/api/recommend/export?format=pdf", map[string]any{"favorites": []string{"Book A"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_format", decode[errorResponse](t, rec).Error)
}

func TestQRPayloadTruncatesByRune(t *testing.T) {
	h := newTestHandler(t)
	h.cfg.QRPayloadMax = 12

	rec := post(t, h.Export, "/api/recommend/export?format=qr", map[string]any{"favorites": []string{"Book A"}, "top_n": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1. Book B — ", rec.Body.String())
}

func TestCatalogAndSuggest(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Catalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[catalogResponse](t, rec)
	assert.Equal(t, 3, cat.Entries)
	assert.Equal(t, "books.csv", cat.Source)
	assert.Equal(t, []string{"Fiction"}, cat.Genres)

	rec = httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet, "/api/suggest?q=kal", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Kalki"}, decode[suggestResponse](t, rec).Options)

	rec = httptest.NewRecorder()
	h.Suggest(rec, httptest.NewRequest(http.MethodGet, "/api/suggest?limit=2", nil))
	assert.Equal(t, []string{"Book A", "Book B"}, decode[suggestResponse](t, rec).Options)
}

func TestCatalogUnavailable(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.csv"))
	h := New(cfg, service.NewLoader(1), service.NewRecommender(nil), zerolog.Nop())

	rec := httptest.NewRecorder()
	h.Catalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = post(t, h.Recommend, "/api/recommend", map[string]any{"favorites": []string{"Book A"}})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "catalog_unavailable", decode[errorResponse](t, rec).Error)
}

func TestCatalogPicksUpEdits(t *testing.T) {
	h := newTestHandler(t)
	h.Catalog(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/catalog", nil))

	more := booksCSV + "Gitanjali,Rabindranath Tagore,Poetry,4.9,300,3\n"
	require.NoError(t, os.WriteFile(h.cfg.CatalogPath, []byte(more), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(h.cfg.CatalogPath, later, later))

	rec := httptest.NewRecorder()
	h.Catalog(rec, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	assert.Equal(t, 4, decode[catalogResponse](t, rec).Entries)
}

func TestErrorLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.csv"))
	h := New(cfg, service.NewLoader(1), service.NewRecommender(nil), zerolog.New(&buf))
	srv := middleware.RequestID()(http.HandlerFunc(h.Catalog))

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	req.Header.Set("X-Request-ID", "stall-42")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, buf.String(), `"rid":"stall-42"`)
	assert.Contains(t, buf.String(), "catalog load failed")
}
