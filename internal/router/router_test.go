package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/FACorreiaa/go-hbnb/config"
	"github.com/FACorreiaa/go-hbnb/internal/container"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-cache stops its janitor from a finalizer only.
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.Storage.Type = config.StorageFile
	cfg.Server.StatsCacheTTL = time.Hour
	cfg.Server.AllowedOrigins = []string{"*"}

	store := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), logger)
	return SetupRouter(container.New(cfg, store, logger))
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStatus(t *testing.T) {
	h := newTestRouter(t)
	for _, target := range []string{"/api/v1/status", "/api/v1/status/"} {
		w := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	}
}

func TestNotFound(t *testing.T) {
	h := newTestRouter(t)
	for _, target := range []string{"/api/v1/nop", "/nop", "/api/v1/states/unknown", "/api/v1/places/x/reviews"} {
		w := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String(), target)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodPatch, "/api/v1/states", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatsInvalidatedByWrites(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"amenities":0,"cities":0,"places":0,"reviews":0,"states":0,"users":0}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/v1/states", `{"name":"California"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/v1/stats", "")
	var stats map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["states"])
}

func TestNestedRoutes(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/v1/states", `{"name":"California"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var st map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	stateID := st["id"].(string)

	w = do(t, h, http.MethodPost, "/api/v1/states/"+stateID+"/cities/", `{"name":"San Francisco"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var city map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &city))
	assert.Equal(t, stateID, city["state_id"])

	w = do(t, h, http.MethodGet, "/api/v1/states/"+stateID+"/cities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cities []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cities))
	require.Len(t, cities, 1)

	w = do(t, h, http.MethodDelete, "/api/v1/cities/"+city["id"].(string), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestWebAndSwagger(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/hbnb", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Places</h1>")

	w = do(t, h, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/places_search"`)
}
