package index

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

type MockIndexService struct {
	mock.Mock
}

func (m *MockIndexService) Stats(ctx context.Context) map[string]int {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int)
}

func (m *MockIndexService) InvalidateStats() {
	m.Called()
}

func TestStatusHandler(t *testing.T) {
	h := NewHandler(new(MockIndexService), slog.Default())

	w := httptest.NewRecorder()
	h.Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}

func TestStatsHandler(t *testing.T) {
	svc := new(MockIndexService)
	h := NewHandler(svc, slog.Default())
	svc.On("Stats", mock.Anything).Return(map[string]int{"states": 2, "users": 0}).Once()

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"states":2,"users":0}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestInvalidateStatsMiddleware(t *testing.T) {
	svc := new(MockIndexService)
	h := NewHandler(svc, slog.Default())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	wrapped := h.InvalidateStats(next)

	// before and after each of the two writes
	svc.On("InvalidateStats").Return().Times(4)

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/states", nil))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/states", nil))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/states/1", nil))

	svc.AssertExpectations(t)
}

func TestServiceStatsCaching(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), slog.Default())
	svc := NewServiceImpl(store, time.Hour, slog.Default())

	store.New(ctx, models.NewState())
	store.New(ctx, models.NewUser())

	stats := svc.Stats(ctx)
	require.Len(t, stats, len(StatsResources))
	assert.Equal(t, 1, stats["states"])
	assert.Equal(t, 1, stats["users"])
	assert.Equal(t, 0, stats["places"])

	store.New(ctx, models.NewState())
	assert.Equal(t, 1, svc.Stats(ctx)["states"], "cached value expected")

	svc.InvalidateStats()
	assert.Equal(t, 2, svc.Stats(ctx)["states"])

	raw, err := json.Marshal(svc.Stats(ctx))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amenities":0`)
}

// writeAfterStateCount applies a write right after the states have been
// counted, as a concurrent request would.
type writeAfterStateCount struct {
	storage.Engine
	once  sync.Once
	write func()
}

func (w *writeAfterStateCount) Count(ctx context.Context, class string) int {
	n := w.Engine.Count(ctx, class)
	if class == models.ClassState {
		w.once.Do(w.write)
	}
	return n
}

func TestServiceStatsIgnoresCountsRacingAWrite(t *testing.T) {
	ctx := context.Background()
	fs := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), slog.Default())
	store := &writeAfterStateCount{Engine: fs}
	svc := NewServiceImpl(store, time.Hour, slog.Default())
	store.write = func() {
		fs.New(ctx, models.NewState())
		svc.InvalidateStats()
	}

	assert.Equal(t, 0, svc.Stats(ctx)["states"])
	assert.Equal(t, 1, svc.Stats(ctx)["states"], "stale count must not be cached")
	assert.Equal(t, 1, svc.Stats(ctx)["states"])
}
