package city

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

type MockCityService struct {
	mock.Mock
}

func (m *MockCityService) GetStateCities(ctx context.Context, stateID string) ([]*models.City, error) {
	args := m.Called(ctx, stateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.City), args.Error(1)
}

func (m *MockCityService) GetCity(ctx context.Context, id string) (*models.City, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}

func (m *MockCityService) CreateCity(ctx context.Context, stateID string, body map[string]any) (*models.City, error) {
	args := m.Called(ctx, stateID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}

func (m *MockCityService) UpdateCity(ctx context.Context, id string, body map[string]any) (*models.City, error) {
	args := m.Called(ctx, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.City), args.Error(1)
}

func (m *MockCityService) DeleteCity(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func withParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCityHandlers(t *testing.T) {
	svc := new(MockCityService)
	h := NewHandler(svc, slog.Default())
	sf := models.NewCity()
	sf.Name = "San Francisco"
	sf.StateID = "s1"

	t.Run("ListUnknownState", func(t *testing.T) {
		svc.On("GetStateCities", mock.Anything, "nope").Return(nil, storage.ErrNotFound).Once()
		w := httptest.NewRecorder()
		h.GetStateCities(w, withParam(httptest.NewRequest(http.MethodGet, "/", nil), "stateID", "nope"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
	})

	t.Run("List", func(t *testing.T) {
		svc.On("GetStateCities", mock.Anything, "s1").Return([]*models.City{sf}, nil).Once()
		w := httptest.NewRecorder()
		h.GetStateCities(w, withParam(httptest.NewRequest(http.MethodGet, "/", nil), "stateID", "s1"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"San Francisco"`)
	})

	t.Run("CreateNotAJSONOnUnknownState", func(t *testing.T) {
		svc.On("CreateCity", mock.Anything, "nope", map[string]any(nil)).Return(nil, storage.ErrNotFound).Once()
		w := httptest.NewRecorder()
		h.CreateCity(w, withParam(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("garbage")), "stateID", "nope"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Create", func(t *testing.T) {
		svc.On("CreateCity", mock.Anything, "s1", map[string]any{"name": "San Francisco"}).Return(sf, nil).Once()
		w := httptest.NewRecorder()
		h.CreateCity(w, withParam(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"San Francisco"}`)), "stateID", "s1"))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"state_id":"s1"`)
	})

	t.Run("Delete", func(t *testing.T) {
		svc.On("DeleteCity", mock.Anything, sf.ID).Return(nil).Once()
		w := httptest.NewRecorder()
		h.DeleteCity(w, withParam(httptest.NewRequest(http.MethodDelete, "/", nil), "cityID", sf.ID))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{}`, w.Body.String())
	})

	svc.AssertExpectations(t)
}

func TestCityService(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), slog.Default())
	svc := NewServiceImpl(store, slog.Default())

	ca := models.NewState()
	store.New(ctx, ca)
	other := models.NewState()
	store.New(ctx, other)

	_, err := svc.GetStateCities(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.CreateCity(ctx, "nope", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = svc.CreateCity(ctx, ca.ID, nil)
	assert.ErrorIs(t, err, api.ErrNotJSON)
	var missing *api.MissingFieldError
	_, err = svc.CreateCity(ctx, ca.ID, map[string]any{"population": 3})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "name", missing.Field)

	sf, err := svc.CreateCity(ctx, ca.ID, map[string]any{"name": "San Francisco", "state_id": other.ID})
	require.NoError(t, err)
	assert.Equal(t, ca.ID, sf.StateID)

	cities, err := svc.GetStateCities(ctx, ca.ID)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, sf.ID, cities[0].ID)

	cities, err = svc.GetStateCities(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, cities)

	updated, err := svc.UpdateCity(ctx, sf.ID, map[string]any{"name": "SF", "state_id": other.ID})
	require.NoError(t, err)
	assert.Equal(t, "SF", updated.Name)
	assert.Equal(t, ca.ID, updated.StateID)

	require.NoError(t, svc.DeleteCity(ctx, sf.ID))
	_, err = svc.GetCity(ctx, sf.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
