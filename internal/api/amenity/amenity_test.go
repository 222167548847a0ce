package amenity

import (
	"bytes"
	"context"
	"encoding/json"
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

type MockAmenityService struct {
	mock.Mock
}

func (m *MockAmenityService) GetAmenities(ctx context.Context) []*models.Amenity {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Amenity)
}

func (m *MockAmenityService) GetAmenity(ctx context.Context, id string) (*models.Amenity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Amenity), args.Error(1)
}

func (m *MockAmenityService) CreateAmenity(ctx context.Context, body map[string]any) (*models.Amenity, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Amenity), args.Error(1)
}

func (m *MockAmenityService) UpdateAmenity(ctx context.Context, id string, body map[string]any) (*models.Amenity, error) {
	args := m.Called(ctx, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Amenity), args.Error(1)
}

func (m *MockAmenityService) DeleteAmenity(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func withAmenityID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("amenityID", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func newAmenity(name string) *models.Amenity {
	a := models.NewAmenity()
	a.Name = name
	return a
}

func TestGetAmenitiesHandler(t *testing.T) {
	svc := new(MockAmenityService)
	h := NewHandler(svc, slog.Default())
	wifi := newAmenity("Wifi")
	svc.On("GetAmenities", mock.Anything).Return([]*models.Amenity{wifi}).Once()

	w := httptest.NewRecorder()
	h.GetAmenities(w, httptest.NewRequest(http.MethodGet, "/api/v1/amenities", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, wifi.ID, got[0]["id"])
	assert.Equal(t, "Amenity", got[0]["__class__"])
	assert.Equal(t, "Wifi", got[0]["name"])
	svc.AssertExpectations(t)
}

func TestGetAmenityHandler(t *testing.T) {
	svc := new(MockAmenityService)
	h := NewHandler(svc, slog.Default())

	t.Run("Found", func(t *testing.T) {
		wifi := newAmenity("Wifi")
		svc.On("GetAmenity", mock.Anything, wifi.ID).Return(wifi, nil).Once()

		w := httptest.NewRecorder()
		h.GetAmenity(w, withAmenityID(httptest.NewRequest(http.MethodGet, "/", nil), wifi.ID))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Wifi"`)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc.On("GetAmenity", mock.Anything, "nope").Return(nil, storage.ErrNotFound).Once()

		w := httptest.NewRecorder()
		h.GetAmenity(w, withAmenityID(httptest.NewRequest(http.MethodGet, "/", nil), "nope"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
	})
	svc.AssertExpectations(t)
}

func TestCreateAmenityHandler(t *testing.T) {
	svc := new(MockAmenityService)
	h := NewHandler(svc, slog.Default())

	t.Run("Success", func(t *testing.T) {
		wifi := newAmenity("Wifi")
		svc.On("CreateAmenity", mock.Anything, map[string]any{"name": "Wifi"}).Return(wifi, nil).Once()

		w := httptest.NewRecorder()
		h.CreateAmenity(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name": "Wifi"}`)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), wifi.ID)
	})

	t.Run("NotAJSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.CreateAmenity(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`name=Wifi`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Not a JSON"}`, w.Body.String())
	})

	t.Run("MissingName", func(t *testing.T) {
		svc.On("CreateAmenity", mock.Anything, map[string]any{"other": "x"}).
			Return(nil, &api.MissingFieldError{Field: "name"}).Once()

		w := httptest.NewRecorder()
		h.CreateAmenity(w, httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"other": "x"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Missing name"}`, w.Body.String())
	})
	svc.AssertExpectations(t)
}

func TestUpdateAndDeleteAmenityHandler(t *testing.T) {
	svc := new(MockAmenityService)
	h := NewHandler(svc, slog.Default())
	wifi := newAmenity("Wifi")
	renamed := newAmenity("Fast Wifi")
	renamed.ID = wifi.ID

	svc.On("UpdateAmenity", mock.Anything, wifi.ID, map[string]any{"name": "Fast Wifi"}).Return(renamed, nil).Once()
	svc.On("UpdateAmenity", mock.Anything, "nope", map[string]any{"name": "x"}).Return(nil, storage.ErrNotFound).Once()
	svc.On("UpdateAmenity", mock.Anything, wifi.ID, map[string]any(nil)).Return(nil, api.ErrNotJSON).Once()
	svc.On("DeleteAmenity", mock.Anything, wifi.ID).Return(nil).Once()

	w := httptest.NewRecorder()
	h.UpdateAmenity(w, withAmenityID(httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"name":"Fast Wifi"}`)), wifi.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Fast Wifi"`)

	w = httptest.NewRecorder()
	h.UpdateAmenity(w, withAmenityID(httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`{"name":"x"}`)), "nope"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	h.UpdateAmenity(w, withAmenityID(httptest.NewRequest(http.MethodPut, "/", bytes.NewBufferString(`[1, 2]`)), wifi.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Not a JSON"}`, w.Body.String())

	w = httptest.NewRecorder()
	h.DeleteAmenity(w, withAmenityID(httptest.NewRequest(http.MethodDelete, "/", nil), wifi.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestAmenityService(t *testing.T) {
	ctx := context.Background()
	store := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), slog.Default())
	svc := NewServiceImpl(store, slog.Default())

	_, err := svc.CreateAmenity(ctx, map[string]any{})
	assert.ErrorIs(t, err, api.ErrNotJSON)

	var missing *api.MissingFieldError
	_, err = svc.CreateAmenity(ctx, map[string]any{"name": ""})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "name", missing.Field)

	a, err := svc.CreateAmenity(ctx, map[string]any{"name": "Wifi", "id": "fixed"})
	require.NoError(t, err)
	assert.NotEqual(t, "fixed", a.ID)
	assert.Equal(t, "Wifi", a.Name)

	createdAt := a.CreatedAt
	updated, err := svc.UpdateAmenity(ctx, a.ID, map[string]any{"name": "WiFi", "created_at": "2001-01-01T00:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "WiFi", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(createdAt))

	_, err = svc.UpdateAmenity(ctx, a.ID, map[string]any{})
	assert.ErrorIs(t, err, api.ErrNotJSON)
	_, err = svc.UpdateAmenity(ctx, "nope", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.Len(t, svc.GetAmenities(ctx), 1)

	require.NoError(t, svc.DeleteAmenity(ctx, a.ID))
	_, err = svc.GetAmenity(ctx, a.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteAmenity(ctx, a.ID), storage.ErrNotFound)
}
