package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"object", `{"name":"x","n":3}`, false},
		{"empty object", `{}`, false},
		{"empty body", ``, true},
		{"null", `null`, true},
		{"array", `[1,2]`, true},
		{"string", `"x"`, true},
		{"truncated", `{"name":`, true},
		{"trailing data", `{"a":1}{"b":2}`, true},
		{"form", `name=x`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			body, err := DecodeJSONBody(httptest.NewRecorder(), req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotJSON)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, body)
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   string
	}{
		{"not found", fmt.Errorf("lookup: %w", storage.ErrNotFound), http.StatusNotFound, `{"error":"Not found"}`},
		{"not json", ErrNotJSON, http.StatusBadRequest, `{"error":"Not a JSON"}`},
		{"missing", &MissingFieldError{Field: "name"}, http.StatusBadRequest, `{"error":"Missing name"}`},
		{"invalid value", fmt.Errorf("set: %w", models.ErrInvalidValue), http.StatusBadRequest, `{"error":"Invalid value"}`},
		{"other", errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestRequireFields(t *testing.T) {
	body := map[string]any{"email": "a@b.c", "password": "", "name": nil}

	assert.NoError(t, RequireFields(body, "email"))

	var missing *MissingFieldError
	require.ErrorAs(t, RequireFields(body, "email", "password"), &missing)
	assert.Equal(t, "password", missing.Field)
	require.ErrorAs(t, RequireFields(body, "name"), &missing)
	assert.Equal(t, "Missing name", missing.Error())
	require.ErrorAs(t, RequireFields(body, "text"), &missing)
	assert.Equal(t, "text", missing.Field)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), logger)
	repo := NewRepository[*models.State](store, models.ClassState, logger)

	first, err := repo.Create(ctx, models.NewState(), map[string]any{"name": "Ohio", "id": "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "Ohio", first.Name)
	assert.NotEqual(t, "ignored", first.ID)

	second, err := repo.Create(ctx, models.NewState(), map[string]any{"name": "Utah"})
	require.NoError(t, err)

	list := repo.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.True(t, Exists(ctx, store, models.ClassState, second.ID))

	_, err = repo.Update(ctx, "nop", map[string]any{})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repo.Update(ctx, first.ID, map[string]any{})
	assert.ErrorIs(t, err, ErrNotJSON)

	updated, err := repo.Update(ctx, first.ID, map[string]any{"name": "Iowa"})
	require.NoError(t, err)
	assert.Equal(t, "Iowa", updated.Name)
	assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), storage.ErrNotFound)
	assert.Len(t, Public(repo.List(ctx)), 1)
}

type failingSave struct {
	storage.Engine
}

func (failingSave) Save(context.Context) error { return errors.New("disk full") }

func TestRepositoryCreateRollsBackOnSaveError(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := storage.NewFileStorage(filepath.Join(t.TempDir(), "file.json"), logger)
	repo := NewRepository[*models.State](failingSave{fs}, models.ClassState, logger)

	_, err := repo.Create(ctx, models.NewState(), map[string]any{"name": "Ohio"})
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, fs.Count(ctx, models.ClassState))
}
