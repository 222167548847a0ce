package container

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-hbnb/config"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStorage_DefaultsToFile(t *testing.T) {
	cfg := &config.Config{}
	store, pool, err := OpenStorage(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Nil(t, pool)

	fs, ok := store.(*storage.FileStorage)
	require.True(t, ok)
	assert.Equal(t, storage.DefaultFilePath, fs.Path())
}

func TestOpenStorage_FilePath(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = config.StorageFile
	cfg.Storage.FilePath = filepath.Join(t.TempDir(), "objects.json")

	store, _, err := OpenStorage(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.FilePath, store.(*storage.FileStorage).Path())
}

func TestNewContainer(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.FilePath = filepath.Join(t.TempDir(), "file.json")

	c, err := NewContainer(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.Pool)
	assert.NotNil(t, c.Storage)
	assert.NotNil(t, c.IndexHandler)
	assert.NotNil(t, c.StateHandler)
	assert.NotNil(t, c.CityHandler)
	assert.NotNil(t, c.AmenityHandler)
	assert.NotNil(t, c.UserHandler)
	assert.NotNil(t, c.PlaceHandler)
	assert.NotNil(t, c.ReviewHandler)
	assert.NotNil(t, c.WebHandler)
}
