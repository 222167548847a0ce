package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultFilePath is where FileStorage keeps its objects unless configured otherwise.
const DefaultFilePath = "file.json"

var _ Engine = (*FileStorage)(nil)

// FileStorage serializes every object to a single JSON file keyed by
// "<ClassName>.<id>".
type FileStorage struct {
	*memStore
	path string
}

func NewFileStorage(path string, logger *slog.Logger) *FileStorage {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStorage{
		memStore: newMemStore("file", logger.With(slog.String("engine", "file"))),
		path:     path,
	}
}

// Path returns the JSON file location.
func (s *FileStorage) Path() string { return s.path }

// Save writes all objects to the JSON file. The file is replaced atomically.
func (s *FileStorage) Save(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("FileStorage").Start(ctx, "Save", trace.WithAttributes(
		attribute.String("storage.file", s.path),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Save"))
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	objs, deleted := s.snapshot()
	defer func() { s.observe(ctx, "save", start, len(objs), err) }()

	data, err := json.Marshal(objs)
	if err != nil {
		l.ErrorContext(ctx, "Failed to encode objects", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return fmt.Errorf("failed to encode objects: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "temp file failed")
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		l.ErrorContext(ctx, "Failed to replace storage file", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "rename failed")
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.forget(deleted)
	l.DebugContext(ctx, "Objects saved", slog.Int("count", len(objs)), slog.String("path", s.path))
	span.SetStatus(codes.Ok, "saved")
	return nil
}

// Reload replaces the in-memory objects with the content of the JSON file.
// A missing file leaves the engine empty.
func (s *FileStorage) Reload(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("FileStorage").Start(ctx, "Reload", trace.WithAttributes(
		attribute.String("storage.file", s.path),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Reload"))
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	loaded := 0
	defer func() { s.observe(ctx, "reload", start, loaded, err) }()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		l.DebugContext(ctx, "Storage file does not exist yet", slog.String("path", s.path))
		span.SetStatus(codes.Ok, "no file")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	raw := make(map[string]map[string]any)
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err = dec.Decode(&raw); err != nil {
			l.ErrorContext(ctx, "Storage file is not valid JSON", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode failed")
			return fmt.Errorf("failed to decode %s: %w", s.path, err)
		}
	}

	objs, err := decodeObjects(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid object")
		return fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	s.replace(objs)
	loaded = len(objs)

	l.DebugContext(ctx, "Objects reloaded", slog.Int("count", loaded))
	span.SetStatus(codes.Ok, "reloaded")
	return nil
}

// Close has nothing to release for the file engine.
func (s *FileStorage) Close() error { return nil }
