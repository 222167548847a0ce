package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	selectObjectsQuery = `SELECT key, data FROM hbnb_objects`
	upsertObjectQuery  = `INSERT INTO hbnb_objects (key, class, id, data, updated_at) VALUES ($1, $2, $3, $4, now()) ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	deleteObjectQuery  = `DELETE FROM hbnb_objects WHERE key = $1`
)

// Pool is the subset of *pgxpool.Pool used by PostgresStorage.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

var _ Engine = (*PostgresStorage)(nil)

// PostgresStorage keeps the same object map as FileStorage and persists it
// to the hbnb_objects table, one JSONB document per object.
type PostgresStorage struct {
	*memStore
	pool Pool
}

func NewPostgresStorage(pool Pool, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{
		memStore: newMemStore("db", logger.With(slog.String("engine", "db"))),
		pool:     pool,
	}
}

// Save upserts every object and removes deleted ones in a single transaction.
func (s *PostgresStorage) Save(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("PostgresStorage").Start(ctx, "Save", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "hbnb_objects"),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Save"))
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	objs, deleted := s.snapshot()
	defer func() { s.observe(ctx, "save", start, len(objs), err) }()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	keys := make([]string, 0, len(objs))
	for k := range objs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		data := objs[key]
		doc, err := json.Marshal(data)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		if _, err = tx.Exec(ctx, upsertObjectQuery, key, data["__class__"], data["id"], doc); err != nil {
			l.ErrorContext(ctx, "Failed to upsert object", slog.String("key", key), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB upsert failed")
			return fmt.Errorf("failed to upsert %s: %w", key, err)
		}
	}

	sort.Strings(deleted)
	for _, key := range deleted {
		if _, err = tx.Exec(ctx, deleteObjectQuery, key); err != nil {
			l.ErrorContext(ctx, "Failed to delete object", slog.String("key", key), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB delete failed")
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.forget(deleted)
	l.DebugContext(ctx, "Objects saved", slog.Int("count", len(objs)), slog.Int("deleted", len(deleted)))
	span.SetStatus(codes.Ok, "saved")
	return nil
}

// Reload replaces the in-memory objects with the rows of hbnb_objects.
func (s *PostgresStorage) Reload(ctx context.Context) (err error) {
	ctx, span := otel.Tracer("PostgresStorage").Start(ctx, "Reload", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "hbnb_objects"),
	))
	defer span.End()
	start := time.Now()

	l := s.logger.With(slog.String("method", "Reload"))
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	loaded := 0
	defer func() { s.observe(ctx, "reload", start, loaded, err) }()

	rows, err := s.pool.Query(ctx, selectObjectsQuery)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query objects", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return fmt.Errorf("database error fetching objects: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]map[string]any)
	for rows.Next() {
		var key string
		var doc []byte
		if err = rows.Scan(&key, &doc); err != nil {
			span.RecordError(err)
			return fmt.Errorf("database error scanning object: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(doc))
		dec.UseNumber()
		data := make(map[string]any)
		if err = dec.Decode(&data); err != nil {
			span.RecordError(err)
			return fmt.Errorf("object %s holds invalid JSON: %w", key, err)
		}
		raw[key] = data
	}
	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("database error reading objects: %w", err)
	}

	objs, err := decodeObjects(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid object")
		return err
	}
	s.replace(objs)
	loaded = len(objs)

	l.DebugContext(ctx, "Objects reloaded", slog.Int("count", loaded))
	span.SetStatus(codes.Ok, "reloaded")
	return nil
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
