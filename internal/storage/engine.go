package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-hbnb/app/observability/metrics"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var ErrNotFound = errors.New("no instance found")

// Engine is the persistence contract shared by the console and the API.
// Objects handed out by All, Get and Modify are copies; changes must go
// through Modify or Update to be seen by the engine.
type Engine interface {
	// All returns every object, or only those of class when it is not empty.
	All(ctx context.Context, class string) map[string]models.Model
	// New registers obj. The engine takes ownership of it.
	New(ctx context.Context, obj models.Model)
	Get(ctx context.Context, class, id string) (models.Model, error)
	Count(ctx context.Context, class string) int
	Delete(ctx context.Context, obj models.Model)
	// Update sets one attribute of the object stored under key and refreshes updated_at.
	Update(ctx context.Context, key, attr string, value any) error
	// Modify runs fn against the stored object and refreshes updated_at.
	Modify(ctx context.Context, class, id string, fn func(models.Model) error) (models.Model, error)
	Save(ctx context.Context) error
	Reload(ctx context.Context) error
	Close() error
}

// memStore is the in-memory object map both engines persist.
type memStore struct {
	// saveMu serializes persistence so snapshots reach the backend in the
	// order they were taken.
	saveMu sync.Mutex

	mu      sync.RWMutex
	objects map[string]models.Model
	deleted map[string]struct{}

	engine string
	logger *slog.Logger
}

func newMemStore(engine string, logger *slog.Logger) *memStore {
	return &memStore{
		objects: make(map[string]models.Model),
		deleted: make(map[string]struct{}),
		engine:  engine,
		logger:  logger,
	}
}

func (s *memStore) All(ctx context.Context, class string) map[string]models.Model {
	s.count(ctx, "all")
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Model, len(s.objects))
	for k, obj := range s.objects {
		if class == "" || obj.ClassName() == class {
			out[k] = models.Clone(obj)
		}
	}
	return out
}

func (s *memStore) New(ctx context.Context, obj models.Model) {
	s.count(ctx, "new")
	key := models.Key(obj)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = obj
	delete(s.deleted, key)
	s.logger.DebugContext(ctx, "Object registered", slog.String("key", key))
}

func (s *memStore) Get(ctx context.Context, class, id string) (models.Model, error) {
	s.count(ctx, "get")
	key := models.KeyFor(class, id)
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return models.Clone(obj), nil
}

func (s *memStore) Count(ctx context.Context, class string) int {
	s.count(ctx, "count")
	s.mu.RLock()
	defer s.mu.RUnlock()

	if class == "" {
		return len(s.objects)
	}
	n := 0
	for _, obj := range s.objects {
		if obj.ClassName() == class {
			n++
		}
	}
	return n
}

func (s *memStore) Delete(ctx context.Context, obj models.Model) {
	if obj == nil {
		return
	}
	s.count(ctx, "delete")
	key := models.Key(obj)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; ok {
		delete(s.objects, key)
		s.deleted[key] = struct{}{}
		s.logger.DebugContext(ctx, "Object deleted", slog.String("key", key))
	}
}

func (s *memStore) Update(ctx context.Context, key, attr string, value any) error {
	s.count(ctx, "update")
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err := models.SetAttr(obj, attr, value); err != nil {
		return fmt.Errorf("failed to set %s on %s: %w", attr, key, err)
	}
	models.Touch(obj)
	return nil
}

func (s *memStore) Modify(ctx context.Context, class, id string, fn func(models.Model) error) (models.Model, error) {
	s.count(ctx, "modify")
	key := models.KeyFor(class, id)
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	// Work on a copy so a failing fn leaves the stored object untouched.
	work := models.Clone(obj)
	if err := fn(work); err != nil {
		return nil, err
	}
	models.Touch(work)
	s.objects[key] = work
	return models.Clone(work), nil
}

// snapshot returns the serialized form of every object and the keys
// deleted since the last successful save.
func (s *memStore) snapshot() (map[string]map[string]any, []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objs := make(map[string]map[string]any, len(s.objects))
	for k, obj := range s.objects {
		objs[k] = models.ToMap(obj)
	}
	deleted := make([]string, 0, len(s.deleted))
	for k := range s.deleted {
		deleted = append(deleted, k)
	}
	return objs, deleted
}

// replace swaps the whole object map, as done by Reload.
func (s *memStore) replace(objs map[string]models.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = objs
	s.deleted = make(map[string]struct{})
}

func (s *memStore) forget(deleted []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range deleted {
		if _, back := s.objects[k]; !back {
			delete(s.deleted, k)
		}
	}
}

func (s *memStore) attrs(op string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("engine", s.engine),
		attribute.String("operation", op),
	)
}

func (s *memStore) count(ctx context.Context, op string) {
	metrics.Get().StorageOperationsTotal.Add(ctx, 1, s.attrs(op))
}

// observe records the outcome of a persistence operation.
func (s *memStore) observe(ctx context.Context, op string, start time.Time, objects int, err error) {
	m := metrics.Get()
	m.StorageOperationsTotal.Add(ctx, 1, s.attrs(op))
	m.StorageOperationDurationSeconds.Record(ctx, time.Since(start).Seconds(), s.attrs(op))
	if err != nil {
		m.StorageErrorsTotal.Add(ctx, 1, s.attrs(op))
		return
	}
	m.StorageObjects.Record(ctx, int64(objects), metric.WithAttributes(attribute.String("engine", s.engine)))
}

// decodeObjects rebuilds models from their serialized form.
func decodeObjects(raw map[string]map[string]any) (map[string]models.Model, error) {
	objs := make(map[string]models.Model, len(raw))
	for key, data := range raw {
		obj, err := models.FromMap(data)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", key, err)
		}
		objs[key] = obj
	}
	return objs, nil
}
