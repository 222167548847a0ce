package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

// Repository is the storage-backed CRUD shared by the resource services.
// Every write is persisted with a Save before returning.
type Repository[T models.Model] struct {
	class  string
	store  storage.Engine
	logger *slog.Logger
}

func NewRepository[T models.Model](store storage.Engine, class string, logger *slog.Logger) *Repository[T] {
	return &Repository[T]{
		class:  class,
		store:  store,
		logger: logger.With(slog.String("class", class)),
	}
}

// Store exposes the engine for cross-resource lookups.
func (r *Repository[T]) Store() storage.Engine { return r.store }

// List returns every object of the class ordered by creation time.
func (r *Repository[T]) List(ctx context.Context) []T {
	objs := models.Sorted(r.store.All(ctx, r.class))
	out := make([]T, 0, len(objs))
	for _, o := range objs {
		out = append(out, o.(T))
	}
	return out
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	obj, err := r.store.Get(ctx, r.class, id)
	if err != nil {
		return zero, err
	}
	return obj.(T), nil
}

// Create applies body to obj, registers it and saves. Keys in ignore are
// skipped along with id, created_at and updated_at.
func (r *Repository[T]) Create(ctx context.Context, obj T, body map[string]any, ignore ...string) (T, error) {
	var zero T
	if err := models.SetAttrs(obj, body, ignore...); err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", r.class, err)
	}
	r.store.New(ctx, obj)
	if err := r.store.Save(ctx); err != nil {
		r.store.Delete(ctx, obj)
		return zero, fmt.Errorf("failed to save new %s: %w", r.class, err)
	}
	r.logger.DebugContext(ctx, "Object created", slog.String("id", obj.Meta().ID))
	return r.Get(ctx, obj.Meta().ID)
}

// Update applies body to the stored object and saves. A missing object is
// reported before an empty body.
func (r *Repository[T]) Update(ctx context.Context, id string, body map[string]any, ignore ...string) (T, error) {
	var zero T
	if _, err := r.store.Get(ctx, r.class, id); err != nil {
		return zero, err
	}
	if err := RequireObject(body); err != nil {
		return zero, err
	}
	obj, err := r.store.Modify(ctx, r.class, id, func(m models.Model) error {
		return models.SetAttrs(m, body, ignore...)
	})
	if err != nil {
		return zero, fmt.Errorf("failed to update %s %s: %w", r.class, id, err)
	}
	if err := r.store.Save(ctx); err != nil {
		return zero, fmt.Errorf("failed to save %s %s: %w", r.class, id, err)
	}
	r.logger.DebugContext(ctx, "Object updated", slog.String("id", id))
	return obj.(T), nil
}

// Modify runs fn on the stored object and saves.
func (r *Repository[T]) Modify(ctx context.Context, id string, fn func(T) error) (T, error) {
	var zero T
	obj, err := r.store.Modify(ctx, r.class, id, func(m models.Model) error {
		return fn(m.(T))
	})
	if err != nil {
		return zero, fmt.Errorf("failed to modify %s %s: %w", r.class, id, err)
	}
	if err := r.store.Save(ctx); err != nil {
		return zero, fmt.Errorf("failed to save %s %s: %w", r.class, id, err)
	}
	return obj.(T), nil
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	obj, err := r.store.Get(ctx, r.class, id)
	if err != nil {
		return err
	}
	r.store.Delete(ctx, obj)
	if err := r.store.Save(ctx); err != nil {
		return fmt.Errorf("failed to save after deleting %s %s: %w", r.class, id, err)
	}
	r.logger.DebugContext(ctx, "Object deleted", slog.String("id", id))
	return nil
}

// Exists reports whether an object of class with id is stored.
func Exists(ctx context.Context, store storage.Engine, class, id string) bool {
	_, err := store.Get(ctx, class, id)
	return err == nil
}

// Public converts objects to their API representation.
func Public[T models.Model](objs []T) []map[string]any {
	out := make([]map[string]any, 0, len(objs))
	for _, o := range objs {
		out = append(out, models.PublicMap(o))
	}
	return out
}
