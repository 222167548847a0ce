package city

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetStateCities(ctx context.Context, stateID string) ([]*models.City, error)
	GetCity(ctx context.Context, id string) (*models.City, error)
	CreateCity(ctx context.Context, stateID string, body map[string]any) (*models.City, error)
	UpdateCity(ctx context.Context, id string, body map[string]any) (*models.City, error)
	DeleteCity(ctx context.Context, id string) error
}

// immutable are the keys a PUT never changes, on top of id and timestamps.
var immutable = []string{"state_id"}

type ServiceImpl struct {
	logger *slog.Logger
	store  storage.Engine
	repo   *api.Repository[*models.City]
}

func NewServiceImpl(store storage.Engine, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		store:  store,
		repo:   api.NewRepository[*models.City](store, models.ClassCity, logger),
	}
}

// GetStateCities returns the cities of a state, or ErrNotFound when the state does not exist.
func (s *ServiceImpl) GetStateCities(ctx context.Context, stateID string) ([]*models.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetStateCities", trace.WithAttributes(
		attribute.String("state.id", stateID),
	))
	defer span.End()

	if _, err := s.store.Get(ctx, models.ClassState, stateID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "State not found")
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	cities := models.CitiesOf(s.store.All(ctx, models.ClassCity), stateID)
	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "Cities retrieved")
	return cities, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, id string) (*models.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity", trace.WithAttributes(
		attribute.String("city.id", id),
	))
	defer span.End()

	c, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "City not found")
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	span.SetStatus(codes.Ok, "City retrieved")
	return c, nil
}

func (s *ServiceImpl) CreateCity(ctx context.Context, stateID string, body map[string]any) (*models.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCity", trace.WithAttributes(
		attribute.String("state.id", stateID),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateCity"), slog.String("stateID", stateID))

	if _, err := s.store.Get(ctx, models.ClassState, stateID); err != nil {
		span.SetStatus(codes.Error, "State not found")
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	if err := api.RequireObject(body); err != nil {
		span.SetStatus(codes.Error, "Empty body")
		return nil, err
	}
	if err := api.RequireFields(body, "name"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	c := models.NewCity()
	c.StateID = stateID
	c, err := s.repo.Create(ctx, c, body, immutable...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create city")
		return nil, err
	}

	l.InfoContext(ctx, "City created", slog.String("id", c.ID))
	span.SetStatus(codes.Ok, "City created")
	return c, nil
}

func (s *ServiceImpl) UpdateCity(ctx context.Context, id string, body map[string]any) (*models.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "UpdateCity", trace.WithAttributes(
		attribute.String("city.id", id),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "UpdateCity"), slog.String("id", id))

	c, err := s.repo.Update(ctx, id, body, immutable...)
	if err != nil {
		l.WarnContext(ctx, "Failed to update city", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update city")
		return nil, err
	}
	span.SetStatus(codes.Ok, "City updated")
	return c, nil
}

func (s *ServiceImpl) DeleteCity(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("CityService").Start(ctx, "DeleteCity", trace.WithAttributes(
		attribute.String("city.id", id),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete city", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete city")
		return err
	}
	span.SetStatus(codes.Ok, "City deleted")
	return nil
}
