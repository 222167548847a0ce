package amenity

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
	GetAmenities(ctx context.Context) []*models.Amenity
	GetAmenity(ctx context.Context, id string) (*models.Amenity, error)
	CreateAmenity(ctx context.Context, body map[string]any) (*models.Amenity, error)
	UpdateAmenity(ctx context.Context, id string, body map[string]any) (*models.Amenity, error)
	DeleteAmenity(ctx context.Context, id string) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   *api.Repository[*models.Amenity]
}

func NewServiceImpl(store storage.Engine, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   api.NewRepository[*models.Amenity](store, models.ClassAmenity, logger),
	}
}

func (s *ServiceImpl) GetAmenities(ctx context.Context) []*models.Amenity {
	ctx, span := otel.Tracer("AmenityService").Start(ctx, "GetAmenities")
	defer span.End()

	amenities := s.repo.List(ctx)
	span.SetAttributes(attribute.Int("amenities.count", len(amenities)))
	span.SetStatus(codes.Ok, "Amenities retrieved")
	return amenities
}

func (s *ServiceImpl) GetAmenity(ctx context.Context, id string) (*models.Amenity, error) {
	ctx, span := otel.Tracer("AmenityService").Start(ctx, "GetAmenity", trace.WithAttributes(
		attribute.String("amenity.id", id),
	))
	defer span.End()

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Amenity not found")
		return nil, fmt.Errorf("failed to get amenity: %w", err)
	}
	span.SetStatus(codes.Ok, "Amenity retrieved")
	return a, nil
}

func (s *ServiceImpl) CreateAmenity(ctx context.Context, body map[string]any) (*models.Amenity, error) {
	ctx, span := otel.Tracer("AmenityService").Start(ctx, "CreateAmenity")
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateAmenity"))

	if err := api.RequireObject(body); err != nil {
		span.SetStatus(codes.Error, "Empty body")
		return nil, err
	}
	if err := api.RequireFields(body, "name"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	a, err := s.repo.Create(ctx, models.NewAmenity(), body)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create amenity", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create amenity")
		return nil, err
	}

	l.InfoContext(ctx, "Amenity created", slog.String("id", a.ID))
	span.SetAttributes(attribute.String("amenity.id", a.ID))
	span.SetStatus(codes.Ok, "Amenity created")
	return a, nil
}

func (s *ServiceImpl) UpdateAmenity(ctx context.Context, id string, body map[string]any) (*models.Amenity, error) {
	ctx, span := otel.Tracer("AmenityService").Start(ctx, "UpdateAmenity", trace.WithAttributes(
		attribute.String("amenity.id", id),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "UpdateAmenity"), slog.String("id", id))

	a, err := s.repo.Update(ctx, id, body)
	if err != nil {
		l.WarnContext(ctx, "Failed to update amenity", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update amenity")
		return nil, err
	}

	l.InfoContext(ctx, "Amenity updated")
	span.SetStatus(codes.Ok, "Amenity updated")
	return a, nil
}

func (s *ServiceImpl) DeleteAmenity(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("AmenityService").Start(ctx, "DeleteAmenity", trace.WithAttributes(
		attribute.String("amenity.id", id),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "DeleteAmenity"), slog.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		l.WarnContext(ctx, "Failed to delete amenity", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete amenity")
		return err
	}

	l.InfoContext(ctx, "Amenity deleted")
	span.SetStatus(codes.Ok, "Amenity deleted")
	return nil
}
