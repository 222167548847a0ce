package place

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
	GetCityPlaces(ctx context.Context, cityID string) ([]*models.Place, error)
	GetPlace(ctx context.Context, id string) (*models.Place, error)
	CreatePlace(ctx context.Context, cityID string, body map[string]any) (*models.Place, error)
	UpdatePlace(ctx context.Context, id string, body map[string]any) (*models.Place, error)
	DeletePlace(ctx context.Context, id string) error
	SearchPlaces(ctx context.Context, filter SearchFilter) []*models.Place

	GetPlaceAmenities(ctx context.Context, placeID string) ([]*models.Amenity, error)
	// LinkAmenity reports false when the amenity was already linked.
	LinkAmenity(ctx context.Context, placeID, amenityID string) (*models.Amenity, bool, error)
	UnlinkAmenity(ctx context.Context, placeID, amenityID string) error
}

// immutable are the keys a PUT never changes, on top of id and timestamps.
var immutable = []string{"user_id", "city_id"}

type ServiceImpl struct {
	logger *slog.Logger
	store  storage.Engine
	repo   *api.Repository[*models.Place]
}

func NewServiceImpl(store storage.Engine, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		store:  store,
		repo:   api.NewRepository[*models.Place](store, models.ClassPlace, logger),
	}
}

func (s *ServiceImpl) GetCityPlaces(ctx context.Context, cityID string) ([]*models.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetCityPlaces", trace.WithAttributes(
		attribute.String("city.id", cityID),
	))
	defer span.End()

	if _, err := s.store.Get(ctx, models.ClassCity, cityID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "City not found")
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	places := models.PlacesOf(s.store.All(ctx, models.ClassPlace), cityID)
	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "Places retrieved")
	return places, nil
}

func (s *ServiceImpl) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetPlace", trace.WithAttributes(
		attribute.String("place.id", id),
	))
	defer span.End()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place not found")
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	span.SetStatus(codes.Ok, "Place retrieved")
	return p, nil
}

// CreatePlace adds a place to a city. user_id and name are required and the
// user must exist.
func (s *ServiceImpl) CreatePlace(ctx context.Context, cityID string, body map[string]any) (*models.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "CreatePlace", trace.WithAttributes(
		attribute.String("city.id", cityID),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreatePlace"), slog.String("cityID", cityID))

	if _, err := s.store.Get(ctx, models.ClassCity, cityID); err != nil {
		span.SetStatus(codes.Error, "City not found")
		return nil, fmt.Errorf("failed to get city: %w", err)
	}
	if err := api.RequireObject(body); err != nil {
		span.SetStatus(codes.Error, "Empty body")
		return nil, err
	}
	if err := api.RequireFields(body, "user_id", "name"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	userID := api.StringField(body, "user_id")
	if _, err := s.store.Get(ctx, models.ClassUser, userID); err != nil {
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	p := models.NewPlace()
	p.CityID = cityID
	p.UserID = userID
	p, err := s.repo.Create(ctx, p, body, immutable...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create place", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create place")
		return nil, err
	}

	l.InfoContext(ctx, "Place created", slog.String("id", p.ID))
	span.SetAttributes(attribute.String("place.id", p.ID))
	span.SetStatus(codes.Ok, "Place created")
	return p, nil
}

func (s *ServiceImpl) UpdatePlace(ctx context.Context, id string, body map[string]any) (*models.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "UpdatePlace", trace.WithAttributes(
		attribute.String("place.id", id),
	))
	defer span.End()

	p, err := s.repo.Update(ctx, id, body, immutable...)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update place", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update place")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Place updated")
	return p, nil
}

func (s *ServiceImpl) DeletePlace(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "DeletePlace", trace.WithAttributes(
		attribute.String("place.id", id),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete place", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete place")
		return err
	}
	span.SetStatus(codes.Ok, "Place deleted")
	return nil
}

func (s *ServiceImpl) GetPlaceAmenities(ctx context.Context, placeID string) ([]*models.Amenity, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetPlaceAmenities", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	p, err := s.repo.Get(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place not found")
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	amenities := models.AmenitiesOf(s.store.All(ctx, models.ClassAmenity), p)
	span.SetStatus(codes.Ok, "Amenities retrieved")
	return amenities, nil
}

func (s *ServiceImpl) LinkAmenity(ctx context.Context, placeID, amenityID string) (*models.Amenity, bool, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "LinkAmenity", trace.WithAttributes(
		attribute.String("place.id", placeID),
		attribute.String("amenity.id", amenityID),
	))
	defer span.End()

	a, err := s.amenity(ctx, amenityID)
	if err != nil {
		span.SetStatus(codes.Error, "Amenity not found")
		return nil, false, err
	}
	var linked bool
	if _, err := s.repo.Modify(ctx, placeID, func(p *models.Place) error {
		linked = p.LinkAmenity(amenityID)
		return nil
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to link amenity")
		return nil, false, err
	}

	s.logger.DebugContext(ctx, "Amenity linked", slog.String("placeID", placeID),
		slog.String("amenityID", amenityID), slog.Bool("new", linked))
	span.SetStatus(codes.Ok, "Amenity linked")
	return a, linked, nil
}

// UnlinkAmenity returns ErrNotFound when the amenity is not linked to the place.
func (s *ServiceImpl) UnlinkAmenity(ctx context.Context, placeID, amenityID string) error {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "UnlinkAmenity", trace.WithAttributes(
		attribute.String("place.id", placeID),
		attribute.String("amenity.id", amenityID),
	))
	defer span.End()

	if _, err := s.amenity(ctx, amenityID); err != nil {
		span.SetStatus(codes.Error, "Amenity not found")
		return err
	}
	if _, err := s.repo.Modify(ctx, placeID, func(p *models.Place) error {
		if !p.UnlinkAmenity(amenityID) {
			return fmt.Errorf("amenity %s not linked to place %s: %w", amenityID, placeID, storage.ErrNotFound)
		}
		return nil
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to unlink amenity")
		return err
	}

	span.SetStatus(codes.Ok, "Amenity unlinked")
	return nil
}

func (s *ServiceImpl) amenity(ctx context.Context, id string) (*models.Amenity, error) {
	obj, err := s.store.Get(ctx, models.ClassAmenity, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get amenity: %w", err)
	}
	return obj.(*models.Amenity), nil
}
