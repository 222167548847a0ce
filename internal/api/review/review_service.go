package review

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
	GetPlaceReviews(ctx context.Context, placeID string) ([]*models.Review, error)
	GetReview(ctx context.Context, id string) (*models.Review, error)
	CreateReview(ctx context.Context, placeID string, body map[string]any) (*models.Review, error)
	UpdateReview(ctx context.Context, id string, body map[string]any) (*models.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

var immutable = []string{"user_id", "place_id"}

type ServiceImpl struct {
	logger *slog.Logger
	store  storage.Engine
	repo   *api.Repository[*models.Review]
}

func NewServiceImpl(store storage.Engine, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		store:  store,
		repo:   api.NewRepository[*models.Review](store, models.ClassReview, logger),
	}
}

func (s *ServiceImpl) GetPlaceReviews(ctx context.Context, placeID string) ([]*models.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "GetPlaceReviews", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()

	if _, err := s.store.Get(ctx, models.ClassPlace, placeID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Place not found")
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	reviews := models.ReviewsOf(s.store.All(ctx, models.ClassReview), placeID)
	span.SetStatus(codes.Ok, "Reviews retrieved")
	return reviews, nil
}

func (s *ServiceImpl) GetReview(ctx context.Context, id string) (*models.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "GetReview", trace.WithAttributes(
		attribute.String("review.id", id),
	))
	defer span.End()

	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Review not found")
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	span.SetStatus(codes.Ok, "Review retrieved")
	return rv, nil
}

// CreateReview adds a review to a place. The author is checked before the
// text is required.
func (s *ServiceImpl) CreateReview(ctx context.Context, placeID string, body map[string]any) (*models.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "CreateReview", trace.WithAttributes(
		attribute.String("place.id", placeID),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateReview"), slog.String("placeID", placeID))

	if _, err := s.store.Get(ctx, models.ClassPlace, placeID); err != nil {
		span.SetStatus(codes.Error, "Place not found")
		return nil, fmt.Errorf("failed to get place: %w", err)
	}
	if err := api.RequireObject(body); err != nil {
		span.SetStatus(codes.Error, "Empty body")
		return nil, err
	}
	if err := api.RequireFields(body, "user_id"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	userID := api.StringField(body, "user_id")
	if _, err := s.store.Get(ctx, models.ClassUser, userID); err != nil {
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := api.RequireFields(body, "text"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	rv := models.NewReview()
	rv.PlaceID = placeID
	rv.UserID = userID
	rv, err := s.repo.Create(ctx, rv, body, immutable...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create review", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create review")
		return nil, err
	}

	l.InfoContext(ctx, "Review created", slog.String("id", rv.ID))
	span.SetStatus(codes.Ok, "Review created")
	return rv, nil
}

func (s *ServiceImpl) UpdateReview(ctx context.Context, id string, body map[string]any) (*models.Review, error) {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "UpdateReview", trace.WithAttributes(
		attribute.String("review.id", id),
	))
	defer span.End()

	rv, err := s.repo.Update(ctx, id, body, immutable...)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update review", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update review")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Review updated")
	return rv, nil
}

func (s *ServiceImpl) DeleteReview(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("ReviewService").Start(ctx, "DeleteReview", trace.WithAttributes(
		attribute.String("review.id", id),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete review")
		return err
	}
	span.SetStatus(codes.Ok, "Review deleted")
	return nil
}
