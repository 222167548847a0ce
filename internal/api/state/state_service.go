package state

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
	GetStates(ctx context.Context) []*models.State
	GetState(ctx context.Context, id string) (*models.State, error)
	CreateState(ctx context.Context, body map[string]any) (*models.State, error)
	UpdateState(ctx context.Context, id string, body map[string]any) (*models.State, error)
	DeleteState(ctx context.Context, id string) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   *api.Repository[*models.State]
}

func NewServiceImpl(store storage.Engine, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   api.NewRepository[*models.State](store, models.ClassState, logger),
	}
}

func (s *ServiceImpl) GetStates(ctx context.Context) []*models.State {
	ctx, span := otel.Tracer("StateService").Start(ctx, "GetStates")
	defer span.End()

	states := s.repo.List(ctx)
	span.SetAttributes(attribute.Int("states.count", len(states)))
	span.SetStatus(codes.Ok, "States retrieved")
	return states
}

func (s *ServiceImpl) GetState(ctx context.Context, id string) (*models.State, error) {
	ctx, span := otel.Tracer("StateService").Start(ctx, "GetState", trace.WithAttributes(
		attribute.String("state.id", id),
	))
	defer span.End()

	st, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "State not found")
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	span.SetStatus(codes.Ok, "State retrieved")
	return st, nil
}

func (s *ServiceImpl) CreateState(ctx context.Context, body map[string]any) (*models.State, error) {
	ctx, span := otel.Tracer("StateService").Start(ctx, "CreateState")
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateState"))

	if err := api.RequireObject(body); err != nil {
		span.SetStatus(codes.Error, "Empty body")
		return nil, err
	}
	if err := api.RequireFields(body, "name"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	st, err := s.repo.Create(ctx, models.NewState(), body)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create state", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create state")
		return nil, err
	}

	l.InfoContext(ctx, "State created", slog.String("id", st.ID))
	span.SetAttributes(attribute.String("state.id", st.ID))
	span.SetStatus(codes.Ok, "State created")
	return st, nil
}

func (s *ServiceImpl) UpdateState(ctx context.Context, id string, body map[string]any) (*models.State, error) {
	ctx, span := otel.Tracer("StateService").Start(ctx, "UpdateState", trace.WithAttributes(
		attribute.String("state.id", id),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "UpdateState"), slog.String("id", id))

	st, err := s.repo.Update(ctx, id, body)
	if err != nil {
		l.WarnContext(ctx, "Failed to update state", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update state")
		return nil, err
	}

	l.InfoContext(ctx, "State updated")
	span.SetStatus(codes.Ok, "State updated")
	return st, nil
}

func (s *ServiceImpl) DeleteState(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("StateService").Start(ctx, "DeleteState", trace.WithAttributes(
		attribute.String("state.id", id),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "DeleteState"), slog.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		l.WarnContext(ctx, "Failed to delete state", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete state")
		return err
	}

	l.InfoContext(ctx, "State deleted")
	span.SetStatus(codes.Ok, "State deleted")
	return nil
}
