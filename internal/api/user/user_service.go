package user

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

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for user operations.
type UserService interface {
	GetUsers(ctx context.Context) []*models.User
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, body map[string]any) (*models.User, error)
	UpdateUser(ctx context.Context, id string, body map[string]any) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// immutable are the keys a PUT never changes. The email identifies the user.
var immutable = []string{"email"}

// UserServiceImpl provides the implementation for UserService.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   *api.Repository[*models.User]
}

// NewUserService creates a new user service instance.
func NewUserService(store storage.Engine, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   api.NewRepository[*models.User](store, models.ClassUser, logger),
	}
}

// GetUsers returns every user ordered by creation time.
func (s *UserServiceImpl) GetUsers(ctx context.Context) []*models.User {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUsers")
	defer span.End()

	users := s.repo.List(ctx)
	span.SetAttributes(attribute.Int("users.count", len(users)))
	span.SetStatus(codes.Ok, "Users retrieved")
	return users
}

// GetUser retrieves a single user.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetUser", trace.WithAttributes(
		attribute.String("user.id", id),
	))
	defer span.End()

	u, err := s.repo.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User not found")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	span.SetStatus(codes.Ok, "User retrieved")
	return u, nil
}

// CreateUser registers a user. email and password are required; the
// password is stored as a bcrypt hash.
func (s *UserServiceImpl) CreateUser(ctx context.Context, body map[string]any) (*models.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CreateUser")
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateUser"))

	if err := api.RequireObject(body); err != nil {
		span.SetStatus(codes.Error, "Empty body")
		return nil, err
	}
	if err := api.RequireFields(body, "email", "password"); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	u, err := s.repo.Create(ctx, models.NewUser(), body)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create user")
		return nil, err
	}

	l.InfoContext(ctx, "User created", slog.String("id", u.ID))
	span.SetAttributes(attribute.String("user.id", u.ID))
	span.SetStatus(codes.Ok, "User created")
	return u, nil
}

// UpdateUser changes every provided attribute except the email.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, body map[string]any) (*models.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "UpdateUser", trace.WithAttributes(
		attribute.String("user.id", id),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "UpdateUser"), slog.String("id", id))

	u, err := s.repo.Update(ctx, id, body, immutable...)
	if err != nil {
		l.WarnContext(ctx, "Failed to update user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update user")
		return nil, err
	}

	l.InfoContext(ctx, "User updated")
	span.SetStatus(codes.Ok, "User updated")
	return u, nil
}

// DeleteUser removes a user. Places and reviews referencing it are kept.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("UserService").Start(ctx, "DeleteUser", trace.WithAttributes(
		attribute.String("user.id", id),
	))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Failed to delete user", slog.String("id", id), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete user")
		return err
	}
	span.SetStatus(codes.Ok, "User deleted")
	return nil
}
