package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-hbnb/app/db"
	"github.com/FACorreiaa/go-hbnb/config"
	"github.com/FACorreiaa/go-hbnb/internal/api/amenity"
	"github.com/FACorreiaa/go-hbnb/internal/api/city"
	"github.com/FACorreiaa/go-hbnb/internal/api/index"
	"github.com/FACorreiaa/go-hbnb/internal/api/place"
	"github.com/FACorreiaa/go-hbnb/internal/api/review"
	"github.com/FACorreiaa/go-hbnb/internal/api/state"
	"github.com/FACorreiaa/go-hbnb/internal/api/user"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
	"github.com/FACorreiaa/go-hbnb/internal/web"
)

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Storage storage.Engine
	Pool    *pgxpool.Pool

	IndexHandler   *index.HandlerImpl
	StateHandler   *state.HandlerImpl
	CityHandler    *city.HandlerImpl
	AmenityHandler *amenity.HandlerImpl
	UserHandler    *user.HandlerImpl
	PlaceHandler   *place.HandlerImpl
	ReviewHandler  *review.HandlerImpl
	WebHandler     *web.Handler
}

// NewContainer opens the configured storage engine, loads its objects and
// wires the services and handlers on top of it.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	store, pool, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Reload(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load objects: %w", err)
	}
	c := New(cfg, store, logger)
	c.Pool = pool
	return c, nil
}

// New wires services and handlers around an already opened engine.
func New(cfg *config.Config, store storage.Engine, logger *slog.Logger) *Container {
	userService := user.NewUserService(store, logger)
	return &Container{
		Config:         cfg,
		Logger:         logger,
		Storage:        store,
		IndexHandler:   index.NewHandler(index.NewServiceImpl(store, cfg.Server.StatsCacheTTL, logger), logger),
		StateHandler:   state.NewHandler(state.NewServiceImpl(store, logger), logger),
		CityHandler:    city.NewHandler(city.NewServiceImpl(store, logger), logger),
		AmenityHandler: amenity.NewHandler(amenity.NewServiceImpl(store, logger), logger),
		UserHandler:    user.NewHandler(userService, logger),
		PlaceHandler:   place.NewHandler(place.NewServiceImpl(store, logger), logger),
		ReviewHandler:  review.NewHandler(review.NewServiceImpl(store, logger), logger),
		WebHandler:     web.NewHandler(store, logger),
	}
}

// OpenStorage builds the engine selected by storage.type. The pool is only
// returned for the db engine.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Engine, *pgxpool.Pool, error) {
	switch cfg.Storage.Type {
	case config.StorageDB:
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			return nil, nil, err
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.Any("error", err))
			return nil, nil, err
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			return nil, nil, err
		}
		if !database.WaitForDB(ctx, pool, logger) {
			pool.Close()
			return nil, nil, fmt.Errorf("database not ready")
		}
		return storage.NewPostgresStorage(pool, logger), pool, nil
	default:
		path := cfg.Storage.FilePath
		if path == "" {
			path = storage.DefaultFilePath
		}
		return storage.NewFileStorage(path, logger), nil, nil
	}
}

// Close releases all resources held by the container
func (c *Container) Close() error {
	if c.Storage != nil {
		return c.Storage.Close()
	}
	return nil
}
