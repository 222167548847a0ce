package index

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

const statsCacheKey = "stats"

// StatsResources maps the keys of the /stats response to their class.
var StatsResources = map[string]string{
	"amenities": models.ClassAmenity,
	"cities":    models.ClassCity,
	"places":    models.ClassPlace,
	"reviews":   models.ClassReview,
	"states":    models.ClassState,
	"users":     models.ClassUser,
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Stats(ctx context.Context) map[string]int
	// InvalidateStats drops the cached counts.
	InvalidateStats()
}

type ServiceImpl struct {
	logger *slog.Logger
	store  storage.Engine
	cache  *cache.Cache
	ttl    time.Duration

	// generation is bumped by every invalidation; counts taken under an
	// older generation are not cached.
	mu         sync.Mutex
	generation uint64
}

// NewServiceImpl caches the stats for ttl. A zero ttl disables caching.
func NewServiceImpl(store storage.Engine, ttl time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		store:  store,
		cache:  cache.New(ttl, 2*ttl+time.Minute),
		ttl:    ttl,
	}
}

func (s *ServiceImpl) Stats(ctx context.Context) map[string]int {
	ctx, span := otel.Tracer("IndexService").Start(ctx, "Stats")
	defer span.End()
	l := s.logger.With(slog.String("method", "Stats"))

	if cached, found := s.cache.Get(statsCacheKey); found {
		l.DebugContext(ctx, "Stats served from cache")
		span.SetStatus(codes.Ok, "Cache hit")
		return maps.Clone(cached.(map[string]int))
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	stats := make(map[string]int, len(StatsResources))
	for name, class := range StatsResources {
		stats[name] = s.store.Count(ctx, class)
	}
	if s.ttl > 0 {
		s.mu.Lock()
		if s.generation == generation {
			s.cache.Set(statsCacheKey, maps.Clone(stats), cache.DefaultExpiration)
		}
		s.mu.Unlock()
	}

	l.DebugContext(ctx, "Stats computed", slog.Any("stats", stats))
	span.SetStatus(codes.Ok, "Stats computed")
	return stats
}

func (s *ServiceImpl) InvalidateStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cache.Delete(statsCacheKey)
}
