package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/metrics"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	defaultNearbyRadius = 1000.0
	maxNearbyRadius     = 50000.0
	maxNearbyResults    = 50
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidatePOI checks a point before it is stored.
func ValidatePOI(p domain.POI) error {
	if err := p.Location.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid point %q: %w", p.Title, err)
	}
	return nil
}

// PointService handles point catalogue business logic.
type PointService struct {
	points ports.PointRepository
	cache  ports.CacheService
}

// NewPointService creates a new PointService. cache may be nil.
func NewPointService(points ports.PointRepository, cache ports.CacheService) *PointService {
	return &PointService{points: points, cache: cache}
}

// List returns a page of points and the total number stored.
func (s *PointService) List(ctx context.Context, limit, offset int) ([]domain.POI, int, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.points.List(ctx, limit, offset)
}

// FindNearby returns points within radiusMeters of ref, closest first.
func (s *PointService) FindNearby(ctx context.Context, ref domain.Coordinate, radiusMeters float64, limit int) ([]domain.POI, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = defaultNearbyRadius
	}
	if radiusMeters > maxNearbyRadius {
		radiusMeters = maxNearbyRadius
	}
	if limit <= 0 || limit > maxNearbyResults {
		limit = maxNearbyResults
	}

	cacheKey := fmt.Sprintf("points:nearby:%.4f:%.4f:%.0f:%d", ref.Lat, ref.Lon, radiusMeters, limit)
	var cached []domain.POI
	if s.cacheGet(ctx, "nearby", cacheKey, &cached) {
		return cached, nil
	}

	pois, err := s.points.FindNearby(ctx, ref.Lat, ref.Lon, radiusMeters, limit)
	if err != nil {
		return nil, err
	}

	// points change rarely
	s.cacheSet(ctx, cacheKey, pois, 300)
	return pois, nil
}

// GetByID returns a single point.
func (s *PointService) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	cacheKey := "points:id:" + id
	var cached domain.POI
	if s.cacheGet(ctx, "point", cacheKey, &cached) {
		return &cached, nil
	}

	poi, err := s.points.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKey, poi, 600)
	return poi, nil
}

// Import validates every point and stores them in one batch. Nothing is
// stored if any point is invalid.
func (s *PointService) Import(ctx context.Context, pois []domain.POI) (int, error) {
	for i, p := range pois {
		if err := ValidatePOI(p); err != nil {
			return 0, fmt.Errorf("point %d: %w", i, err)
		}
	}
	if len(pois) == 0 {
		return 0, nil
	}

	if err := s.points.UpsertBatch(ctx, pois); err != nil {
		return 0, fmt.Errorf("upsert points: %w", err)
	}

	if s.cache != nil {
		for _, p := range pois {
			if p.ID != "" {
				_ = s.cache.Delete(ctx, "points:id:"+p.ID)
			}
		}
	}
	return len(pois), nil
}

func (s *PointService) cacheGet(ctx context.Context, op, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || json.Unmarshal(data, dst) != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func (s *PointService) cacheSet(ctx context.Context, key string, v any, ttlSeconds int) {
	if s.cache == nil || ttlSeconds <= 0 {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttlSeconds)
	}
}
