package seed

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/geospatial"
)

// Store is an in-memory PointRepository and PointProvider.
type Store struct {
	mu     sync.RWMutex
	points []domain.POI // insertion order
	byID   map[string]int
}

// NewStore returns a store holding points. IDs are assigned where missing.
func NewStore(points []domain.POI) *Store {
	s := &Store{byID: make(map[string]int)}
	_ = s.UpsertBatch(context.Background(), points)
	return s
}

// Upsert inserts poi or replaces the point with the same ID.
func (s *Store) Upsert(_ context.Context, poi *domain.POI) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(poi)
	return nil
}

// UpsertBatch upserts every point under a single lock.
func (s *Store) UpsertBatch(_ context.Context, pois []domain.POI) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range pois {
		p := pois[i]
		s.upsertLocked(&p)
	}
	return nil
}

func (s *Store) upsertLocked(poi *domain.POI) {
	if poi.ID == "" {
		poi.ID = uuid.NewString()
	}
	if poi.CreatedAt.IsZero() {
		poi.CreatedAt = time.Now().UTC()
	}
	stored := *poi
	stored.Distance = nil

	if i, ok := s.byID[poi.ID]; ok {
		stored.CreatedAt = s.points[i].CreatedAt
		s.points[i] = stored
		return
	}
	s.byID[poi.ID] = len(s.points)
	s.points = append(s.points, stored)
}

// GetByID returns domain.ErrPointNotFound for unknown ids.
func (s *Store) GetByID(_ context.Context, id string) (*domain.POI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrPointNotFound
	}
	p := s.points[i]
	return &p, nil
}

// List returns a page of points in insertion order and the total count.
func (s *Store) List(_ context.Context, limit, offset int) ([]domain.POI, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := len(s.points)
	if limit <= 0 {
		limit = total
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []domain.POI{}, total, nil
	}
	end := min(offset+limit, total)
	return slices.Clone(s.points[offset:end]), total, nil
}

// FindNearby prefilters with a bounding box, then keeps points within
// radiusMeters ordered by distance.
func (s *Store) FindNearby(_ context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.POI, error) {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)
	box := domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}

	s.mu.RLock()
	var out []domain.POI
	for _, p := range s.points {
		if !box.Contains(p.Location) {
			continue
		}
		d := geospatial.Haversine(lat, lon, p.Location.Lat, p.Location.Lon)
		if d > radiusMeters {
			continue
		}
		p.Distance = &d
		out = append(out, p)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b domain.POI) int {
		return cmp.Compare(*a.Distance, *b.Distance)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FetchPoints returns every stored point in insertion order.
func (s *Store) FetchPoints(ctx context.Context) ([]domain.POI, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.points), nil
}
