package ports

import (
	"context"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// PointRepository persists points of interest.
type PointRepository interface {
	Upsert(ctx context.Context, poi *domain.POI) error
	UpsertBatch(ctx context.Context, pois []domain.POI) error
	GetByID(ctx context.Context, id string) (*domain.POI, error)
	List(ctx context.Context, limit, offset int) ([]domain.POI, int, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.POI, error)
}

// PointProvider supplies the set of points a route is planned over.
// Implementations may block; ctx bounds the wait.
type PointProvider interface {
	FetchPoints(ctx context.Context) ([]domain.POI, error)
}
