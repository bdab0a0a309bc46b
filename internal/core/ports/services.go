package ports

import (
	"context"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// RoutePresenter receives every route a planner produces.
type RoutePresenter interface {
	Present(ctx context.Context, route domain.Route) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRoute(ctx context.Context, deviceID string, route *domain.Route) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// LocationSubscriber delivers device location updates from a message broker.
type LocationSubscriber interface {
	SubscribeLocations(ctx context.Context, handler func(ctx context.Context, u *domain.LocationUpdate) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
