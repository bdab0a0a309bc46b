package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
)

// Activity names, as registered from RouteActivities.
const (
	FetchPointsActivity  = "FetchPoints"
	OrderPointsActivity  = "OrderPoints"
	PublishRouteActivity = "PublishRoute"
)

// Application error types that are never retried.
const (
	ErrTypeTooManyPoints   = "TooManyPoints"
	ErrTypeInvalidRequest  = "InvalidRequest"
	ErrTypeUnknownStrategy = "UnknownStrategy"
)

// RouteActivities holds the activity implementations for RoutePlanningWorkflow.
type RouteActivities struct {
	Points    ports.PointProvider
	Routes    *usecases.RouteService
	Publisher ports.EventPublisher // optional
}

// FetchPoints loads the current point set.
func (a *RouteActivities) FetchPoints(ctx context.Context) ([]domain.POI, error) {
	points, err := a.Points.FetchPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	activity.GetLogger(ctx).Info("fetched points", "count", len(points))
	return points, nil
}

// OrderPoints orders points from ref. Request errors are marked
// non-retryable; a second attempt would fail the same way.
func (a *RouteActivities) OrderPoints(ctx context.Context, points []domain.POI, ref domain.Coordinate, strategy domain.Strategy) (*domain.Route, error) {
	route, err := a.Routes.Order(ctx, points, ref, strategy)
	if err != nil {
		return nil, nonRetryable(err)
	}
	return route, nil
}

// PublishRoute sends a finished route to one device.
func (a *RouteActivities) PublishRoute(ctx context.Context, deviceID string, route *domain.Route) error {
	if a.Publisher == nil {
		activity.GetLogger(ctx).Info("no publisher, route not sent", "device", deviceID)
		return nil
	}
	return a.Publisher.PublishRoute(ctx, deviceID, route)
}

func nonRetryable(err error) error {
	switch {
	case errors.Is(err, domain.ErrTooManyPoints):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeTooManyPoints, err)
	case errors.Is(err, domain.ErrUnknownStrategy):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeUnknownStrategy, err)
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidRequest, err)
	}
	return err
}
