package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// RoutePlanningInput is the input for RoutePlanningWorkflow.
type RoutePlanningInput struct {
	DeviceID  string // optional; the route is published to this device
	Reference domain.Coordinate
	Strategy  domain.Strategy
}

// RoutePlanningResult is the workflow result.
type RoutePlanningResult struct {
	Route     *domain.Route
	Published bool
}

// OrderTimeout bounds one ordering attempt.
const OrderTimeout = 2 * time.Minute

// RoutePlanningWorkflow fetches the point set, orders it, and publishes the
// route to the requesting device. A failed publish is logged and reported in
// the result; the route itself is still returned.
func RoutePlanningWorkflow(ctx workflow.Context, input RoutePlanningInput) (*RoutePlanningResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting route planning workflow", "strategy", input.Strategy, "device", input.DeviceID)

	fetchCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
	var points []domain.POI
	if err := workflow.ExecuteActivity(fetchCtx, FetchPointsActivity).Get(ctx, &points); err != nil {
		return nil, err
	}

	orderCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: OrderTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	})
	var route domain.Route
	if err := workflow.ExecuteActivity(orderCtx, OrderPointsActivity, points, input.Reference, input.Strategy).Get(ctx, &route); err != nil {
		return nil, err
	}

	result := &RoutePlanningResult{Route: &route}
	if input.DeviceID == "" {
		return result, nil
	}

	publishCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
	if err := workflow.ExecuteActivity(publishCtx, PublishRouteActivity, input.DeviceID, &route).Get(ctx, nil); err != nil {
		logger.Warn("route publish failed", "device", input.DeviceID, "error", err)
		return result, nil
	}
	result.Published = true

	logger.Info("Route planned", "points", len(route.Points), "length_meters", route.Length, "fell_back", route.FellBack)
	return result, nil
}
