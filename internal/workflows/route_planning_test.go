package workflows_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/seed"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/workflows"
)

type recordingPublisher struct {
	mu     sync.Mutex
	err    error
	routes map[string]*domain.Route
}

func (p *recordingPublisher) PublishRoute(ctx context.Context, deviceID string, route *domain.Route) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.routes == nil {
		p.routes = make(map[string]*domain.Route)
	}
	p.routes[deviceID] = route
	return nil
}

func (p *recordingPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

func newActivities(opts usecases.RoutingOptions, pub *recordingPublisher) *workflows.RouteActivities {
	store := seed.NewStore(seed.WinnipegPOIs())
	acts := &workflows.RouteActivities{
		Points: store,
		Routes: usecases.NewRouteService(store, nil, nil, opts),
	}
	if pub != nil {
		acts.Publisher = pub
	}
	return acts
}

func runWorkflow(t *testing.T, acts *workflows.RouteActivities, input workflows.RoutePlanningInput) (*workflows.RoutePlanningResult, error) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.RoutePlanningWorkflow)
	env.RegisterActivity(acts)

	env.ExecuteWorkflow(workflows.RoutePlanningWorkflow, input)
	require.True(t, env.IsWorkflowCompleted())
	if err := env.GetWorkflowError(); err != nil {
		return nil, err
	}
	var res workflows.RoutePlanningResult
	require.NoError(t, env.GetWorkflowResult(&res))
	return &res, nil
}

func TestRoutePlanningWorkflow_Exact(t *testing.T) {
	pub := &recordingPublisher{}
	res, err := runWorkflow(t, newActivities(usecases.DefaultRoutingOptions(), pub), workflows.RoutePlanningInput{
		DeviceID:  "phone-1",
		Reference: seed.DefaultReference,
		Strategy:  domain.StrategyExact,
	})
	require.NoError(t, err)
	require.True(t, res.Published)
	require.Len(t, res.Route.Points, 5)
	require.Equal(t, "Darlene's Dumplings", res.Route.Points[0].Title)
	require.InDelta(t, 34893.2, res.Route.Length, 1)
	require.Contains(t, pub.routes, "phone-1")
}

func TestRoutePlanningWorkflow_NoDevice(t *testing.T) {
	pub := &recordingPublisher{}
	res, err := runWorkflow(t, newActivities(usecases.DefaultRoutingOptions(), pub), workflows.RoutePlanningInput{
		Reference: seed.DefaultReference,
		Strategy:  domain.StrategyProximity,
	})
	require.NoError(t, err)
	require.False(t, res.Published)
	require.Equal(t, "Angel's Avocados", res.Route.Points[0].Title)
	require.Empty(t, pub.routes)
}

func TestRoutePlanningWorkflow_PublishFailureKeepsRoute(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	res, err := runWorkflow(t, newActivities(usecases.DefaultRoutingOptions(), pub), workflows.RoutePlanningInput{
		DeviceID:  "phone-1",
		Reference: seed.DefaultReference,
		Strategy:  domain.StrategyNearest,
	})
	require.NoError(t, err)
	require.False(t, res.Published)
	require.Len(t, res.Route.Points, 5)
}

func TestRoutePlanningWorkflow_TooManyPointsIsNotRetried(t *testing.T) {
	opts := usecases.DefaultRoutingOptions()
	opts.MaxExactPoints = 3
	opts.ExactFallback = usecases.FallbackReject

	_, err := runWorkflow(t, newActivities(opts, nil), workflows.RoutePlanningInput{
		Reference: seed.DefaultReference,
		Strategy:  domain.StrategyExact,
	})
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, workflows.ErrTypeTooManyPoints, appErr.Type())
	require.True(t, appErr.NonRetryable())
}

func TestRoutePlanningWorkflow_InvalidReference(t *testing.T) {
	_, err := runWorkflow(t, newActivities(usecases.DefaultRoutingOptions(), nil), workflows.RoutePlanningInput{
		Reference: domain.Coordinate{Lat: 120, Lon: 0},
		Strategy:  domain.StrategyProximity,
	})

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, workflows.ErrTypeInvalidRequest, appErr.Type())
}
