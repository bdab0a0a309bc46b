package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ordering"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/dispatch"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/metrics"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/telemetry"
)

// FallbackPolicy decides what an exact request over the point ceiling gets.
type FallbackPolicy string

const (
	// FallbackNearest serves the nearest-neighbour route and marks it FellBack.
	FallbackNearest FallbackPolicy = "nearest"
	// FallbackReject returns domain.ErrTooManyPoints.
	FallbackReject FallbackPolicy = "reject"
)

// RoutingOptions tunes RouteService.
type RoutingOptions struct {
	DefaultStrategy     domain.Strategy
	MaxExactPoints      int
	ExactFallback       FallbackPolicy
	CancelCheckInterval int
	CacheTTL            int // seconds; 0 disables route caching
	Timeout             time.Duration
}

// DefaultRoutingOptions mirrors the config defaults.
func DefaultRoutingOptions() RoutingOptions {
	return RoutingOptions{
		DefaultStrategy:     domain.StrategyProximity,
		MaxExactPoints:      ordering.DefaultMaxExactPoints,
		ExactFallback:       FallbackNearest,
		CancelCheckInterval: ordering.DefaultCancelCheckInterval,
		CacheTTL:            60,
	}
}

// RouteService orders points of interest relative to a reference location.
type RouteService struct {
	points    ports.PointProvider
	cache     ports.CacheService
	presenter ports.RoutePresenter
	opts      RoutingOptions
	now       func() time.Time
}

// NewRouteService creates a new RouteService. cache and presenter may be nil.
func NewRouteService(points ports.PointProvider, cache ports.CacheService, presenter ports.RoutePresenter, opts RoutingOptions) *RouteService {
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = domain.StrategyProximity
	}
	if opts.ExactFallback == "" {
		opts.ExactFallback = FallbackNearest
	}
	return &RouteService{
		points:    points,
		cache:     cache,
		presenter: presenter,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DefaultStrategy is used when a caller names none.
func (s *RouteService) DefaultStrategy() domain.Strategy { return s.opts.DefaultStrategy }

// Plan fetches the current point set and orders it from ref.
func (s *RouteService) Plan(ctx context.Context, ref domain.Coordinate, strategy domain.Strategy) (*domain.Route, error) {
	if strategy == "" {
		strategy = s.opts.DefaultStrategy
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	points, err := s.points.FetchPoints(ctx)
	if err != nil {
		metrics.RoutePlanErrors.WithLabelValues(string(strategy), "fetch").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return s.Order(ctx, points, ref, strategy)
}

// Order orders the given points from ref, presents the result and returns it.
// An empty strategy means the configured default.
func (s *RouteService) Order(ctx context.Context, points []domain.POI, ref domain.Coordinate, strategy domain.Strategy) (*domain.Route, error) {
	if strategy == "" {
		strategy = s.opts.DefaultStrategy
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	for i, p := range points {
		if err := p.Location.Validate(); err != nil {
			return nil, fmt.Errorf("point %d (%s): %w", i, p.Title, err)
		}
	}

	ctx, span := telemetry.Tracer().Start(ctx, "RouteService.Order")
	defer span.End()
	span.SetAttributes(
		telemetry.AttrStrategy.String(string(strategy)),
		telemetry.AttrPointCount.Int(len(points)),
		telemetry.AttrReference.String(ref.String()),
	)

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	log := logging.FromContext(ctx)
	cacheKey := routeCacheKey(strategy, ref, points)

	route, hit := s.cachedRoute(ctx, cacheKey)
	span.SetAttributes(telemetry.AttrCacheHit.Bool(hit))
	if !hit {
		start := time.Now()
		var err error
		route, err = s.compute(ctx, points, ref, strategy)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			metrics.RoutePlanErrors.WithLabelValues(string(strategy), errorReason(err)).Inc()
			log.Warn("route planning failed", "strategy", strategy, "points", len(points), "error", err)
			return nil, err
		}
		elapsed := time.Since(start)

		used := strategy
		if route.FellBack {
			used = domain.StrategyNearest
		}
		metrics.RoutesPlanned.WithLabelValues(string(used)).Inc()
		metrics.RoutePlanDuration.WithLabelValues(string(used)).Observe(elapsed.Seconds())
		metrics.RoutePoints.Observe(float64(len(points)))

		log.Info("route planned",
			"strategy", strategy,
			"points", len(points),
			"length_meters", math.Round(route.Length),
			"fell_back", route.FellBack,
			"duration", elapsed.String(),
		)
		s.cacheRoute(ctx, cacheKey, route)
	}

	span.SetAttributes(
		telemetry.AttrRouteLength.Float64(route.Length),
		telemetry.AttrFellBack.Bool(route.FellBack),
	)

	if s.presenter != nil {
		if err := s.presenter.Present(ctx, *route); err != nil {
			log.Warn("present route", "strategy", strategy, "error", err)
		}
	}
	return route, nil
}

func (s *RouteService) compute(ctx context.Context, points []domain.POI, ref domain.Coordinate, strategy domain.Strategy) (*domain.Route, error) {
	route := &domain.Route{
		Strategy:  strategy,
		Reference: ref,
	}

	switch strategy {
	case domain.StrategyProximity:
		route.Points = ordering.ByProximity(points, ref)
		route.Length = ordering.TotalLength(ref, route.Points)

	case domain.StrategyNearest:
		route.Points = ordering.ByNearestNeighbor(points, ref)
		route.Length = ordering.TotalLength(ref, route.Points)

	case domain.StrategyExact:
		var reported uint64
		opts := ordering.ExactOptions{
			MaxPoints:           s.opts.MaxExactPoints,
			CancelCheckInterval: s.opts.CancelCheckInterval,
			OnProgress: func(n uint64) {
				metrics.PermutationsEvaluated.Add(float64(n - reported))
				reported = n
			},
		}
		ordered, length, err := ordering.ExactShortestRoute(ctx, points, ref, opts)
		switch {
		case errors.Is(err, domain.ErrTooManyPoints) && s.opts.ExactFallback == FallbackNearest:
			metrics.ExactFallbacks.Inc()
			route.Points = ordering.ByNearestNeighbor(points, ref)
			route.Length = ordering.TotalLength(ref, route.Points)
			route.FellBack = true
		case err != nil:
			return nil, err
		default:
			route.Points = ordered
			route.Length = length
		}
		trace.SpanFromContext(ctx).SetAttributes(telemetry.AttrPermutations.Int64(int64(reported)))

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, strategy)
	}

	route.ComputedAt = s.now()
	return route, nil
}

// PlanAsync plans on workers and hands the outcome to onComplete on deliver.
// It returns an error only if the work could not be scheduled.
func (s *RouteService) PlanAsync(
	ctx context.Context,
	workers *dispatch.Pool,
	deliver dispatch.Executor,
	ref domain.Coordinate,
	strategy domain.Strategy,
	onComplete func(domain.Result[domain.Route]),
) error {
	return workers.Go(ctx, func(ctx context.Context) {
		var res domain.Result[domain.Route]
		if route, err := s.Plan(ctx, ref, strategy); err != nil {
			res = domain.Failure[domain.Route](err)
		} else {
			res = domain.Success(*route)
		}
		if err := deliver.Submit(func() { onComplete(res) }); err != nil {
			logging.FromContext(ctx).Warn("dropping route result", "error", err)
		}
	})
}

func (s *RouteService) cachedRoute(ctx context.Context, key string) (*domain.Route, bool) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}
	var route domain.Route
	if err := json.Unmarshal(data, &route); err != nil {
		metrics.CacheMisses.WithLabelValues("route").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("route").Inc()
	return &route, true
}

func (s *RouteService) cacheRoute(ctx context.Context, key string, route *domain.Route) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return
	}
	if data, err := json.Marshal(route); err == nil {
		_ = s.cache.Set(ctx, key, data, s.opts.CacheTTL)
	}
}

// routeCacheKey identifies a route by strategy, reference rounded to five
// decimals (about a metre) and the exact point set in input order.
func routeCacheKey(strategy domain.Strategy, ref domain.Coordinate, points []domain.POI) string {
	h := xxhash.New()
	for _, p := range points {
		_, _ = h.WriteString(p.Title)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(p.Subtitle)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(strconv.FormatFloat(p.Location.Lat, 'g', -1, 64))
		_, _ = h.WriteString(",")
		_, _ = h.WriteString(strconv.FormatFloat(p.Location.Lon, 'g', -1, 64))
		_, _ = h.WriteString("\x00")
	}
	return fmt.Sprintf("route:%s:%s:%s:%x", strategy,
		strconv.FormatFloat(ref.Lat, 'g', -1, 64),
		strconv.FormatFloat(ref.Lon, 'g', -1, 64),
		h.Sum64())
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTooManyPoints):
		return "too_many_points"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, domain.ErrUnknownStrategy):
		return "unknown_strategy"
	default:
		return "other"
	}
}
