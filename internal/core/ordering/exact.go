package ordering

import (
	"context"
	"fmt"
	"math"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/permute"
)

// DefaultMaxExactPoints is the ceiling used when ExactOptions.MaxPoints is zero.
const DefaultMaxExactPoints = 9

// DefaultCancelCheckInterval is how many orderings are scored between context checks.
const DefaultCancelCheckInterval = 4096

// ExactOptions bounds a brute-force solve.
type ExactOptions struct {
	// MaxPoints rejects inputs larger than this with domain.ErrTooManyPoints.
	// Zero means DefaultMaxExactPoints; a negative value disables the ceiling.
	MaxPoints int

	// CancelCheckInterval is the number of orderings scored between ctx checks.
	// Zero means DefaultCancelCheckInterval.
	CancelCheckInterval int

	// OnProgress, when set, is called with the running count at every ctx check
	// and once more with the final count.
	OnProgress func(evaluated uint64)
}

// DefaultExactOptions returns the options used by interactive callers.
func DefaultExactOptions() ExactOptions {
	return ExactOptions{
		MaxPoints:           DefaultMaxExactPoints,
		CancelCheckInterval: DefaultCancelCheckInterval,
	}
}

// ByExactShortestRoute returns the ordering of points with the smallest
// TotalLength from ref. Among equal minima the first ordering produced by the
// permutation generator wins.
//
// It has no size ceiling and cannot be cancelled. See ExactShortestRoute.
func ByExactShortestRoute(points []domain.POI, ref domain.Coordinate) []domain.POI {
	out, _, _ := ExactShortestRoute(context.Background(), points, ref, ExactOptions{MaxPoints: -1})
	return out
}

// ExactShortestRoute is ByExactShortestRoute with a size ceiling and
// cancellation. It also returns the route length in meters.
//
// Returns domain.ErrTooManyPoints when len(points) exceeds opts.MaxPoints and
// ctx.Err() if ctx is done before every ordering has been scored.
func ExactShortestRoute(ctx context.Context, points []domain.POI, ref domain.Coordinate, opts ExactOptions) ([]domain.POI, float64, error) {
	maxPoints := opts.MaxPoints
	if maxPoints == 0 {
		maxPoints = DefaultMaxExactPoints
	}
	if maxPoints > 0 && len(points) > maxPoints {
		return nil, 0, fmt.Errorf("%w: %d points, limit %d", domain.ErrTooManyPoints, len(points), maxPoints)
	}

	checkEvery := uint64(opts.CancelCheckInterval)
	if checkEvery == 0 {
		checkEvery = DefaultCancelCheckInterval
	}

	n := len(points)
	if n == 0 {
		return []domain.POI{}, 0, nil
	}

	dist := newDistanceMatrix(ref, points)
	best := make([]int, n)
	bestLen := math.Inf(1)

	var evaluated uint64
	for order := range permute.Indices(n) {
		if evaluated%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			if opts.OnProgress != nil && evaluated > 0 {
				opts.OnProgress(evaluated)
			}
		}
		evaluated++

		if l := dist.pathLength(order, bestLen); l < bestLen {
			bestLen = l
			copy(best, order)
		}
	}
	if opts.OnProgress != nil {
		opts.OnProgress(evaluated)
	}

	out := make([]domain.POI, n)
	for i, idx := range best {
		out[i] = points[idx]
	}
	return out, bestLen, nil
}
