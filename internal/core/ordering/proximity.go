package ordering

import (
	"cmp"
	"slices"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// ByProximity returns a copy of points sorted by ascending distance to ref.
// Points at equal distance keep their input order.
func ByProximity(points []domain.POI, ref domain.Coordinate) []domain.POI {
	order := proximityOrder(points, ref, nil)

	out := make([]domain.POI, len(order))
	for i, idx := range order {
		out[i] = points[idx]
	}
	return out
}

type ranked struct {
	idx  int
	dist float64
}

// proximityOrder stably sorts the candidate indices by distance to ref.
// A nil candidates slice means every index of points.
func proximityOrder(points []domain.POI, ref domain.Coordinate, candidates []int) []int {
	if candidates == nil {
		candidates = make([]int, len(points))
		for i := range candidates {
			candidates[i] = i
		}
	}

	rs := make([]ranked, len(candidates))
	for i, idx := range candidates {
		rs[i] = ranked{idx: idx, dist: Distance(ref, points[idx].Location)}
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		return cmp.Compare(a.dist, b.dist)
	})

	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.idx
	}
	return out
}
