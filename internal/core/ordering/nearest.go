package ordering

import "github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"

// ByNearestNeighbor walks from ref to the closest remaining point until none
// remain. Ties go to the point that came first among the remaining ones, in
// the order the previous step's proximity sort left them.
func ByNearestNeighbor(points []domain.POI, ref domain.Coordinate) []domain.POI {
	remaining := make([]int, len(points))
	for i := range remaining {
		remaining[i] = i
	}

	out := make([]domain.POI, 0, len(points))
	current := ref
	for len(remaining) > 0 {
		remaining = proximityOrder(points, current, remaining)

		next := points[remaining[0]]
		remaining = remaining[1:]

		out = append(out, next)
		current = next.Location
	}
	return out
}
