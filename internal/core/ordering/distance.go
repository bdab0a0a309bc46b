package ordering

import (
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/geospatial"
)

// Distance is the great-circle distance in meters between a and b.
func Distance(a, b domain.Coordinate) float64 {
	return geospatial.Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// TotalLength sums the legs ref -> points[0] -> ... -> points[n-1].
// There is no return leg; an empty slice has length 0.
func TotalLength(ref domain.Coordinate, points []domain.POI) float64 {
	total := 0.0
	prev := ref
	for _, p := range points {
		total += Distance(prev, p.Location)
		prev = p.Location
	}
	return total
}

// distanceMatrix holds pairwise distances with the reference at index 0 and
// points[i] at index i+1.
type distanceMatrix [][]float64

func newDistanceMatrix(ref domain.Coordinate, points []domain.POI) distanceMatrix {
	n := len(points) + 1
	loc := func(i int) domain.Coordinate {
		if i == 0 {
			return ref
		}
		return points[i-1].Location
	}

	m := make(distanceMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(loc(i), loc(j))
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// pathLength is the open path length of order (point indices) from the reference.
// It stops early once the running total reaches limit.
func (m distanceMatrix) pathLength(order []int, limit float64) float64 {
	total := 0.0
	prev := 0
	for _, idx := range order {
		total += m[prev][idx+1]
		if total >= limit {
			return total
		}
		prev = idx + 1
	}
	return total
}
