package seed

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// RandomBounds is the default area RandomPoints scatters points over.
var RandomBounds = domain.Bounds{MinLat: 49, MinLon: -98, MaxLat: 49.9, MaxLon: -97}

// RandomPoints returns n points scattered uniformly inside b. The same rng
// seed always yields the same points.
func RandomPoints(rng *rand.Rand, n int, b domain.Bounds) []domain.POI {
	pois := make([]domain.POI, n)
	for i := range pois {
		pois[i] = domain.POI{
			ID:       fmt.Sprintf("random-%d", i),
			Title:    fmt.Sprintf("Point %d", i+1),
			Subtitle: "generated",
			Location: domain.Coordinate{
				Lat: b.MinLat + rng.Float64()*(b.MaxLat-b.MinLat),
				Lon: b.MinLon + rng.Float64()*(b.MaxLon-b.MinLon),
			},
		}
	}
	return pois
}

// NewRand returns a deterministic source for RandomPoints.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
