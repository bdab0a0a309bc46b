// Package seed is an in-memory point source preloaded with the Winnipeg
// sample set. It backs the API when no database is configured and simulates
// a slow remote fetch for the asynchronous paths.
package seed

import (
	"context"
	"slices"
	"time"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// DefaultReference is the starting position used when a caller supplies none.
var DefaultReference = domain.Coordinate{Lat: 49.85827, Lon: -97.157637}

var winnipeg = []domain.POI{
	{
		ID:       "angels-avocados",
		Title:    "Angel's Avocados",
		Subtitle: "No one's avocados are as nice as Angel's!",
		Location: domain.Coordinate{Lat: 49.8519574378154, Lon: -97.2117918551222},
	},
	{
		ID:       "biffs-bagels",
		Title:    "Biff's Bagels",
		Subtitle: "Best bagels in town!",
		Location: domain.Coordinate{Lat: 49.893413, Lon: -97.174958},
	},
	{
		ID:       "ernests-enchiladas",
		Title:    "Ernest's Enchiladas",
		Subtitle: "Enchilada Extravaganza!",
		Location: domain.Coordinate{Lat: 49.8141108489216, Lon: -97.1298990909147},
	},
	{
		ID:       "cathys-cupcakes",
		Title:    "Cathy's Cupcakes",
		Subtitle: "Cathy puts the cup in cupcake!",
		Location: domain.Coordinate{Lat: 49.9508672072522, Lon: -97.2422074558971},
	},
	{
		ID:       "darlenes-dumplings",
		Title:    "Darlene's Dumplings",
		Subtitle: "Down right delicious Dumplings!",
		Location: domain.Coordinate{Lat: 49.8716259581715, Lon: -97.0682061864028},
	},
}

// WinnipegPOIs returns a fresh copy of the five sample points in their
// stored (unsorted) order.
func WinnipegPOIs() []domain.POI {
	return slices.Clone(winnipeg)
}

// Provider serves a fixed point set after an optional artificial delay.
type Provider struct {
	points  []domain.POI
	latency time.Duration
}

// NewProvider returns a provider over points. A nil slice means the Winnipeg set.
func NewProvider(points []domain.POI, latency time.Duration) *Provider {
	if points == nil {
		points = WinnipegPOIs()
	}
	return &Provider{points: points, latency: latency}
}

// FetchPoints waits for the configured latency, or until ctx is done.
func (p *Provider) FetchPoints(ctx context.Context) ([]domain.POI, error) {
	if p.latency > 0 {
		t := time.NewTimer(p.latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(p.points), nil
}
