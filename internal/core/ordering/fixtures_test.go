package ordering_test

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

var winnipegRef = domain.Coordinate{Lat: 49.85827, Lon: -97.157637}

func angels() domain.POI {
	return domain.POI{
		Title:    "Angel's Avocados",
		Subtitle: "No one's avocados are as nice as Angel's!",
		Location: domain.Coordinate{Lat: 49.8519574378154, Lon: -97.2117918551222},
	}
}

func biffs() domain.POI {
	return domain.POI{
		Title:    "Biff's Bagels",
		Subtitle: "Best bagels in town!",
		Location: domain.Coordinate{Lat: 49.893413, Lon: -97.174958},
	}
}

func ernests() domain.POI {
	return domain.POI{
		Title:    "Ernest's Enchiladas",
		Subtitle: "Enchilada Extravaganza!",
		Location: domain.Coordinate{Lat: 49.8141108489216, Lon: -97.1298990909147},
	}
}

func cathys() domain.POI {
	return domain.POI{
		Title:    "Cathy's Cupcakes",
		Subtitle: "Cathy puts the cup in cupcake!",
		Location: domain.Coordinate{Lat: 49.9508672072522, Lon: -97.2422074558971},
	}
}

func darlenes() domain.POI {
	return domain.POI{
		Title:    "Darlene's Dumplings",
		Subtitle: "Down right delicious Dumplings!",
		Location: domain.Coordinate{Lat: 49.8716259581715, Lon: -97.0682061864028},
	}
}

// unsorted is the five-point fixture in its stored order.
func unsorted() []domain.POI {
	return []domain.POI{angels(), biffs(), ernests(), cathys(), darlenes()}
}

func randomPOIs(rng *rand.Rand, n int) []domain.POI {
	pois := make([]domain.POI, n)
	for i := range pois {
		pois[i] = domain.POI{
			Title: fmt.Sprintf("poi-%d", i),
			Location: domain.Coordinate{
				Lat: 49 + rng.Float64()*0.9,
				Lon: -98 + rng.Float64(),
			},
		}
	}
	return pois
}

func titles(pois []domain.POI) []string {
	out := make([]string, len(pois))
	for i, p := range pois {
		out[i] = p.Title
	}
	return out
}

func equalPOIs(a, b []domain.POI) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// isPermutation reports whether got holds exactly the elements of want,
// matched structurally, ignoring order.
func isPermutation(want, got []domain.POI) bool {
	if len(want) != len(got) {
		return false
	}
	used := make([]bool, len(got))
outer:
	for _, w := range want {
		for j, g := range got {
			if !used[j] && w.Equal(g) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
