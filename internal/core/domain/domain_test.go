package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

func TestCoordinate_Validate(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Coordinate
		ok   bool
	}{
		{"winnipeg", domain.Coordinate{Lat: 49.85827, Lon: -97.157637}, true},
		{"origin", domain.Coordinate{}, true},
		{"north pole", domain.Coordinate{Lat: 90, Lon: 0}, true},
		{"date line", domain.Coordinate{Lat: 0, Lon: -180}, true},
		{"lat too big", domain.Coordinate{Lat: 90.0001, Lon: 0}, false},
		{"lon too small", domain.Coordinate{Lat: 0, Lon: -180.5}, false},
		{"nan", domain.Coordinate{Lat: math.NaN(), Lon: 0}, false},
		{"inf", domain.Coordinate{Lat: 0, Lon: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvalidCoordinate) {
				t.Fatalf("expected ErrInvalidCoordinate, got %v", err)
			}
		})
	}
}

func TestCoordinate_Equal(t *testing.T) {
	a := domain.Coordinate{Lat: 49.893413, Lon: -97.174958}
	if !a.Equal(domain.Coordinate{Lat: 49.893413 + 1e-10, Lon: -97.174958}) {
		t.Error("expected coordinates within tolerance to be equal")
	}
	if a.Equal(domain.Coordinate{Lat: 49.893414, Lon: -97.174958}) {
		t.Error("expected coordinates 1e-6 apart to differ")
	}
}

func TestPOI_Equal_IgnoresStorageFields(t *testing.T) {
	d := 12.5
	a := domain.POI{ID: "1", Title: "Biff's Bagels", Subtitle: "Best bagels in town!", Location: domain.Coordinate{Lat: 49.893413, Lon: -97.174958}}
	b := a
	b.ID = "2"
	b.Distance = &d

	if !a.Equal(b) {
		t.Error("expected POIs differing only in id and distance to be equal")
	}

	b.Subtitle = "Worst bagels in town"
	if a.Equal(b) {
		t.Error("expected different subtitles to compare unequal")
	}
}

func TestBounds_Contains(t *testing.T) {
	b := domain.Bounds{MinLat: 49, MinLon: -98, MaxLat: 50, MaxLon: -97}
	if !b.Contains(domain.Coordinate{Lat: 49.5, Lon: -97.5}) {
		t.Error("expected centre inside")
	}
	if !b.Contains(domain.Coordinate{Lat: 50, Lon: -97}) {
		t.Error("expected corner inside")
	}
	if b.Contains(domain.Coordinate{Lat: 51, Lon: -97.5}) {
		t.Error("expected point north of box outside")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]domain.Strategy{
		"":                 domain.StrategyProximity,
		"proximity":        domain.StrategyProximity,
		"EXACT":            domain.StrategyExact,
		" nearest ":        domain.StrategyNearest,
		"nearest_neighbor": domain.StrategyNearest,
	}
	for in, want := range tests {
		got, err := domain.ParseStrategy(in)
		if err != nil {
			t.Fatalf("ParseStrategy(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseStrategy(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := domain.ParseStrategy("genetic"); !errors.Is(err, domain.ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestResult(t *testing.T) {
	ok := domain.Success([]int{1, 2})
	if !ok.IsSuccess() || ok.Err() != nil {
		t.Fatal("expected success")
	}
	v, err := ok.Unwrap()
	if err != nil || len(v) != 2 {
		t.Fatalf("unexpected unwrap: %v %v", v, err)
	}

	boom := errors.New("boom")
	bad := domain.Failure[[]int](boom)
	if bad.IsSuccess() {
		t.Fatal("expected failure")
	}
	if _, err := bad.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}

	if !errors.Is(domain.Failure[int](nil).Err(), domain.ErrFetchFailed) {
		t.Error("expected nil failure to report ErrFetchFailed")
	}
}
