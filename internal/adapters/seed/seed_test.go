package seed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/seed"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

func TestWinnipegPOIs_IsACopy(t *testing.T) {
	a := seed.WinnipegPOIs()
	a[0].Title = "changed"
	if seed.WinnipegPOIs()[0].Title != "Angel's Avocados" {
		t.Error("fixture was mutated through a returned slice")
	}
}

func TestProvider_Latency(t *testing.T) {
	p := seed.NewProvider(nil, 20*time.Millisecond)

	start := time.Now()
	pois, err := p.FetchPoints(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("expected fetch to wait for the configured latency")
	}
	if len(pois) != 5 {
		t.Fatalf("expected 5 points, got %d", len(pois))
	}
}

func TestProvider_Cancelled(t *testing.T) {
	p := seed.NewProvider(nil, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	if _, err := p.FetchPoints(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := seed.NewStore(seed.WinnipegPOIs())

	got, err := s.GetByID(ctx, "biffs-bagels")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Biff's Bagels" {
		t.Errorf("expected Biff's Bagels, got %s", got.Title)
	}

	if _, err := s.GetByID(ctx, "nope"); !errors.Is(err, domain.ErrPointNotFound) {
		t.Errorf("expected ErrPointNotFound, got %v", err)
	}

	poi := &domain.POI{Title: "Fred's Fries", Location: domain.Coordinate{Lat: 49.9, Lon: -97.1}}
	if err := s.Upsert(ctx, poi); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if poi.ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	page, total, err := s.List(ctx, 2, 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 6 || len(page) != 2 {
		t.Fatalf("expected 2 of 6, got %d of %d", len(page), total)
	}
	if page[1].Title != "Fred's Fries" {
		t.Errorf("expected newest point last, got %s", page[1].Title)
	}

	poi.Subtitle = "crispy"
	_ = s.Upsert(ctx, poi)
	if _, total, _ := s.List(ctx, 10, 0); total != 6 {
		t.Errorf("expected upsert to replace, total is %d", total)
	}
}

func TestStore_FindNearby(t *testing.T) {
	s := seed.NewStore(seed.WinnipegPOIs())

	pois, err := s.FindNearby(context.Background(), seed.DefaultReference.Lat, seed.DefaultReference.Lon, 4700, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("expected 2 points within 4.7km, got %d", len(pois))
	}
	if pois[0].Title != "Angel's Avocados" || pois[1].Title != "Biff's Bagels" {
		t.Errorf("unexpected order: %s, %s", pois[0].Title, pois[1].Title)
	}
	if pois[0].Distance == nil || *pois[0].Distance > *pois[1].Distance {
		t.Error("expected ascending distances")
	}
}

func TestRandomPoints_Deterministic(t *testing.T) {
	a := seed.RandomPoints(seed.NewRand(9), 20, seed.RandomBounds)
	b := seed.RandomPoints(seed.NewRand(9), 20, seed.RandomBounds)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("point %d differs between identical seeds", i)
		}
		if !seed.RandomBounds.Contains(a[i].Location) {
			t.Errorf("point %d outside bounds: %v", i, a[i].Location)
		}
	}
}
