package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
)

func TestPointService_List_ClampLimit(t *testing.T) {
	called := false
	repo := &mockPointRepo{
		listFn: func(ctx context.Context, limit, offset int) ([]domain.POI, int, error) {
			called = true
			if limit != 100 {
				t.Errorf("expected limit clamped to 100, got %d", limit)
			}
			if offset != 0 {
				t.Errorf("expected negative offset raised to 0, got %d", offset)
			}
			return nil, 0, nil
		},
	}

	svc := usecases.NewPointService(repo, nil)
	_, _, _ = svc.List(context.Background(), 999, -3)
	if !called {
		t.Error("repo was not called")
	}
}

func TestPointService_FindNearby(t *testing.T) {
	repo := &mockPointRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
			if radius != 1000 {
				t.Errorf("expected default radius 1000, got %v", radius)
			}
			return []domain.POI{
				{ID: "1", Title: "Angel's Avocados"},
				{ID: "2", Title: "Biff's Bagels"},
			}, nil
		},
	}

	svc := usecases.NewPointService(repo, nil)
	pois, err := svc.FindNearby(context.Background(), domain.Coordinate{Lat: 49.85, Lon: -97.15}, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pois) != 2 {
		t.Fatalf("expected 2 points, got %d", len(pois))
	}
}

func TestPointService_FindNearby_InvalidReference(t *testing.T) {
	svc := usecases.NewPointService(&mockPointRepo{}, nil)
	_, err := svc.FindNearby(context.Background(), domain.Coordinate{Lat: 91}, 500, 10)
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestPointService_GetByID_Cached(t *testing.T) {
	calls := 0
	repo := &mockPointRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.POI, error) {
			calls++
			return &domain.POI{ID: id, Title: "Cathy's Cupcakes"}, nil
		},
	}

	svc := usecases.NewPointService(repo, newMockCache())
	for i := 0; i < 3; i++ {
		poi, err := svc.GetByID(context.Background(), "cathy")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if poi.Title != "Cathy's Cupcakes" {
			t.Errorf("unexpected title %s", poi.Title)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 repo call, got %d", calls)
	}
}

func TestPointService_GetByID_NotFound(t *testing.T) {
	svc := usecases.NewPointService(&mockPointRepo{}, nil)
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrPointNotFound) {
		t.Errorf("expected ErrPointNotFound, got %v", err)
	}
}

func TestPointService_Import(t *testing.T) {
	var stored []domain.POI
	repo := &mockPointRepo{
		upsertBatchFn: func(ctx context.Context, pois []domain.POI) error {
			stored = pois
			return nil
		},
	}
	svc := usecases.NewPointService(repo, nil)

	n, err := svc.Import(context.Background(), []domain.POI{
		{Title: "Darlene's Dumplings", Location: domain.Coordinate{Lat: 49.87, Lon: -97.07}},
		{Title: "Ernest's Enchiladas", Location: domain.Coordinate{Lat: 49.81, Lon: -97.13}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(stored) != 2 {
		t.Errorf("expected 2 stored, got n=%d stored=%d", n, len(stored))
	}
}

func TestPointService_Import_RejectsInvalid(t *testing.T) {
	called := false
	repo := &mockPointRepo{
		upsertBatchFn: func(ctx context.Context, pois []domain.POI) error {
			called = true
			return nil
		},
	}
	svc := usecases.NewPointService(repo, nil)

	_, err := svc.Import(context.Background(), []domain.POI{
		{Title: "ok", Location: domain.Coordinate{Lat: 1, Lon: 1}},
		{Title: "off the map", Location: domain.Coordinate{Lat: 1, Lon: 200}},
	})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}

	_, err = svc.Import(context.Background(), []domain.POI{{Location: domain.Coordinate{Lat: 1, Lon: 1}}})
	if err == nil {
		t.Error("expected error for missing title")
	}
	if called {
		t.Error("nothing should be stored when validation fails")
	}
}
