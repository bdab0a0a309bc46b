//go:build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	handler "github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/http"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/postgres"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/seed"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
)

// setupTestDB connects to the database named by the POI_DATABASE_* settings.
// The schema must already be migrated.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("interestingpoint-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	return db
}

// seedWinnipeg replaces the points table with the Winnipeg sample set.
func seedWinnipeg(t *testing.T, db *postgres.DB) {
	t.Helper()
	ctx := context.Background()
	if _, err := db.Pool.Exec(ctx, `TRUNCATE points`); err != nil {
		t.Fatalf("truncate points: %v", err)
	}
	if err := postgres.NewPointRepo(db).UpsertBatch(ctx, seed.WinnipegPOIs()); err != nil {
		t.Fatalf("seed points: %v", err)
	}
}

func setupIntegrationDeps(db *postgres.DB) *handler.Dependencies {
	repo := postgres.NewPointRepo(db)
	return &handler.Dependencies{
		Points: usecases.NewPointService(repo, nil),
		Routes: usecases.NewRouteService(repo, nil, nil, usecases.DefaultRoutingOptions()),
		DB:     db,
	}
}

func TestListPoints_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := setupTestDB(t)
	seedWinnipeg(t, db)
	app := setupApp(setupIntegrationDeps(db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/points?limit=3", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.POI       `json:"data"`
		Pagination handler.Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Pagination.Total != 5 || len(result.Data) != 3 {
		t.Errorf("expected 3 of 5 points, got %d of %d", len(result.Data), result.Pagination.Total)
	}
}

func TestNearbyPoints_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := setupTestDB(t)
	seedWinnipeg(t, db)
	app := setupApp(setupIntegrationDeps(db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/points/nearby?"+winnipegQuery+"&radius=4700", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var pois []domain.POI
	if err := json.NewDecoder(resp.Body).Decode(&pois); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(pois) != 2 || pois[0].Title != "Angel's Avocados" {
		t.Errorf("expected Angel then Biff, got %v", titles(pois))
	}
}

func TestPlanRoute_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db := setupTestDB(t)
	seedWinnipeg(t, db)
	app := setupApp(setupIntegrationDeps(db))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/route?"+winnipegQuery+"&strategy=exact", nil), -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var route domain.Route
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(route.Points) != 5 || route.Points[0].Title != "Darlene's Dumplings" {
		t.Errorf("unexpected exact route %v", titles(route.Points))
	}
}
