// Package bootstrap turns configuration into the adapters and services the
// binaries under cmd/ share.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/postgres"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/seed"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/valkey"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/metrics"
)

// Points is the configured point store.
type Points struct {
	Repo     ports.PointRepository
	Provider ports.PointProvider
	DB       *postgres.DB // nil when serving the in-memory seed set
}

// OpenPoints connects to PostGIS when database.enabled is set and falls back
// to the in-memory Winnipeg set otherwise. With seed.latency_ms the seed
// provider delays every fetch; imports then only reach the repository.
func OpenPoints(ctx context.Context, cfg *config.Config) (*Points, error) {
	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN(), 0)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		metrics.UpdateDBPoolMetrics(db.Stat())
		repo := postgres.NewPointRepo(db)
		return &Points{Repo: repo, Provider: repo, DB: db}, nil
	}

	slog.Info("database disabled, serving seed points")
	store := seed.NewStore(seed.WinnipegPOIs())
	p := &Points{Repo: store, Provider: store}
	if cfg.Seed.LatencyMS > 0 {
		p.Provider = seed.NewProvider(nil, time.Duration(cfg.Seed.LatencyMS)*time.Millisecond)
	}
	return p, nil
}

// Close releases the database pool, if any.
func (p *Points) Close() {
	if p.DB != nil {
		p.DB.Close()
	}
}

// OpenCache connects to Valkey. Failures are logged and yield a nil cache;
// callers run uncached.
func OpenCache(cfg *config.Config) *valkey.Cache {
	cache, err := valkey.New(cfg.Valkey.Addr, "poi:")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		return nil
	}
	return cache
}

// CacheService adapts an optional cache to the port without a typed nil.
func CacheService(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}

// RoutingOptions maps the routing section onto RouteService options.
// The config has already been validated.
func RoutingOptions(rc config.RoutingConfig) usecases.RoutingOptions {
	strategy, err := domain.ParseStrategy(rc.DefaultStrategy)
	if err != nil {
		strategy = domain.StrategyProximity
	}
	return usecases.RoutingOptions{
		DefaultStrategy:     strategy,
		MaxExactPoints:      rc.MaxExactPoints,
		ExactFallback:       usecases.FallbackPolicy(rc.ExactFallback),
		CancelCheckInterval: rc.CancelCheckInterval,
		CacheTTL:            rc.CacheTTL,
		Timeout:             time.Duration(rc.TimeoutSeconds) * time.Second,
	}
}
