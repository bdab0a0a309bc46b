package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/http"
	natsadapter "github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/nats"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/bootstrap"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/dispatch"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("interestingpoint-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup("interestingpoint-api", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	points, err := bootstrap.OpenPoints(ctx, cfg)
	if err != nil {
		log.Fatalf("points: %v", err)
	}
	defer points.Close()

	cache := bootstrap.OpenCache(cfg)
	if cache != nil {
		defer cache.Close()
	}

	deps := &http.Dependencies{
		DB:       points.DB,
		Cache:    cache,
		DocsPath: os.Getenv("POI_DOCS_PATH"),
	}

	// Routes are published for websocket clients when NATS is reachable.
	var presenter ports.RoutePresenter
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		presenter = pub
		deps.Locations = pub
		deps.NATS = pub.Conn()
	}

	deps.Points = usecases.NewPointService(points.Repo, bootstrap.CacheService(cache))
	deps.Routes = usecases.NewRouteService(points.Provider, bootstrap.CacheService(cache), presenter, bootstrap.RoutingOptions(cfg.Routing))

	startup := dispatch.NewQueue("startup", 1)
	defer startup.Close()
	usecases.FetchAsync(ctx, points.Provider, startup, func(res domain.Result[[]domain.POI]) {
		pois, err := res.Unwrap()
		if err != nil {
			slog.Warn("point source not answering", "error", err)
			return
		}
		slog.Info("point source ready", "points", len(pois))
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024,
		AppName:      "InterestingPoint API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders:    "ETag, Link, X-Request-Id",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr,
			"default_strategy", deps.Routes.DefaultStrategy(),
			"database", cfg.Database.Enabled)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
