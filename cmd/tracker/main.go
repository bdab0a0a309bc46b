// Command tracker consumes device location updates from NATS and publishes a
// freshly planned route for each device.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/nats"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/bootstrap"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("interestingpoint-tracker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup("interestingpoint-tracker", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logging.WithLogger(ctx, logger)

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

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	opts := bootstrap.RoutingOptions(cfg.Routing)
	routes := usecases.NewRouteService(points.Provider, bootstrap.CacheService(cache), nil, opts)
	tracking := usecases.NewTrackingService(routes, pub)

	handle := func(ctx context.Context, u *domain.LocationUpdate) error {
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		start := time.Now()
		if err := tracking.ProcessLocationUpdate(ctx, u); err != nil {
			return err
		}
		slog.Debug("route published", "device", u.DeviceID, "duration", time.Since(start))
		return nil
	}

	if err := sub.SubscribeLocations(ctx, handle); err != nil {
		log.Fatalf("subscribe: %v", err)
	}
	slog.Info("tracker started", "subjects", natsadapter.LocationSubjects, "default_strategy", routes.DefaultStrategy())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down", "signal", sig.String())
}
