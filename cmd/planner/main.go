// Command planner runs the Temporal route planning worker, or submits one
// planning request and prints the route.
//
//	planner worker
//	planner submit -lat 49.85827 -lon -97.157637 [-strategy exact] [-device id]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/nats"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/bootstrap"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/workflows"
)

func main() {
	cfg, err := config.Load("interestingpoint-planner")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup("interestingpoint-planner", cfg.Log.Level, cfg.Log.Format)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	cmd := "worker"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "worker":
		err = runWorker(cfg, c)
	case "submit":
		err = submit(cfg, c, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want worker or submit)\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func runWorker(cfg *config.Config, c client.Client) error {
	ctx := context.Background()

	points, err := bootstrap.OpenPoints(ctx, cfg)
	if err != nil {
		return fmt.Errorf("points: %w", err)
	}
	defer points.Close()

	cache := bootstrap.OpenCache(cfg)
	if cache != nil {
		defer cache.Close()
	}

	acts := &workflows.RouteActivities{
		Points: points.Provider,
		Routes: usecases.NewRouteService(points.Provider, bootstrap.CacheService(cache), nil, bootstrap.RoutingOptions(cfg.Routing)),
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, routes will not be published", "error", err)
	} else {
		defer pub.Close()
		acts.Publisher = pub
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: max(cfg.Routing.Workers, 1),
	})
	w.RegisterWorkflow(workflows.RoutePlanningWorkflow)
	w.RegisterActivity(acts)

	slog.Info("planner worker started", "task_queue", cfg.Temporal.TaskQueue)
	return w.Run(worker.InterruptCh())
}

func submit(cfg *config.Config, c client.Client, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "reference latitude")
	lon := fs.Float64("lon", 0, "reference longitude")
	strategy := fs.String("strategy", "", "proximity, exact or nearest (default from config)")
	device := fs.String("device", "", "publish the route to this device")
	wait := fs.Duration("timeout", 5*time.Minute, "how long to wait for the route")
	_ = fs.Parse(args)

	input := workflows.RoutePlanningInput{
		DeviceID:  *device,
		Reference: domain.Coordinate{Lat: *lat, Lon: *lon},
	}
	if err := input.Reference.Validate(); err != nil {
		return err
	}
	if *strategy != "" {
		s, err := domain.ParseStrategy(*strategy)
		if err != nil {
			return err
		}
		input.Strategy = s
	}

	ctx, cancel := context.WithTimeout(context.Background(), *wait)
	defer cancel()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "route-" + uuid.NewString(),
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.RoutePlanningWorkflow, input)
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	slog.Info("workflow started", "workflow_id", run.GetID(), "run_id", run.GetRunID())

	var result workflows.RoutePlanningResult
	if err := run.Get(ctx, &result); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
