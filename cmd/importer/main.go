// Command importer loads points of interest into the point store.
//
//	importer [flags] [source ...]
//
// A source is a local path or an http(s) URL ending in .json or .csv.
// -seed adds the built-in Winnipeg points and -random n adds n generated ones.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/adapters/seed"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/bootstrap"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/usecases"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/dispatch"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
)

func main() {
	withSeed := flag.Bool("seed", false, "import the built-in Winnipeg points")
	random := flag.Int("random", 0, "import `n` randomly placed points")
	randSeed := flag.Uint64("rand-seed", 1, "seed for -random")
	dryRun := flag.Bool("dry-run", false, "parse and validate only")
	parallel := flag.Int("parallel", 4, "sources read concurrently")
	flag.Parse()

	cfg, err := config.Load("interestingpoint-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("interestingpoint-importer", cfg.Log.Level, cfg.Log.Format)

	if flag.NArg() == 0 && !*withSeed && *random <= 0 {
		fmt.Fprintln(os.Stderr, "usage: importer [-seed] [-random n] [source ...]")
		os.Exit(2)
	}

	ctx := context.Background()

	points, err := bootstrap.OpenPoints(ctx, cfg)
	if err != nil {
		log.Fatalf("points: %v", err)
	}
	defer points.Close()
	if points.DB == nil && !*dryRun {
		slog.Warn("database disabled, imported points are not persisted")
	}

	cache := bootstrap.OpenCache(cfg)
	if cache != nil {
		defer cache.Close()
	}
	svc := usecases.NewPointService(points.Repo, bootstrap.CacheService(cache))

	store := func(ctx context.Context, pois []domain.POI) (int, error) {
		if *dryRun {
			for i, p := range pois {
				if err := usecases.ValidatePOI(p); err != nil {
					return 0, fmt.Errorf("point %d: %w", i, err)
				}
			}
			return len(pois), nil
		}
		return svc.Import(ctx, pois)
	}

	var total atomic.Int64
	var failed atomic.Bool

	if *withSeed {
		n, err := store(ctx, seed.WinnipegPOIs())
		report("seed", n, err, &total, &failed)
	}
	if *random > 0 {
		pois := seed.RandomPoints(seed.NewRand(*randSeed), *random, seed.RandomBounds)
		n, err := store(ctx, pois)
		report("random", n, err, &total, &failed)
	}

	client := &http.Client{Timeout: 60 * time.Second}
	pool := dispatch.NewPool(*parallel)
	var wg sync.WaitGroup

	for _, src := range flag.Args() {
		wg.Add(1)
		err := pool.Go(ctx, func(ctx context.Context) {
			defer wg.Done()
			pois, err := readSource(ctx, client, src)
			if err != nil {
				report(src, 0, err, &total, &failed)
				return
			}
			n, err := store(ctx, pois)
			report(src, n, err, &total, &failed)
		})
		if err != nil {
			wg.Done()
			report(src, 0, err, &total, &failed)
		}
	}

	wg.Wait()
	pool.Close()

	slog.Info("import complete", "points", total.Load(), "dry_run", *dryRun)
	if failed.Load() {
		os.Exit(1)
	}
}

func report(src string, n int, err error, total *atomic.Int64, failed *atomic.Bool) {
	if err != nil {
		slog.Error("import failed", "source", src, "error", err)
		failed.Store(true)
		return
	}
	total.Add(int64(n))
	slog.Info("imported", "source", src, "points", n)
}

// readSource opens a local file or downloads a URL and parses its points.
func readSource(ctx context.Context, client *http.Client, src string) ([]domain.POI, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parsePoints(src, f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src)
	}
	name := src
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	ct := resp.Header.Get("Content-Type")
	switch {
	case strings.Contains(ct, "json"):
		return parseJSON(resp.Body)
	case strings.Contains(ct, "csv"):
		return parseCSV(resp.Body)
	}
	return parsePoints(name, resp.Body)
}
