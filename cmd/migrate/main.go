package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/config"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding NNN_name.up.sql / .down.sql files")
	flag.Parse()
	if flag.NArg() < 1 {
		log.Fatal("usage: migrate [-dir migrations] <up|down>")
	}

	cfg, err := config.Load("poi-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}

	switch flag.Arg(0) {
	case "up":
		err = up(ctx, pool, *dir)
	case "down":
		err = down(ctx, pool, *dir)
	default:
		log.Fatalf("unknown command: %s", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}

// migrationFiles returns the versions (file names minus the suffix) in order.
func migrationFiles(dir, suffix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(matches))
	for _, m := range matches {
		versions = append(versions, strings.TrimSuffix(filepath.Base(m), suffix))
	}
	slices.Sort(versions)
	return versions, nil
}

func applied(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(versions))
	for _, v := range versions {
		done[v] = true
	}
	return done, nil
}

func up(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	versions, err := migrationFiles(dir, ".up.sql")
	if err != nil {
		return err
	}
	done, err := applied(ctx, pool)
	if err != nil {
		return err
	}

	for _, v := range versions {
		if done[v] {
			continue
		}
		if err := run(ctx, pool, filepath.Join(dir, v+".up.sql"),
			`INSERT INTO schema_migrations (version) VALUES ($1)`, v); err != nil {
			return err
		}
		fmt.Printf("UP    %s\n", v)
	}
	slog.Info("all migrations applied", "count", len(versions))
	return nil
}

// down reverts the most recently applied migration only.
func down(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	versions, err := migrationFiles(dir, ".down.sql")
	if err != nil {
		return err
	}
	done, err := applied(ctx, pool)
	if err != nil {
		return err
	}

	for i := len(versions) - 1; i >= 0; i-- {
		v := versions[i]
		if !done[v] {
			continue
		}
		if err := run(ctx, pool, filepath.Join(dir, v+".down.sql"),
			`DELETE FROM schema_migrations WHERE version = $1`, v); err != nil {
			return err
		}
		fmt.Printf("DOWN  %s\n", v)
		return nil
	}
	slog.Info("nothing to revert")
	return nil
}

func run(ctx context.Context, pool *pgxpool.Pool, file, bookkeeping, version string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", file, err)
		}
		_, err := tx.Exec(ctx, bookkeeping, version)
		return err
	})
}
