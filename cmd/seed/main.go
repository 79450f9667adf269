// Package main loads a board dataset into the database, replacing its contents.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/helixir/newsboard-service/internal/config"
	"github.com/helixir/newsboard-service/internal/database"
	"github.com/helixir/newsboard-service/internal/observability"
	"github.com/helixir/newsboard-service/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "", "Load this JSON dataset instead of the embedded development set")
	migrate := flag.Bool("migrate", false, "Apply pending migrations before loading")
	timeout := flag.Duration("timeout", time.Minute, "Overall time limit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	logger = observability.WithComponent(logger, "seed")

	ds, err := loadDataset(*file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if *migrate {
		migrator, err := database.NewMigrator(db, cfg.Database.MigrationPath, logger)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer migrator.Close()
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	return seed.NewLoader(db, logger).Load(ctx, ds)
}

func loadDataset(path string) (*seed.Dataset, error) {
	if path == "" {
		return seed.Development()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return seed.Parse(f)
}
