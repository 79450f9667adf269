// Package main provides a CLI tool for database migrations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/newsboard-service/internal/config"
	"github.com/helixir/newsboard-service/internal/database"
	"github.com/helixir/newsboard-service/internal/observability"
)

const connectTimeout = 30 * time.Second

var errNoAction = errors.New("no action specified")

// actionKind is the single migration action a run performs.
type actionKind int

const (
	actionUp actionKind = iota + 1
	actionDown
	actionSteps
	actionVersion
	actionForce
)

// options are the parsed command line flags.
type options struct {
	action actionKind
	steps  int
	force  int
	path   string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err == nil {
		err = run(opts)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads the flags and requires exactly one action.
func parseFlags(args []string, output io.Writer) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(output)

	up := fs.Bool("up", false, "Run all pending migrations")
	down := fs.Bool("down", false, "Roll back all migrations")
	steps := fs.Int("steps", 0, "Run N migration steps (positive=up, negative=down)")
	version := fs.Bool("version", false, "Print the current migration version")
	force := fs.Int("force", -1, "Force set migration version (use to recover from failed migrations)")
	path := fs.String("path", "", "Read migrations from this directory instead of the embedded set")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{steps: *steps, force: *force, path: *path}
	var chosen []actionKind
	if *up {
		chosen = append(chosen, actionUp)
	}
	if *down {
		chosen = append(chosen, actionDown)
	}
	if *steps != 0 {
		chosen = append(chosen, actionSteps)
	}
	if *version {
		chosen = append(chosen, actionVersion)
	}
	if *force >= 0 {
		chosen = append(chosen, actionForce)
	}

	switch len(chosen) {
	case 0:
		fs.Usage()
		fmt.Fprintln(output, "\nPlease specify one of: -up, -down, -steps N, -version, -force V")
		return options{}, errNoAction
	case 1:
		opts.action = chosen[0]
		return opts, nil
	default:
		return options{}, fmt.Errorf("specify only one action at a time")
	}
}

func run(opts options) error {
	// Load configuration (database settings from env/config file).
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Console output for the CLI tool.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	logger = observability.WithComponent(logger, "migrate")

	migrationDir := cfg.Database.MigrationPath
	if opts.path != "" {
		migrationDir = opts.path
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db, migrationDir, logger)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("failed to close migrator")
		}
	}()

	if err := apply(migrator, opts, logger); err != nil {
		return err
	}
	printVersion(migrator, logger)
	return nil
}

// apply executes the requested action.
func apply(migrator *database.Migrator, opts options, logger zerolog.Logger) error {
	switch opts.action {
	case actionUp:
		logger.Info().Msg("running all pending migrations")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case actionDown:
		logger.Warn().Msg("rolling back all migrations")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case actionSteps:
		logger.Info().Int("steps", opts.steps).Msg("running migration steps")
		if err := migrator.Steps(opts.steps); err != nil {
			return fmt.Errorf("migrate steps: %w", err)
		}
	case actionForce:
		logger.Warn().Int("version", opts.force).Msg("forcing migration version")
		if err := migrator.Force(opts.force); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
	case actionVersion:
	default:
		return errNoAction
	}
	return nil
}

// printVersion logs the current migration version.
func printVersion(migrator *database.Migrator, logger zerolog.Logger) {
	v, dirty, err := migrator.Version()
	if err != nil {
		logger.Warn().Err(err).Msg("could not determine migration version")
		return
	}
	logger.Info().
		Uint("version", v).
		Bool("dirty", dirty).
		Msg("current migration version")
}
