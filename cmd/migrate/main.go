package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"libraryapi/internal/config"
	"libraryapi/internal/logger"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.IsProduction())

	if err := run(context.Background(), cfg, *command, *name); err != nil {
		fatal(err)
	}
	log.Info("migrate finished", "command", *command, "dir", cfg.MigrationsDir)
}

func run(ctx context.Context, cfg config.Config, command, name string) error {
	if command == "create" {
		if name == "" {
			return fmt.Errorf("name is required for 'create' command")
		}
		return goose.Create(nil, cfg.MigrationsDir, name, "sql")
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, cfg.MigrationsDir)
	case "down":
		return goose.DownContext(ctx, db, cfg.MigrationsDir)
	case "status":
		return goose.StatusContext(ctx, db, cfg.MigrationsDir)
	default:
		return fmt.Errorf("unknown command %q, use: up, down, status, create", command)
	}
}

func fatal(err error) {
	slog.Error("migrate failed", "error", err)
	os.Exit(1)
}
