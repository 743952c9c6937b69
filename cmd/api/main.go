package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"libraryapi/internal/auth"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"
	"libraryapi/internal/library"
	"libraryapi/internal/logger"
	"libraryapi/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(os.Stdout, cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DSN)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info("database connection OK", "dsn", redactDSN(cfg.DSN))

	service := library.NewService(
		store.NewCategoryPG(dbPool, cfg.QueryTimeout),
		store.NewBookPG(dbPool, cfg.QueryTimeout),
		store.NewTxManager(dbPool),
		log.With("component", "library"),
	)

	var authHandler *auth.HTTPHandler
	if cfg.AdminJWTSecret != "" {
		authHandler = auth.NewHTTPHandler(auth.NewService(cfg.AdminJWTSecret, cfg.AdminPassHash, cfg.AdminTokenTTL))
	} else {
		log.Warn("ADMIN_JWT_SECRET not set, write routes are unauthenticated")
	}

	g, gctx := errgroup.WithContext(ctx)

	httpServer := &http.Server{
		Addr: cfg.Addr,
		Handler: newRouter(routerDeps{
			cfg:       cfg,
			logger:    log,
			db:        dbPool,
			library:   library.NewHTTPHandler(service),
			auth:      authHandler,
			rateLimit: httpx.NewRateLimitMiddleware(gctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		}),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
