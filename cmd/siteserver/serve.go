package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pacsforge/siteserver/pkg/api"
	"github.com/pacsforge/siteserver/pkg/dbpool"
	"github.com/pacsforge/siteserver/pkg/mediacache"
	"github.com/pacsforge/siteserver/pkg/session"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the site server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newLogger(cfg *serverConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openDB opens one connection handle for the configured backend. The
// handle's own internal pooling is pinned to a single connection; pooling
// policy belongs to dbpool, not to the driver.
func openDB(dialect, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown database dialect %q", dialect)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return db, nil
}

func serve(ctx context.Context, cfg *serverConfig) error {
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := dbpool.New(cfg.Pool.MaxSize, func(ctx context.Context) (*gorm.DB, error) {
		return openDB(cfg.Database.Dialect, cfg.Database.DSN)
	}, logger)
	defer pool.Close()

	registry := session.NewRegistry(time.Duration(cfg.Session.TimeoutMinutes) * time.Minute)
	tokens := session.NewTokenManager([]byte(cfg.Session.TokenSecret),
		time.Duration(cfg.Session.TokenTTLMinutes)*time.Minute)

	// The placement finder holds its own long-lived read connection so
	// background sweeps never compete with request leases.
	finderDB, err := openDB(cfg.Database.Dialect, cfg.Database.DSN)
	if err != nil {
		return err
	}
	finder := mediacache.NewStoreFinder(finderDB)
	placement := mediacache.NewPlacementCache(finder, logger)

	sweeper := session.NewSweeper(registry,
		time.Duration(cfg.Session.CleanupMinutes)*time.Minute, logger)
	go sweeper.Run(ctx)

	checker := mediacache.NewChecker(placement,
		time.Duration(cfg.Media.CheckSeconds)*time.Second, logger)
	go checker.Run(ctx)

	router := api.Router(api.Deps{
		Pool:      pool,
		Sessions:  registry,
		Tokens:    tokens,
		Placement: placement,
		Auth:      newStaticAuthenticator(cfg.Users),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr, "dialect", cfg.Database.Dialect)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
