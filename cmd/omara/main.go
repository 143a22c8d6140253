package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/omara/internal/api"
	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/cache"
	"github.com/erazemk/omara/internal/config"
	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/live"
	"github.com/erazemk/omara/internal/processing"
	"github.com/erazemk/omara/internal/store"
	"github.com/erazemk/omara/internal/wardrobe"
)

const tokenPurgeInterval = time.Hour

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("omara", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.Redis.Addr, "redis", cfg.Redis.Addr, "")
	fs.StringVar(&cfg.Redis.Addr, "r", cfg.Redis.Addr, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: omara [flags]

Flags:
  -d, -db <path>          SQLite database path (default: omara.sqlite3, env OMARA_DB)
  -a, -addr <host:port>   listen address (default: :8080, env OMARA_ADDR)
  -l, -log <path>         log file path (default: stdout/stderr only, env OMARA_LOG)
  -r, -redis <host:port>  Redis address for the wardrobe cache (default: none, env REDIS_ADDR)
  -h, -help               show this help and exit

Settings are also read from a .env file in the working directory.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("getting JWT secret: %w", err)
	}

	logger := slog.Default()

	redisCache := cache.NewRedis(ctx, cache.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	defer redisCache.Close()

	blobs := blob.NewSQLStore(database)
	wardrobeService := wardrobe.NewService(database, redisCache, cfg.Redis.TTL)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := live.NewHub(logger)
	go hub.Run(hubCtx)

	processor := processing.New(database, blobs, wardrobeService, hub, processing.Options{
		Workers:      cfg.Processing.Workers,
		QueueSize:    cfg.Processing.QueueSize,
		FetchLimit:   cfg.Processing.FetchLimit,
		FetchTimeout: cfg.Processing.FetchTimeout,
	}, logger)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := processor.Start(workerCtx); err != nil {
		return fmt.Errorf("starting processing: %w", err)
	}
	defer processor.Stop()

	go purgeRevokedTokens(ctx, database)

	apiRouter := api.NewRouter(api.Deps{
		DB:             database,
		JWTSecret:      jwtSecret,
		Blobs:          blobs,
		Wardrobe:       wardrobeService,
		Hub:            hub,
		Processor:      processor,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.LoggingMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Addr, "cache", redisCache.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Live connections were hijacked and are not covered by Shutdown.
	stopHub()

	// Unfinished items stay pending and resume on the next start.
	stopWorkers()
	processor.Stop()

	slog.Info("server stopped, closing database")
	return nil
}

// purgeRevokedTokens periodically drops revocations of expired tokens.
func purgeRevokedTokens(ctx context.Context, database *sql.DB) {
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.PurgeExpiredTokens(ctx, database, now)
			if err != nil {
				slog.Warn("purging revoked tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged revoked tokens", "count", n)
			}
		}
	}
}
