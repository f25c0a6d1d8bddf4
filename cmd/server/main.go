package main

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"htmlsanitize.dev/internal/app"
	"htmlsanitize.dev/internal/assetcache"
	"htmlsanitize.dev/internal/cdn"
	"htmlsanitize.dev/internal/query"
	"htmlsanitize.dev/internal/sanitize"
	"htmlsanitize.dev/internal/store"
)

func main() {
	loadDotEnv(".env")

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	cdnRoot := os.Getenv("CDN_ROOT")
	if cdnRoot == "" {
		logger.Error("CDN_ROOT is required")
		os.Exit(1)
	}

	maxConns := mustPositiveInt(logger, "DB_MAX_CONNS", "5")
	cacheTTL := mustPositiveInt(logger, "ASSET_CACHE_TTL_SECONDS", strconv.Itoa(int(assetcache.DefaultTTL.Seconds())))
	maxBody := mustPositiveInt(logger, "MAX_BODY_BYTES", "4194304")

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		logger.Error("parse DATABASE_URL", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(maxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("connect db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("ping db", "error", err)
		os.Exit(1)
	}

	ttl := time.Duration(cacheTTL) * time.Second
	assets := cdn.New(os.DirFS(cdnRoot), cdn.DefaultRegistry)
	dispatcher := query.NewDispatcher(
		store.New(pool),
		assets,
		assetcache.New(ttl, 2*ttl),
		sanitize.New(sanitize.DefaultPolicy()),
	)

	a := &app.App{
		Queries:      dispatcher,
		Assets:       assets.Names(),
		DB:           pool,
		Log:          logger,
		MaxBodyBytes: int64(maxBody),
	}

	addr := envOrDefault("ADDR", "127.0.0.1:5810")
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdownCh
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("server starting", "addr", addr, "cdn_root", cdnRoot, "assets", assets.Names(), "asset_cache_ttl", ttl)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func mustPositiveInt(logger *slog.Logger, key, fallback string) int {
	n, err := strconv.Atoi(envOrDefault(key, fallback))
	if err != nil || n <= 0 {
		logger.Error(key + " must be a positive integer")
		os.Exit(1)
	}
	return n
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); exists {
			continue
		}

		_ = os.Setenv(key, strings.Trim(value, `"'`))
	}
}
