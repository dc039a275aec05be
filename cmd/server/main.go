// Package main runs the analysis service: scheduled batch runs over a
// configured star list, a WebSocket feed of per-star outcomes, Prometheus
// metrics and a status endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"transit-search-lab/internal/catalog"
	"transit-search-lab/internal/config"
	"transit-search-lab/internal/orchestrator"
	"transit-search-lab/internal/pipeline"
	"transit-search-lab/internal/server"
	"transit-search-lab/internal/storage"
	chstore "transit-search-lab/internal/storage/clickhouse"
	"transit-search-lab/internal/storage/memory"
	"transit-search-lab/internal/storage/migrations"
	pgstore "transit-search-lab/internal/storage/postgres"
	"transit-search-lab/internal/visualization"
)

func main() {
	loadEnvFile()

	configPath := flag.String("config", "config.json", "Pipeline configuration file")
	archiveURL := flag.String("archive-url", os.Getenv("ARCHIVE_URL"), "Archive base URL")
	stars := flag.String("stars", os.Getenv("STAR_LIST"), "Comma-separated star IDs to analyze each run")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	batchInterval := flag.Duration("batch-interval", 6*time.Hour, "Interval between batch runs")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	noUpload := flag.Bool("no-upload", false, "Skip plot rendering and object store uploads")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *archiveURL == "" {
		logger.Error("--archive-url or ARCHIVE_URL is required")
		os.Exit(1)
	}

	starIDs := splitStars(*stars)
	if len(starIDs) == 0 {
		logger.Error("no stars specified, use --stars or STAR_LIST")
		os.Exit(1)
	}

	cfg, err := loadPipelineConfig(*configPath, logger)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	stores, cleanup, err := createStores(ctx, *useMemory)
	if err != nil {
		logger.Error("create stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var uploader orchestrator.Uploader
	if !*noUpload {
		storageCfg, err := config.LoadStorage()
		if err != nil {
			logger.Error("load storage config", "error", err)
			os.Exit(1)
		}
		if storageCfg.MinioEndpoint != "" {
			up, err := visualization.NewUploader(ctx, storageCfg)
			if err != nil {
				logger.Error("create uploader", "error", err)
				os.Exit(1)
			}
			uploader = up
		} else {
			logger.Warn("MINIO_ENDPOINT not set, skipping artifact uploads")
		}
	}

	hub := server.NewHub(logger)
	go hub.Run(ctx)

	srv := server.NewServer(hub, logger)

	orch := orchestrator.New(orchestrator.Options{
		Catalog:             catalog.NewHTTPClient(*archiveURL),
		Analyzer:            pipeline.NewRunner(cfg, pipeline.WithLogger(logger)),
		StarMetadataStore:   stores.starStore,
		AnalysisResultStore: stores.resultStore,
		ArtifactStore:       stores.artifactStore,
		FluxStore:           stores.fluxStore,
		Uploader:            uploader,
		Publisher:           hub,
		Logger:              logger,
	})

	go runBatchScheduler(ctx, orch, srv, starIDs, *batchInterval, logger)

	if err := srv.ListenAndServe(ctx, *addr); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("http server", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// runBatchScheduler runs one batch immediately and then on every tick.
func runBatchScheduler(ctx context.Context, orch *orchestrator.Orchestrator, srv *server.Server, starIDs []string, interval time.Duration, logger *slog.Logger) {
	runOnce := func() {
		srv.BatchStarted()
		defer srv.BatchFinished()

		result, err := orch.Run(ctx, starIDs)
		if err != nil {
			logger.Error("batch run failed", "error", err)
			return
		}
		logger.Info("batch run complete",
			"stars", result.StarsProcessed,
			"ok", result.StarsOK,
			"candidates", result.CandidatesStored,
		)
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

// serviceStores holds the persistence backends for the service.
type serviceStores struct {
	starStore     storage.StarMetadataStore
	resultStore   storage.AnalysisResultStore
	artifactStore storage.ArtifactStore
	fluxStore     storage.FluxTimeseriesStore
}

// createStores wires either the in-memory stores or PostgreSQL plus
// ClickHouse, running migrations on the way in.
func createStores(ctx context.Context, useMemory bool) (*serviceStores, func(), error) {
	if useMemory {
		return &serviceStores{
			starStore:     memory.NewStarMetadataStore(),
			resultStore:   memory.NewAnalysisResultStore(),
			artifactStore: memory.NewArtifactStore(),
			fluxStore:     memory.NewFluxTimeseriesStore(),
		}, func() {}, nil
	}

	storageCfg, err := config.LoadStorage()
	if err != nil {
		return nil, nil, err
	}
	if storageCfg.PostgresDSN == "" || storageCfg.ClickhouseDSN == "" {
		return nil, nil, fmt.Errorf("POSTGRES_DSN and CLICKHOUSE_DSN are required (use --use-memory for in-memory storage)")
	}

	pool, err := pgstore.NewPool(ctx, storageCfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, storageCfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &serviceStores{
		starStore:     pgstore.NewStarMetadataStore(pool),
		resultStore:   pgstore.NewAnalysisResultStore(pool),
		artifactStore: pgstore.NewArtifactStore(pool),
		fluxStore:     chstore.NewFluxTimeseriesStore(chConn),
	}
	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// loadPipelineConfig reads the config file, falling back to built-in
// defaults when the default path is absent. An explicitly passed path must
// exist.
func loadPipelineConfig(path string, logger *slog.Logger) (*config.Pipeline, error) {
	if path == "config.json" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Info("config.json not found, using defaults")
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// splitStars parses a comma-separated star list, dropping duplicates.
func splitStars(stars string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range strings.Split(stars, ",") {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// loadEnvFile loads environment variables from .env if present, without
// overriding variables already set.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
