// Package main runs one batch analysis: fetch light curves from the
// archive, clean, search for transits, rank candidates, persist results
// and write the batch report.
package main

import (
	"context"
	"flag"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"transit-search-lab/internal/catalog"
	"transit-search-lab/internal/config"
	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/orchestrator"
	"transit-search-lab/internal/pipeline"
	"transit-search-lab/internal/reporting"
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
	stars := flag.String("stars", "", "Comma-separated star IDs to analyze")
	starsFile := flag.String("stars-file", "", "File with one star ID per line")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	synthetic := flag.Bool("synthetic", false, "Generate light curves locally instead of fetching from the archive")
	noUpload := flag.Bool("no-upload", false, "Skip plot rendering and object store uploads")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *archiveURL == "" && !*synthetic {
		fatal(logger, "--archive-url or ARCHIVE_URL is required (or pass --synthetic)", nil)
	}

	starIDs, err := resolveStars(*stars, *starsFile)
	if err != nil {
		fatal(logger, "resolve star list", err)
	}
	if len(starIDs) == 0 {
		fatal(logger, "no stars specified, use --stars or --stars-file", nil)
	}

	cfg, err := loadPipelineConfig(*configPath, logger)
	if err != nil {
		fatal(logger, "load config", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("signal received, cancelling batch", "signal", sig.String())
		cancel()
	}()

	stores, cleanup, err := createStores(ctx, *useMemory)
	if err != nil {
		fatal(logger, "create stores", err)
	}
	defer cleanup()

	var uploader orchestrator.Uploader
	if !*noUpload {
		storageCfg, err := config.LoadStorage()
		if err != nil {
			fatal(logger, "load storage config", err)
		}
		if storageCfg.MinioEndpoint != "" {
			up, err := visualization.NewUploader(ctx, storageCfg)
			if err != nil {
				fatal(logger, "create uploader", err)
			}
			uploader = up
		} else {
			logger.Warn("MINIO_ENDPOINT not set, skipping artifact uploads")
		}
	}

	runner := pipeline.NewRunner(cfg, pipeline.WithLogger(logger))

	var source orchestrator.Catalog = catalog.NewHTTPClient(*archiveURL)
	if *synthetic {
		source = &syntheticCatalog{}
	}

	orch := orchestrator.New(orchestrator.Options{
		Catalog:             source,
		Analyzer:            runner,
		StarMetadataStore:   stores.starStore,
		AnalysisResultStore: stores.resultStore,
		ArtifactStore:       stores.artifactStore,
		FluxStore:           stores.fluxStore,
		Uploader:            uploader,
		Logger:              logger,
	})

	result, err := orch.Run(ctx, starIDs)
	if err != nil {
		fatal(logger, "batch run", err)
	}

	if err := writeReports(*outputDir, result); err != nil {
		fatal(logger, "write reports", err)
	}

	fmt.Printf("Batch completed: %d stars (%d OK, %d skipped), %d candidates, %d errors\n",
		result.StarsProcessed, result.StarsOK, result.StarsSkipped,
		result.CandidatesStored, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  - %s\n", e)
	}
	fmt.Printf("Reports written to %s/\n", *outputDir)
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

// syntheticCatalog generates deterministic light curves locally so the
// full batch flow can run without an archive connection. Each star gets a
// transit whose period is derived from its ID.
type syntheticCatalog struct{}

func (c *syntheticCatalog) FetchStarMetadata(_ context.Context, starID string) (*domain.StarMetadata, error) {
	return &domain.StarMetadata{
		StarID:    starID,
		Name:      starID,
		Magnitude: 10.0,
		Mission:   "SYNTHETIC",
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}

func (c *syntheticCatalog) FetchLightCurve(_ context.Context, starID string) (*domain.LightCurve, error) {
	h := fnv.New64a()
	h.Write([]byte(starID))
	seed := int64(h.Sum64())

	// Period in [2, 10) days, duration ~3% of the period.
	period := 2.0 + float64(h.Sum64()%8000)/1000.0
	return pipeline.GenerateSynthetic(pipeline.SyntheticSpec{
		StarID:     starID,
		Samples:    2000,
		Cadence:    0.02,
		Period:     period,
		Duration:   period * 0.03,
		Depth:      0.015,
		NoiseSigma: 0.003,
		Trend:      0.02,
		BadFrac:    0.05,
		Seed:       seed,
	}), nil
}

// batchStores holds the persistence backends for one run.
type batchStores struct {
	starStore     storage.StarMetadataStore
	resultStore   storage.AnalysisResultStore
	artifactStore storage.ArtifactStore
	fluxStore     storage.FluxTimeseriesStore
}

// createStores wires either the in-memory stores or PostgreSQL plus
// ClickHouse, running migrations on the way in.
func createStores(ctx context.Context, useMemory bool) (*batchStores, func(), error) {
	if useMemory {
		return &batchStores{
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

	stores := &batchStores{
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

// resolveStars merges the --stars flag with the --stars-file contents.
func resolveStars(stars, starsFile string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string

	add := func(id string) {
		id = strings.TrimSpace(id)
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, id := range strings.Split(stars, ",") {
		add(id)
	}

	if starsFile != "" {
		data, err := os.ReadFile(starsFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", starsFile, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			add(line)
		}
	}

	return ids, nil
}

// writeReports renders the markdown and CSV outputs for the batch.
func writeReports(outputDir string, result *orchestrator.RunResult) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	report := reporting.NewGenerator().Build(result.Outcomes)

	files := map[string]string{
		"transit_report.md": reporting.RenderMarkdown(report),
		"candidates.csv":    reporting.RenderCandidatesCSV(report.Candidates),
		"star_outcomes.csv": reporting.RenderOutcomesCSV(report.StarOutcomes),
	}
	for name, content := range files {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
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
