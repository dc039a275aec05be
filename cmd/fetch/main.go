// Package main fetches star metadata and raw photometry from the archive
// and registers the stars in PostgreSQL, without running any analysis.
// Useful for priming the database before a batch run.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"transit-search-lab/internal/catalog"
	"transit-search-lab/internal/config"
	"transit-search-lab/internal/storage"
	"transit-search-lab/internal/storage/migrations"
	pgstore "transit-search-lab/internal/storage/postgres"
)

func main() {
	archiveURL := flag.String("archive-url", os.Getenv("ARCHIVE_URL"), "Archive base URL")
	stars := flag.String("stars", "", "Comma-separated star IDs to fetch")
	dryRun := flag.Bool("dry-run", false, "Fetch and print only, do not store")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *archiveURL == "" {
		logger.Error("--archive-url or ARCHIVE_URL is required")
		os.Exit(1)
	}
	if *stars == "" {
		logger.Error("--stars is required")
		os.Exit(1)
	}

	ctx := context.Background()
	client := catalog.NewHTTPClient(*archiveURL)

	var starStore storage.StarMetadataStore
	if !*dryRun {
		storageCfg, err := config.LoadStorage()
		if err != nil {
			logger.Error("load storage config", "error", err)
			os.Exit(1)
		}
		if storageCfg.PostgresDSN == "" {
			logger.Error("POSTGRES_DSN is required (or use --dry-run)")
			os.Exit(1)
		}
		pool, err := pgstore.NewPool(ctx, storageCfg.PostgresDSN)
		if err != nil {
			logger.Error("connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Error("postgres migrations", "error", err)
			os.Exit(1)
		}
		starStore = pgstore.NewStarMetadataStore(pool)
	}

	fetched, failed := 0, 0
	for _, starID := range strings.Split(*stars, ",") {
		starID = strings.TrimSpace(starID)
		if starID == "" {
			continue
		}

		meta, err := client.FetchStarMetadata(ctx, starID)
		if err != nil {
			logger.Error("fetch metadata failed", "star_id", starID, "error", err)
			failed++
			continue
		}

		lc, err := client.FetchLightCurve(ctx, starID)
		if err != nil {
			logger.Error("fetch light curve failed", "star_id", starID, "error", err)
			failed++
			continue
		}

		fmt.Printf("%s: %s mission=%s mag=%.2f samples=%d baseline=%.2f d\n",
			meta.StarID, meta.Name, meta.Mission, meta.Magnitude, lc.Len(), lc.Baseline())

		if starStore != nil {
			if err := starStore.Insert(ctx, meta); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					logger.Info("star already registered", "star_id", starID)
				} else {
					logger.Error("store metadata failed", "star_id", starID, "error", err)
					failed++
					continue
				}
			}
		}
		fetched++
	}

	fmt.Printf("Fetched %d stars, %d failures\n", fetched, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
