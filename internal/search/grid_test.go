package search

import (
	"testing"

	"transit-search-lab/internal/config"
)

func TestBuildGrid(t *testing.T) {
	cfg := config.Default()

	grid, err := BuildGrid(cfg, 27.0)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	if err := grid.Validate(); err != nil {
		t.Fatalf("grid does not validate: %v", err)
	}

	if got := grid.Periods[0]; got < cfg.PeriodMin || got > cfg.PeriodMin*1.01 {
		t.Errorf("First period %v should sit at period_min %v", got, cfg.PeriodMin)
	}
	last := grid.Periods[len(grid.Periods)-1]
	if last > cfg.PeriodMax || last < cfg.PeriodMax*0.99 {
		t.Errorf("Last period %v should sit at period_max %v", last, cfg.PeriodMax)
	}

	if len(grid.Durations) != cfg.DurationSteps {
		t.Errorf("Expected %d durations, got %d", cfg.DurationSteps, len(grid.Durations))
	}
	if grid.Durations[0] != cfg.DurationMin {
		t.Errorf("First duration %v, want %v", grid.Durations[0], cfg.DurationMin)
	}
	if grid.Durations[len(grid.Durations)-1] != cfg.DurationMax {
		t.Errorf("Last duration %v, want %v", grid.Durations[len(grid.Durations)-1], cfg.DurationMax)
	}

	if grid.PhaseResolution != cfg.PhaseResolution {
		t.Errorf("PhaseResolution %d, want %d", grid.PhaseResolution, cfg.PhaseResolution)
	}
	if grid.MinInBoxSamples != cfg.MinInBoxSamples {
		t.Errorf("MinInBoxSamples %d, want %d", grid.MinInBoxSamples, cfg.MinInBoxSamples)
	}
}

func TestBuildGrid_LongerBaselineGivesFinerGrid(t *testing.T) {
	cfg := config.Default()

	short, err := BuildGrid(cfg, 10.0)
	if err != nil {
		t.Fatalf("BuildGrid short failed: %v", err)
	}
	long, err := BuildGrid(cfg, 100.0)
	if err != nil {
		t.Fatalf("BuildGrid long failed: %v", err)
	}

	if len(long.Periods) <= len(short.Periods) {
		t.Errorf("Longer baseline should need more periods: short=%d long=%d",
			len(short.Periods), len(long.Periods))
	}
}

func TestBuildGrid_CapsPeriodCount(t *testing.T) {
	cfg := config.Default()

	// An extreme baseline would want far more periods than the cap.
	grid, err := BuildGrid(cfg, 1e7)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	if len(grid.Periods) > maxPeriods {
		t.Errorf("Period axis %d exceeds cap %d", len(grid.Periods), maxPeriods)
	}
}

func TestBuildGrid_SingleDurationStep(t *testing.T) {
	cfg := config.Default()
	cfg.DurationSteps = 1

	grid, err := BuildGrid(cfg, 27.0)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	if len(grid.Durations) != 1 || grid.Durations[0] != cfg.DurationMin {
		t.Errorf("Expected single duration %v, got %v", cfg.DurationMin, grid.Durations)
	}
}

func TestBuildGrid_ZeroBaseline(t *testing.T) {
	if _, err := BuildGrid(config.Default(), 0); err == nil {
		t.Error("Expected error for zero baseline")
	}
}
