package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default configuration must validate: %v", err)
	}
	if cfg.DetrendMethod != DetrendMedian {
		t.Errorf("Default detrend method = %s, want %s", cfg.DetrendMethod, DetrendMedian)
	}
	if cfg.PeriodMin != 0.5 || cfg.PeriodMax != 30.0 {
		t.Errorf("Default period range = [%v, %v]", cfg.PeriodMin, cfg.PeriodMax)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"period_min": 1.0,
		"period_max": 15.0,
		"top_n": 3,
		"workers": 2
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.PeriodMin != 1.0 || cfg.PeriodMax != 15.0 {
		t.Errorf("Period range = [%v, %v], want [1, 15]", cfg.PeriodMin, cfg.PeriodMax)
	}
	if cfg.TopN != 3 {
		t.Errorf("TopN = %d, want 3", cfg.TopN)
	}
	// Unset keys keep their defaults.
	if cfg.OutlierSigma != 5.0 {
		t.Errorf("OutlierSigma = %v, want default 5.0", cfg.OutlierSigma)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"outlier_sigma": -1}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestValidate_RangeViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
	}{
		{"outlier_sigma", func(c *Pipeline) { c.OutlierSigma = 0 }},
		{"outlier_window", func(c *Pipeline) { c.OutlierWindow = 2 }},
		{"detrend_method", func(c *Pipeline) { c.DetrendMethod = "spline" }},
		{"detrend_window", func(c *Pipeline) { c.DetrendWindow = 0 }},
		{"detrend_margin", func(c *Pipeline) { c.DetrendMargin = 0.5 }},
		{"period range inverted", func(c *Pipeline) { c.PeriodMin = 10; c.PeriodMax = 5 }},
		{"period min nonpositive", func(c *Pipeline) { c.PeriodMin = 0 }},
		{"duration range inverted", func(c *Pipeline) { c.DurationMin = 0.3; c.DurationMax = 0.1 }},
		{"duration_steps", func(c *Pipeline) { c.DurationSteps = 0 }},
		{"oversample", func(c *Pipeline) { c.Oversample = 0 }},
		{"phase_resolution", func(c *Pipeline) { c.PhaseResolution = 1 }},
		{"min_in_box_samples", func(c *Pipeline) { c.MinInBoxSamples = 0 }},
		{"top_n", func(c *Pipeline) { c.TopN = 0 }},
		{"significance_threshold", func(c *Pipeline) { c.SignificanceThreshold = -1 }},
		{"workers", func(c *Pipeline) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("Expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestValidate_IncompatibleCombinations(t *testing.T) {
	t.Run("duration_max >= period_min", func(t *testing.T) {
		cfg := Default()
		cfg.PeriodMin = 0.2
		if err := cfg.Validate(); !errors.Is(err, ErrConfigIncompatible) {
			t.Errorf("Expected ErrConfigIncompatible, got %v", err)
		}
	})

	t.Run("detrend window too short for transits", func(t *testing.T) {
		cfg := Default()
		cfg.DetrendWindow = 0.5 // < duration_max 0.3 * margin 3.0
		if err := cfg.Validate(); !errors.Is(err, ErrConfigIncompatible) {
			t.Errorf("Expected ErrConfigIncompatible, got %v", err)
		}
	})
}

func TestLoadStorage_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/transit")
	// Register cleanup via t.Setenv, then clear so the defaults apply.
	t.Setenv("MINIO_BUCKET_PROCESSED", "x")
	t.Setenv("MINIO_BUCKET_VISUALIZE", "x")
	os.Unsetenv("MINIO_BUCKET_PROCESSED")
	os.Unsetenv("MINIO_BUCKET_VISUALIZE")

	s, err := LoadStorage()
	if err != nil {
		t.Fatalf("LoadStorage failed: %v", err)
	}

	if s.PostgresDSN != "postgres://localhost/transit" {
		t.Errorf("PostgresDSN = %s", s.PostgresDSN)
	}
	if s.BucketProcessed != "processed-curves" {
		t.Errorf("BucketProcessed = %s, want processed-curves", s.BucketProcessed)
	}
	if s.BucketVisualize != "transit-plots" {
		t.Errorf("BucketVisualize = %s, want transit-plots", s.BucketVisualize)
	}
}
