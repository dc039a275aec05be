// Package config loads and validates pipeline configuration.
// Configuration is constructed once per run and passed into each component;
// there is no ambient global state.
package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Configuration errors.
var (
	// ErrConfigInvalid is returned when a value is outside its documented range.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigIncompatible is returned when values are individually valid
	// but mutually inconsistent (e.g. detrend window shorter than the longest
	// candidate transit duration).
	ErrConfigIncompatible = errors.New("incompatible configuration")
)

// Detrend method names accepted by cleaning.
const (
	DetrendMedian     = "median"
	DetrendPolynomial = "polynomial"
)

// Pipeline holds the per-run configuration for the clean/search/rank core.
type Pipeline struct {
	// Cleaning
	QualityFilter bool    `mapstructure:"quality_filter"`
	OutlierSigma  float64 `mapstructure:"outlier_sigma"`
	OutlierWindow int     `mapstructure:"outlier_window"` // samples per sliding window
	DetrendMethod string  `mapstructure:"detrend_method"`
	DetrendWindow float64 `mapstructure:"detrend_window"` // days
	DetrendMargin float64 `mapstructure:"detrend_margin"` // window must exceed max duration by this factor

	// Search grid
	PeriodMin       float64 `mapstructure:"period_min"` // days
	PeriodMax       float64 `mapstructure:"period_max"` // days
	DurationMin     float64 `mapstructure:"duration_min"` // days
	DurationMax     float64 `mapstructure:"duration_max"` // days
	DurationSteps   int     `mapstructure:"duration_steps"`
	Oversample      int     `mapstructure:"oversample"` // frequency oversampling factor
	PhaseResolution int     `mapstructure:"phase_resolution"`
	MinInBoxSamples int     `mapstructure:"min_in_box_samples"`

	// Ranking and reporting
	TopN                  int     `mapstructure:"top_n"`
	SignificanceThreshold float64 `mapstructure:"significance_threshold"`

	// Execution
	Workers int `mapstructure:"workers"` // parallel period evaluations; 0 = GOMAXPROCS
}

// Load reads config.json from path, applying defaults and
// TRANSITLAB_-prefixed environment overrides, then validates.
func Load(path string) (*Pipeline, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	v.SetEnvPrefix("TRANSITLAB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Pipeline
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the validated default configuration.
func Default() *Pipeline {
	v := viper.New()
	setDefaults(v)
	var cfg Pipeline
	// Defaults always unmarshal and validate; panic would indicate a
	// programming error in setDefaults.
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// setDefaults mirrors the original system's config.json values where it had
// them (period range 0.5-30 d, durations as small fractions of a day).
func setDefaults(v *viper.Viper) {
	v.SetDefault("quality_filter", true)
	v.SetDefault("outlier_sigma", 5.0)
	v.SetDefault("outlier_window", 25)
	v.SetDefault("detrend_method", DetrendMedian)
	v.SetDefault("detrend_window", 2.0)
	v.SetDefault("detrend_margin", 3.0)

	v.SetDefault("period_min", 0.5)
	v.SetDefault("period_max", 30.0)
	v.SetDefault("duration_min", 0.01)
	v.SetDefault("duration_max", 0.3)
	v.SetDefault("duration_steps", 8)
	v.SetDefault("oversample", 3)
	v.SetDefault("phase_resolution", 200)
	v.SetDefault("min_in_box_samples", 3)

	v.SetDefault("top_n", 5)
	v.SetDefault("significance_threshold", 7.0)

	v.SetDefault("workers", 0)
}

// Validate fails fast before any computation starts.
// Range violations return ErrConfigInvalid; mutually inconsistent values
// return ErrConfigIncompatible.
func (c *Pipeline) Validate() error {
	if c.OutlierSigma <= 0 {
		return fmt.Errorf("%w: outlier_sigma %v must be > 0", ErrConfigInvalid, c.OutlierSigma)
	}
	if c.OutlierWindow < 3 {
		return fmt.Errorf("%w: outlier_window %d must be >= 3", ErrConfigInvalid, c.OutlierWindow)
	}
	if c.DetrendMethod != DetrendMedian && c.DetrendMethod != DetrendPolynomial {
		return fmt.Errorf("%w: detrend_method %q must be %q or %q",
			ErrConfigInvalid, c.DetrendMethod, DetrendMedian, DetrendPolynomial)
	}
	if c.DetrendWindow <= 0 {
		return fmt.Errorf("%w: detrend_window %v must be > 0", ErrConfigInvalid, c.DetrendWindow)
	}
	if c.DetrendMargin < 1 {
		return fmt.Errorf("%w: detrend_margin %v must be >= 1", ErrConfigInvalid, c.DetrendMargin)
	}
	if c.PeriodMin <= 0 || c.PeriodMax <= 0 || c.PeriodMin >= c.PeriodMax {
		return fmt.Errorf("%w: period range [%v, %v] must satisfy 0 < min < max",
			ErrConfigInvalid, c.PeriodMin, c.PeriodMax)
	}
	if c.DurationMin <= 0 || c.DurationMax <= 0 || c.DurationMin >= c.DurationMax {
		return fmt.Errorf("%w: duration range [%v, %v] must satisfy 0 < min < max",
			ErrConfigInvalid, c.DurationMin, c.DurationMax)
	}
	if c.DurationSteps < 1 {
		return fmt.Errorf("%w: duration_steps %d must be >= 1", ErrConfigInvalid, c.DurationSteps)
	}
	if c.Oversample < 1 {
		return fmt.Errorf("%w: oversample %d must be >= 1", ErrConfigInvalid, c.Oversample)
	}
	if c.PhaseResolution < 2 {
		return fmt.Errorf("%w: phase_resolution %d must be >= 2", ErrConfigInvalid, c.PhaseResolution)
	}
	if c.MinInBoxSamples < 1 {
		return fmt.Errorf("%w: min_in_box_samples %d must be >= 1", ErrConfigInvalid, c.MinInBoxSamples)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n %d must be >= 1", ErrConfigInvalid, c.TopN)
	}
	if c.SignificanceThreshold < 0 {
		return fmt.Errorf("%w: significance_threshold %v must be >= 0", ErrConfigInvalid, c.SignificanceThreshold)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d must be >= 0", ErrConfigInvalid, c.Workers)
	}

	// A transit cannot last longer than its own period.
	if c.DurationMax >= c.PeriodMin {
		return fmt.Errorf("%w: duration_max %v must be < period_min %v",
			ErrConfigIncompatible, c.DurationMax, c.PeriodMin)
	}

	// Detrending with a window comparable to the transit duration removes
	// the transit itself. Require window >= max duration * margin.
	if c.DetrendWindow < c.DurationMax*c.DetrendMargin {
		return fmt.Errorf("%w: detrend_window %v < duration_max %v * margin %v; genuine transits would be partially removed",
			ErrConfigIncompatible, c.DetrendWindow, c.DurationMax, c.DetrendMargin)
	}

	return nil
}

// Storage holds connection settings for the persistence and artifact
// collaborators, sourced from the environment (the original system kept
// these in a .env file).
type Storage struct {
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	BucketProcessed string `envconfig:"MINIO_BUCKET_PROCESSED" default:"processed-curves"`
	BucketVisualize string `envconfig:"MINIO_BUCKET_VISUALIZE" default:"transit-plots"`
}

// LoadStorage reads storage settings from the environment.
func LoadStorage() (*Storage, error) {
	var s Storage
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("process storage env: %w", err)
	}
	return &s, nil
}
