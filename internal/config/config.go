package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults shared by the viper defaults and the Default* helpers used by
// library callers that never load configuration.
const (
	DefaultEnv               = "development"
	DefaultLogLevel          = "info"
	DefaultMarketCity        = "Tucson"
	DefaultMaxAttempts       = 3
	DefaultConcurrency       = 4
	DefaultNewListingsShare  = 0.25
	DefaultPendingShare      = 0.10
	DefaultCanceledShare     = 0.05
	DefaultShortWindow       = 3
	DefaultLongWindow        = 6
	DefaultTrendWindow       = 6
	DefaultForecastHorizon   = 3
	DefaultConfigFileEnvName = "MLS_CONFIG_FILE"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig
	Pipeline   PipelineConfig
	Statistics StatisticsConfig
	Forecast   ForecastConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Env      string
	LogLevel string
}

// PipelineConfig controls the extraction orchestrator.
type PipelineConfig struct {
	MarketCity  string
	MaxAttempts int
	Concurrency int
	Strict      bool
}

// StatisticsConfig holds the heuristic shares used to approximate listing
// counts that MLS report text does not carry.
type StatisticsConfig struct {
	NewListingsShare float64
	PendingShare     float64
	CanceledShare    float64
}

// ForecastConfig holds the forecast engine windows.
type ForecastConfig struct {
	ShortWindow int
	LongWindow  int
	TrendWindow int
	Horizon     int
}

// DefaultStatistics returns the statistics heuristics used when nothing is configured.
func DefaultStatistics() StatisticsConfig {
	return StatisticsConfig{
		NewListingsShare: DefaultNewListingsShare,
		PendingShare:     DefaultPendingShare,
		CanceledShare:    DefaultCanceledShare,
	}
}

// DefaultForecast returns the forecast windows used when nothing is configured.
func DefaultForecast() ForecastConfig {
	return ForecastConfig{
		ShortWindow: DefaultShortWindow,
		LongWindow:  DefaultLongWindow,
		TrendWindow: DefaultTrendWindow,
		Horizon:     DefaultForecastHorizon,
	}
}

// Load reads configuration from an optional .env file, an optional config
// file named by MLS_CONFIG_FILE, and environment variables, in increasing
// order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	v.SetDefault("ENV", DefaultEnv)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("MARKET_CITY", DefaultMarketCity)
	v.SetDefault("PIPELINE_MAX_ATTEMPTS", DefaultMaxAttempts)
	v.SetDefault("PIPELINE_CONCURRENCY", DefaultConcurrency)
	v.SetDefault("PIPELINE_STRICT", false)
	v.SetDefault("STATS_NEW_LISTINGS_SHARE", DefaultNewListingsShare)
	v.SetDefault("STATS_PENDING_SHARE", DefaultPendingShare)
	v.SetDefault("STATS_CANCELED_SHARE", DefaultCanceledShare)
	v.SetDefault("FORECAST_SHORT_WINDOW", DefaultShortWindow)
	v.SetDefault("FORECAST_LONG_WINDOW", DefaultLongWindow)
	v.SetDefault("FORECAST_TREND_WINDOW", DefaultTrendWindow)
	v.SetDefault("FORECAST_HORIZON", DefaultForecastHorizon)

	v.AutomaticEnv()

	if path := v.GetString(DefaultConfigFileEnvName); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Pipeline: PipelineConfig{
			MarketCity:  strings.TrimSpace(v.GetString("MARKET_CITY")),
			MaxAttempts: v.GetInt("PIPELINE_MAX_ATTEMPTS"),
			Concurrency: v.GetInt("PIPELINE_CONCURRENCY"),
			Strict:      v.GetBool("PIPELINE_STRICT"),
		},
		Statistics: StatisticsConfig{
			NewListingsShare: v.GetFloat64("STATS_NEW_LISTINGS_SHARE"),
			PendingShare:     v.GetFloat64("STATS_PENDING_SHARE"),
			CanceledShare:    v.GetFloat64("STATS_CANCELED_SHARE"),
		},
		Forecast: ForecastConfig{
			ShortWindow: v.GetInt("FORECAST_SHORT_WINDOW"),
			LongWindow:  v.GetInt("FORECAST_LONG_WINDOW"),
			TrendWindow: v.GetInt("FORECAST_TREND_WINDOW"),
			Horizon:     v.GetInt("FORECAST_HORIZON"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Pipeline.MarketCity == "" {
		return fmt.Errorf("MARKET_CITY is required")
	}
	if c.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("PIPELINE_MAX_ATTEMPTS must be at least 1")
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("PIPELINE_CONCURRENCY must be at least 1")
	}

	if err := c.Statistics.Validate(); err != nil {
		return err
	}

	return c.Forecast.Validate()
}

// Validate checks that every heuristic share is a fraction.
func (s StatisticsConfig) Validate() error {
	shares := []struct {
		name  string
		value float64
	}{
		{"STATS_NEW_LISTINGS_SHARE", s.NewListingsShare},
		{"STATS_PENDING_SHARE", s.PendingShare},
		{"STATS_CANCELED_SHARE", s.CanceledShare},
	}
	for _, share := range shares {
		if share.value < 0 || share.value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", share.name, share.value)
		}
	}
	return nil
}

// Validate checks the forecast windows.
func (f ForecastConfig) Validate() error {
	if f.ShortWindow < 1 {
		return fmt.Errorf("FORECAST_SHORT_WINDOW must be at least 1")
	}
	if f.LongWindow < f.ShortWindow {
		return fmt.Errorf("FORECAST_LONG_WINDOW must be greater than or equal to FORECAST_SHORT_WINDOW")
	}
	if f.TrendWindow < 2 {
		return fmt.Errorf("FORECAST_TREND_WINDOW must be at least 2")
	}
	if f.Horizon < 1 {
		return fmt.Errorf("FORECAST_HORIZON must be at least 1")
	}
	return nil
}
