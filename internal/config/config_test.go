package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.App.Env)
	}
	if cfg.App.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.App.LogLevel)
	}
	if cfg.Pipeline.MarketCity != DefaultMarketCity {
		t.Errorf("Expected market city %s, got %s", DefaultMarketCity, cfg.Pipeline.MarketCity)
	}
	if cfg.Pipeline.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", cfg.Pipeline.MaxAttempts)
	}
	if cfg.Pipeline.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", cfg.Pipeline.Concurrency)
	}
	if cfg.Pipeline.Strict {
		t.Error("Expected lenient pipeline by default")
	}
	if cfg.Statistics != DefaultStatistics() {
		t.Errorf("Expected default statistics heuristics, got %+v", cfg.Statistics)
	}
	if cfg.Forecast != DefaultForecast() {
		t.Errorf("Expected default forecast windows, got %+v", cfg.Forecast)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MARKET_CITY", "Phoenix")
	t.Setenv("PIPELINE_MAX_ATTEMPTS", "5")
	t.Setenv("PIPELINE_CONCURRENCY", "8")
	t.Setenv("PIPELINE_STRICT", "true")
	t.Setenv("STATS_NEW_LISTINGS_SHARE", "0.3")
	t.Setenv("FORECAST_HORIZON", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.App.Env)
	}
	if cfg.App.LogLevel != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.App.LogLevel)
	}
	if cfg.Pipeline.MarketCity != "Phoenix" {
		t.Errorf("Expected market city Phoenix, got %s", cfg.Pipeline.MarketCity)
	}
	if cfg.Pipeline.MaxAttempts != 5 {
		t.Errorf("Expected 5 attempts, got %d", cfg.Pipeline.MaxAttempts)
	}
	if cfg.Pipeline.Concurrency != 8 {
		t.Errorf("Expected concurrency 8, got %d", cfg.Pipeline.Concurrency)
	}
	if !cfg.Pipeline.Strict {
		t.Error("Expected strict pipeline")
	}
	if cfg.Statistics.NewListingsShare != 0.3 {
		t.Errorf("Expected new listings share 0.3, got %v", cfg.Statistics.NewListingsShare)
	}
	if cfg.Forecast.Horizon != 12 {
		t.Errorf("Expected horizon 12, got %d", cfg.Forecast.Horizon)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	clearConfigEnvVars(t)

	path := filepath.Join(t.TempDir(), "mls.yaml")
	content := "market_city: Denver\npipeline_max_attempts: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(DefaultConfigFileEnvName, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Pipeline.MarketCity != "Denver" {
		t.Errorf("Expected market city Denver, got %s", cfg.Pipeline.MarketCity)
	}
	if cfg.Pipeline.MaxAttempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", cfg.Pipeline.MaxAttempts)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv(DefaultConfigFileEnvName, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Expected error when config file does not exist")
	}
}

func TestLoad_InvalidShare(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("STATS_PENDING_SHARE", "1.5")

	if _, err := Load(); err == nil {
		t.Error("Expected error for share greater than 1")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:        AppConfig{Env: "development", LogLevel: "info"},
			Pipeline:   PipelineConfig{MarketCity: "Tucson", MaxAttempts: 3, Concurrency: 2},
			Statistics: DefaultStatistics(),
			Forecast:   DefaultForecast(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing market city", mutate: func(c *Config) { c.Pipeline.MarketCity = "" }, wantErr: true},
		{name: "zero attempts", mutate: func(c *Config) { c.Pipeline.MaxAttempts = 0 }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *Config) { c.Pipeline.Concurrency = 0 }, wantErr: true},
		{name: "negative share", mutate: func(c *Config) { c.Statistics.CanceledShare = -0.1 }, wantErr: true},
		{name: "short window zero", mutate: func(c *Config) { c.Forecast.ShortWindow = 0 }, wantErr: true},
		{name: "long shorter than short", mutate: func(c *Config) { c.Forecast.LongWindow = 2 }, wantErr: true},
		{name: "trend window too small", mutate: func(c *Config) { c.Forecast.TrendWindow = 1 }, wantErr: true},
		{name: "zero horizon", mutate: func(c *Config) { c.Forecast.Horizon = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// clearConfigEnvVars blanks every config-related environment variable for
// the duration of the test. viper treats empty values as unset.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "MARKET_CITY",
		"PIPELINE_MAX_ATTEMPTS", "PIPELINE_CONCURRENCY", "PIPELINE_STRICT",
		"STATS_NEW_LISTINGS_SHARE", "STATS_PENDING_SHARE", "STATS_CANCELED_SHARE",
		"FORECAST_SHORT_WINDOW", "FORECAST_LONG_WINDOW", "FORECAST_TREND_WINDOW", "FORECAST_HORIZON",
		DefaultConfigFileEnvName,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
