package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"QuantMarketLab/internal/model"
)

// Config holds all application configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		Key            string `yaml:"key"`
		CallsPerMinute int    `yaml:"calls_per_minute"`
	} `yaml:"api"`
	Assets []model.Asset `yaml:"assets"`
	Data   struct {
		RawDir       string `yaml:"raw_dir"`
		ProcessedDir string `yaml:"processed_dir"`
		ResultsDir   string `yaml:"results_dir"`
		BackupDir    string `yaml:"backup_dir"`
	} `yaml:"data"`
	Backups struct {
		Enabled     bool `yaml:"enabled"`
		MaxPerAsset int  `yaml:"max_per_asset"`
	} `yaml:"backups"`
	Analysis struct {
		PointMultiplier float64 `yaml:"point_multiplier"`
		PointDecimals   int     `yaml:"point_decimals"`
	} `yaml:"analysis"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Dashboard struct {
		Listen string `yaml:"listen"`
	} `yaml:"dashboard"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing config file is not an error;
// everything has a default except the API key and the assets list.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("QUANTLAB_LISTEN"); v != "" {
		cfg.Dashboard.Listen = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("POINT_MULTIPLIER"); v != "" {
		if m, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.PointMultiplier = m
		}
	}

	// Defaults
	if cfg.Data.RawDir == "" {
		cfg.Data.RawDir = "data/raw"
	}
	if cfg.Data.ProcessedDir == "" {
		cfg.Data.ProcessedDir = "data/processed"
	}
	if cfg.Data.ResultsDir == "" {
		cfg.Data.ResultsDir = "results"
	}
	if cfg.Data.BackupDir == "" {
		cfg.Data.BackupDir = "data/backups"
	}
	if cfg.Backups.MaxPerAsset == 0 {
		cfg.Backups.MaxPerAsset = 5
	}
	if cfg.Analysis.PointMultiplier == 0 {
		cfg.Analysis.PointMultiplier = 10
	}
	if cfg.Analysis.PointDecimals == 0 {
		cfg.Analysis.PointDecimals = 2
	}
	if cfg.API.CallsPerMinute == 0 {
		cfg.API.CallsPerMinute = 5
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 0 22 * * 1-5"
	}
	if cfg.Dashboard.Listen == "" {
		cfg.Dashboard.Listen = ":8080"
	}

	return cfg, nil
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("at least one asset must be configured")
	}
	for _, a := range c.Assets {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForFetch additionally requires the API credentials.
func (c *Config) ValidateForFetch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required (or set ALPHAVANTAGE_API_KEY)")
	}
	return nil
}

// Asset returns the configured asset with the given name.
func (c *Config) Asset(name string) (model.Asset, bool) {
	for _, a := range c.Assets {
		if a.Name == name {
			return a, true
		}
	}
	return model.Asset{}, false
}
