package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Seed       SeedConfig       `toml:"seed"`
	Forecast   ForecastConfig   `toml:"forecast"`
	TaskFields TaskFieldsConfig `toml:"task_fields"`
	Keys       KeyConfig        `toml:"keys"`
	Logging    LoggingConfig    `toml:"logging"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type SeedConfig struct {
	Path string `toml:"path"`
}

type ForecastConfig struct {
	HorizonWeeks int `toml:"horizon_weeks"`
}

type TaskFieldsConfig struct {
	ShowRevenue bool `toml:"show_revenue"`
	ShowTime    bool `toml:"show_time"`
	ShowStatus  bool `toml:"show_status"`
	ShowNotes   bool `toml:"show_notes"`
}

type KeyConfig struct {
	Undo        string `toml:"undo"`
	DismissUndo string `toml:"dismiss_undo"`
	Analytics   string `toml:"analytics"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default builds the baseline configuration; dbPath and seedPath come
// from platform path resolution and may be overridden by the config
// file or flags.
func Default(dbPath, seedPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Seed: SeedConfig{
			Path: seedPath,
		},
		Forecast: ForecastConfig{
			HorizonWeeks: 4,
		},
		TaskFields: TaskFieldsConfig{
			ShowRevenue: true,
			ShowTime:    true,
			ShowStatus:  true,
			ShowNotes:   false,
		},
		Keys: KeyConfig{
			Undo:        "u",
			DismissUndo: "x",
			Analytics:   "a",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if c.Forecast.HorizonWeeks < 0 {
		return fmt.Errorf("forecast.horizon_weeks must be >= 0, got %d", c.Forecast.HorizonWeeks)
	}
	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
