// Package config provides configuration management for Beatrix Photos.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DataConfig holds the on-disk layout settings.
type DataConfig struct {
	// Dir is the root directory for all persistent data.
	Dir string `mapstructure:"dir"`
}

// SnapshotConfig holds snapshot persistence settings.
// Supports a plain file backend and an embedded SQLite backend.
type SnapshotConfig struct {
	// Backend selects the snapshot store: "file" or "sqlite".
	Backend string `mapstructure:"backend"`

	// Path is the snapshot file location for the file backend.
	Path string `mapstructure:"path"`

	// SQLite settings (used when Backend is "sqlite")
	SQLitePath      string `mapstructure:"sqlite_path"`      // Path to the SQLite database file
	JournalMode     string `mapstructure:"journal_mode"`     // WAL, DELETE, TRUNCATE, etc.
	BusyTimeout     int    `mapstructure:"busy_timeout"`     // Milliseconds to wait for locks
	SynchronousMode string `mapstructure:"synchronous_mode"` // NORMAL, FULL, OFF
}

// IsEmbedded returns true if using the embedded database backend (SQLite).
func (c SnapshotConfig) IsEmbedded() bool {
	return c.Backend == "sqlite"
}

// SeedConfig holds the stock-account seeding settings. The stock user and
// album names themselves are fixed; only the surroundings are tunable.
type SeedConfig struct {
	// Dir is the directory scanned at startup for stock images.
	Dir string `mapstructure:"dir"`

	// StockPassword is assigned when the stock user has to be created.
	StockPassword string `mapstructure:"stock_password"`

	// MinPhotos and MaxPhotos bound the expected number of qualifying
	// seed images. A count outside the bounds logs a warning, nothing more.
	MinPhotos int `mapstructure:"min_photos"`
	MaxPhotos int `mapstructure:"max_photos"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

// Load reads configuration from the specified file and environment variables.
// Environment variables take precedence over file values.
// Environment variables are prefixed with BEATRIX_ and use _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Environment variable configuration
	v.SetEnvPrefix("BEATRIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file configuration
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/beatrix")
	}

	// Read config file (optional - environment variables can be used instead)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is acceptable - use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Data defaults
	v.SetDefault("data.dir", "./data")

	// Snapshot defaults
	v.SetDefault("snapshot.backend", "file")
	v.SetDefault("snapshot.path", "./data/users.dat")
	v.SetDefault("snapshot.sqlite_path", "./data/users.db")
	v.SetDefault("snapshot.journal_mode", "WAL")
	v.SetDefault("snapshot.busy_timeout", 5000)
	v.SetDefault("snapshot.synchronous_mode", "NORMAL")

	// Seed defaults
	v.SetDefault("seed.dir", "./data/stock")
	v.SetDefault("seed.stock_password", "stock")
	v.SetDefault("seed.min_photos", 5)
	v.SetDefault("seed.max_photos", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.time_format", "2006-01-02T15:04:05Z07:00")
}

// Validate checks the configuration for required values and valid ranges.
func (c *Config) Validate() error {
	validBackends := map[string]bool{"file": true, "sqlite": true}
	if !validBackends[c.Snapshot.Backend] {
		return fmt.Errorf("snapshot.backend must be 'file' or 'sqlite'")
	}

	if c.Snapshot.Backend == "file" && c.Snapshot.Path == "" {
		return fmt.Errorf("snapshot.path is required for file backend")
	}
	if c.Snapshot.Backend == "sqlite" && c.Snapshot.SQLitePath == "" {
		return fmt.Errorf("snapshot.sqlite_path is required for sqlite backend")
	}

	if c.Seed.Dir == "" {
		return fmt.Errorf("seed.dir is required")
	}
	if c.Seed.MinPhotos < 0 || c.Seed.MaxPhotos < c.Seed.MinPhotos {
		return fmt.Errorf("seed.min_photos/max_photos must form a valid range")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	return nil
}

// MustLoad loads configuration or panics on error.
// Useful for main function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
