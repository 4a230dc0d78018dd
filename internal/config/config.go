// Package config holds runtime settings. Values come from defaults, then an
// optional .env file and the environment, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv
const (
	EnvTicksPerSecond = "IDLE_TICKS_PER_SECOND"
	EnvContent        = "IDLE_CONTENT"
	EnvLogLevel       = "IDLE_LOG_LEVEL"
	EnvListen         = "IDLE_LISTEN"
	EnvSnapshotEvery  = "IDLE_SNAPSHOT_EVERY"
)

// Config holds the application configuration.
type Config struct {
	TicksPerSecond int
	ContentFile    string
	LogLevel       string
	ListenAddr     string

	// SnapshotEvery is how many ticks pass between two broadcast snapshots
	SnapshotEvery int
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		TicksPerSecond: 5,
		ContentFile:    "data/base_game.yaml",
		LogLevel:       "info",
		ListenAddr:     ":8080",
		SnapshotEvery:  5,
	}
}

// LoadDotEnv loads variables from path into the environment without overriding
// ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// FromEnv returns the defaults overridden by any IDLE_* environment variables
func FromEnv() (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvTicksPerSecond); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvTicksPerSecond, v, err)
		}
		cfg.TicksPerSecond = n
	}
	if v := os.Getenv(EnvContent); v != "" {
		cfg.ContentFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv(EnvSnapshotEvery); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", EnvSnapshotEvery, v, err)
		}
		cfg.SnapshotEvery = n
	}

	return cfg, cfg.Validate()
}

// Validate checks that every field is usable
func (c Config) Validate() error {
	if c.TicksPerSecond <= 0 || c.TicksPerSecond > 1000 {
		return fmt.Errorf("ticks per second must be in 1..1000, got %d", c.TicksPerSecond)
	}
	if c.ContentFile == "" {
		return fmt.Errorf("content file must be set")
	}
	if c.SnapshotEvery <= 0 {
		return fmt.Errorf("snapshot interval must be positive, got %d", c.SnapshotEvery)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
}

// TickInterval is the wall-clock period of one tick
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TicksPerSecond)
}
