// Package config loads runtime settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings
type Config struct {
	Profile   string
	SpeciesID string
	Name      string
	StoreKind string
	StorePath string
	Tick      time.Duration
	Addr      string
	LogLevel  slog.Level
}

// Defaults returns the settings used when nothing is set.
func Defaults() Config {
	return Config{
		Profile:   "default",
		SpeciesID: "jello",
		StoreKind: "file",
		Tick:      time.Second,
		Addr:      ":8080",
		LogLevel:  slog.LevelInfo,
	}
}

// Load reads envFile if it exists, then the JELLO_* environment variables.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Defaults()
	setString(&cfg.Profile, "JELLO_PROFILE")
	setString(&cfg.SpeciesID, "JELLO_SPECIES")
	setString(&cfg.Name, "JELLO_NAME")
	setString(&cfg.StorePath, "JELLO_STORE_PATH")
	setString(&cfg.Addr, "JELLO_ADDR")

	if v, ok := lookup("JELLO_STORE"); ok {
		switch v {
		case "file", "sqlite":
			cfg.StoreKind = v
		default:
			return Config{}, fmt.Errorf("JELLO_STORE: unknown store %q", v)
		}
	}

	if v, ok := lookup("JELLO_TICK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("JELLO_TICK: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("JELLO_TICK: must be positive, got %s", d)
		}
		cfg.Tick = d
	}

	if v, ok := lookup("JELLO_LOG_LEVEL"); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("JELLO_LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
