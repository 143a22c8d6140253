// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings.
type Config struct {
	Addr    string
	DBPath  string
	LogPath string

	Redis      RedisConfig
	Processing ProcessingConfig

	// MaxUploadBytes caps image uploads.
	MaxUploadBytes int64
}

// RedisConfig configures the wardrobe list cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ProcessingConfig configures the image processing workers.
type ProcessingConfig struct {
	Workers      int
	QueueSize    int
	FetchLimit   int64
	FetchTimeout time.Duration
}

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultDBPath         = "omara.sqlite3"
	DefaultMaxUploadBytes = 10 << 20
)

var errInvalidEnv = errors.New("invalid environment variables")

// LoadDotEnv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var invalid []string

	str := func(key, def string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return def
	}
	num := func(key string, def int) int {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}

	cfg := Config{
		Addr:           str("OMARA_ADDR", DefaultAddr),
		DBPath:         str("OMARA_DB", DefaultDBPath),
		LogPath:        str("OMARA_LOG", ""),
		MaxUploadBytes: int64(num("OMARA_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
		Redis: RedisConfig{
			Addr:     str("REDIS_ADDR", ""),
			Password: str("REDIS_PASSWORD", ""),
			DB:       num("REDIS_DB", 0),
			TTL:      dur("REDIS_TTL", 10*time.Minute),
		},
		Processing: ProcessingConfig{
			Workers:      num("OMARA_PROCESS_WORKERS", 2),
			QueueSize:    num("OMARA_PROCESS_QUEUE", 256),
			FetchLimit:   int64(num("OMARA_FETCH_LIMIT_BYTES", 10<<20)),
			FetchTimeout: dur("OMARA_FETCH_TIMEOUT", 15*time.Second),
		},
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}
	if cfg.Processing.Workers == 0 {
		cfg.Processing.Workers = 1
	}

	return cfg, nil
}
