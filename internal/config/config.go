// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/usestring/harmirror/internal/logging"
)

// Download defaults
const (
	DefaultBaseURL    = "https://app-polytrack.kodub.com/"
	DefaultWorkers    = 8
	DefaultRetries    = 5
	DefaultRetryDelay = 5000 // ms
)

// Config holds all configuration for the mirror tools.
type Config struct {
	Home              string        // HARMIRROR_HOME, default ~/.harmirror
	BaseURL           string        // HARMIRROR_BASE_URL, default DefaultBaseURL
	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms (30s)
	FetchWorkers      int           // FETCH_WORKERS, default 8
	FetchRetries      int           // FETCH_RETRIES, default 5
	FetchRetryDelay   time.Duration // FETCH_RETRY_DELAY_MS, default 5000ms (5s)

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Home:              getEnvString("HARMIRROR_HOME", defaultHome()),
		BaseURL:           getEnvString("HARMIRROR_BASE_URL", DefaultBaseURL),
		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 30000),
		FetchWorkers:      getEnvInt("FETCH_WORKERS", DefaultWorkers),
		FetchRetries:      getEnvInt("FETCH_RETRIES", DefaultRetries),
		FetchRetryDelay:   getEnvDurationMs("FETCH_RETRY_DELAY_MS", DefaultRetryDelay),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Logging returns the logging setup derived from this configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

// MirrorDir returns the directory a version is mirrored into.
func (c *Config) MirrorDir(version string) string {
	return filepath.Join(c.Home, "mirrors", version)
}

// HarDir returns the directory holding cleaned captures.
func (c *Config) HarDir() string {
	return filepath.Join(c.Home, "hars")
}

// RegistryPath returns the location of the versions file.
func (c *Config) RegistryPath() string {
	return filepath.Join(c.Home, "versions.yaml")
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".harmirror"
	}
	return filepath.Join(home, ".harmirror")
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
