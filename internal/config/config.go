// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/glm-statusline/internal/logger"
	"github.com/j-veylop/glm-statusline/internal/modelname"
	"github.com/j-veylop/glm-statusline/internal/monitor"
)

// ErrInvalidLayout is returned when GLMLINE_LAYOUT is neither single nor double.
var ErrInvalidLayout = errors.New("invalid layout")

// Config holds the application configuration.
type Config struct {
	BaseURL         string
	AuthToken       string
	CachePath       string
	HistoryPath     string
	LogPath         string
	LogLevel        slog.Level
	Layout          string
	ProjectDir      string
	SettingsFiles   []string
	Models          modelname.Mapper
	Timeout         time.Duration
	NotifyThreshold int
}

// Load reads configuration from .env files, environment variables and the
// Claude settings files of projectDir and the home directory.
func Load(projectDir string) (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	settingsFiles := SettingsPaths(projectDir)
	settings := loadSettingsEnv(settingsFiles)

	lookup := func(key, defaultValue string) string {
		if value := getEnvString(key, ""); value != "" {
			return value
		}
		if value := settings.lookup(key); value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		BaseURL:     lookup(EnvBaseURL, ""),
		AuthToken:   lookup(EnvAuthToken, ""),
		CachePath:   getEnvString(EnvCachePath, getDefaultCachePath()),
		HistoryPath: getEnvOptional(EnvHistoryPath, getDefaultConfigPath("history.db")),
		LogPath:     getEnvOptional(EnvLogPath, getDefaultConfigPath("glmline.log")),
		LogLevel:    logger.ParseLevel(getEnvString(EnvLogLevel, defaultLogLevel)),
		Layout:      strings.ToLower(getEnvString(EnvLayout, defaultLayout)),
		ProjectDir:  projectDir,
		Models: modelname.Mapper{
			Opus:   lookup(EnvOpusModel, modelname.DefaultOpus),
			Sonnet: lookup(EnvSonnetModel, modelname.DefaultSonnet),
			Haiku:  lookup(EnvHaikuModel, modelname.DefaultHaiku),
		},
		SettingsFiles:   settingsFiles,
		Timeout:         getEnvDuration(EnvTimeout, defaultTimeout),
		NotifyThreshold: getEnvInt(EnvNotifyThreshold, 0),
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if err := ValidateLayout(cfg.Layout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateLayout checks that layout names a known status line layout.
func ValidateLayout(layout string) error {
	switch layout {
	case LayoutSingle, LayoutDouble:
		return nil
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidLayout, layout, LayoutSingle, LayoutDouble)
	}
}

// APIConfig resolves the monitor configuration. A nil config means live data
// cannot be fetched; the error says why.
func (c *Config) APIConfig() (*monitor.Config, error) {
	api, err := monitor.NewConfig(c.BaseURL, c.AuthToken, c.Timeout)
	if err != nil {
		logger.Debug("monitor API not configured", "error", err)
		return nil, err
	}
	return api, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, ".claude", ".env"),
		)
	}

	return paths
}

// getDefaultCachePath returns the default path for the snapshot cache file.
func getDefaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, appDirName, "usage.json")
	}
	return filepath.Join(os.TempDir(), appDirName, "usage.json")
}

// getDefaultConfigPath returns name inside ~/.config/glmline.
func getDefaultConfigPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOptional is like getEnvString, but a variable set to the empty string
// disables the feature instead of selecting the default.
func getEnvOptional(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "2s", "1500ms"; a bare number is read as milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
