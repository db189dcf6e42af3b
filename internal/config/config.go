// Package config contains everything related to configuration
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath string `koanf:"database_path"`
	LogFile      string `koanf:"log_file"`
	LogLevel     string `koanf:"log_level"`

	LeetCodeCookie   string `koanf:"leetcode_cookie"`
	LeetCodeCSRF     string `koanf:"leetcode_csrf"`
	LeetCodeUsername string `koanf:"leetcode_username"`
	LeetCodeUserSlug string `koanf:"leetcode_user_slug"`

	CollectInterval   time.Duration `koanf:"collect_interval"`
	MasteryImportPath string        `koanf:"mastery_import_path"`

	// MetricsAddr enables the Prometheus endpoint when set, e.g. ":9464".
	MetricsAddr          string `koanf:"metrics_addr"`
	NotificationsEnabled bool   `koanf:"notifications"`

	RegressionWindow  int `koanf:"regression_window"`
	PredictionHorizon int `koanf:"prediction_horizon"`
	TopSkills         int `koanf:"top_skills"`

	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default values
const (
	defaultCollectInterval   = 6 * time.Hour
	defaultRegressionWindow  = 14
	defaultPredictionHorizon = 730
	defaultTopSkills         = 8

	envPrefix = "LCD_"
)

// HasCredentials reports whether the upstream session is configured.
func (c *Config) HasCredentials() bool {
	return c.LeetCodeCookie != "" && c.LeetCodeCSRF != "" && c.LeetCodeUserSlug != ""
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	dir := getConfigDir()
	return &Config{
		DatabasePath:         filepath.Join(dir, "history.db"),
		LogFile:              filepath.Join(dir, "lcd.log"),
		LogLevel:             "info",
		CollectInterval:      defaultCollectInterval,
		MasteryImportPath:    filepath.Join(dir, "mastery.json"),
		NotificationsEnabled: true,
		RegressionWindow:     defaultRegressionWindow,
		PredictionHorizon:    defaultPredictionHorizon,
		TopSkills:            defaultTopSkills,
	}
}

// Load builds the configuration by layering, lowest precedence first:
// defaults, .env files, the YAML config file, LCD_* variables, and finally
// the unprefixed LEETCODE_* and COLLECT_INTERVAL variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	k := koanf.New(".")

	configFile := getConfigFilePath()
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configFile, err)
		}
	}

	// LCD_DATABASE_PATH -> database_path
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFile = configFile

	cfg.LeetCodeCookie = getEnvString("LEETCODE_COOKIE", cfg.LeetCodeCookie)
	cfg.LeetCodeCSRF = getEnvString("LEETCODE_CSRF", cfg.LeetCodeCSRF)
	cfg.LeetCodeUsername = getEnvString("LEETCODE_USERNAME", cfg.LeetCodeUsername)
	cfg.LeetCodeUserSlug = getEnvString("LEETCODE_USER_SLUG", cfg.LeetCodeUserSlug)
	cfg.CollectInterval = getEnvDuration("COLLECT_INTERVAL", cfg.CollectInterval)

	if cfg.LeetCodeUserSlug == "" {
		cfg.LeetCodeUserSlug = cfg.LeetCodeUsername
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure import directory exists so it can be watched
	if err := ensureDir(filepath.Dir(cfg.MasteryImportPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the services cannot run with. Missing
// credentials are allowed; collection reports them when attempted.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path must not be empty"))
	}
	if c.CollectInterval <= 0 {
		errs = append(errs, fmt.Errorf("collect_interval must be positive, got %s", c.CollectInterval))
	}
	if c.RegressionWindow <= 0 {
		errs = append(errs, fmt.Errorf("regression_window must be positive, got %d", c.RegressionWindow))
	}
	if c.PredictionHorizon <= 0 {
		errs = append(errs, fmt.Errorf("prediction_horizon must be positive, got %d", c.PredictionHorizon))
	}
	if c.TopSkills <= 0 {
		errs = append(errs, fmt.Errorf("top_skills must be positive, got %d", c.TopSkills))
	}
	return errors.Join(errs...)
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
			filepath.Join(home, ".config", "lcd", ".env"),
			filepath.Join(home, ".lcd", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getConfigFilePath returns the YAML file to load: LCD_CONFIG when set,
// otherwise config.yaml in the config directory if it exists.
func getConfigFilePath() string {
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		return path
	}
	path := filepath.Join(getConfigDir(), "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// getConfigDir returns the directory holding the database, log and config.
func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "lcd")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
