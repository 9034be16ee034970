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
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pluginkit/pkg/db"
	"github.com/platinummonkey/pluginkit/pkg/translations"
)

// EnvFile is the name of the environment file at the plugin root
const EnvFile = ".env"

// Config holds all plugin runtime configuration
type Config struct {
	// Root is the plugin's root directory; relative paths resolve against it
	Root string

	DB            DBConfig
	Lang          LangConfig
	Observability ObservabilityConfig
}

// DBConfig holds database settings
type DBConfig struct {
	Engine  string
	File    string // Relative to Root unless absolute
	DSN     string
	Timeout time.Duration
}

// LangConfig holds localization settings
type LangConfig struct {
	Default         string
	TranslationsDir string // Relative to Root unless absolute
	Watch           bool
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       logrus.Level
	LogFormat      string // text or json
	MetricsEnabled bool
}

// LoadConfig loads the environment file and configuration from environment variables
func LoadConfig() (*Config, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}

	// Variables already present in the process environment win over the file
	envPath := filepath.Join(root, EnvFile)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	cfg := &Config{
		Root:          root,
		DB:            loadDBConfig(),
		Lang:          loadLangConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// resolveRoot returns PLUGIN_ROOT or the working directory, made absolute
func resolveRoot() (string, error) {
	root := getEnv("PLUGIN_ROOT", "")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve plugin root: %w", err)
	}
	return abs, nil
}

func loadDBConfig() DBConfig {
	return DBConfig{
		Engine:  getEnv("PLUGIN_DB_ENGINE", db.EngineSQLite),
		File:    getEnv("PLUGIN_DB_FILE", filepath.Join("db", "database.db")),
		DSN:     getEnv("PLUGIN_DB_DSN", ""),
		Timeout: getEnvDuration("PLUGIN_DB_TIMEOUT", 5*time.Second),
	}
}

func loadLangConfig() LangConfig {
	return LangConfig{
		Default:         getEnv("PLUGIN_LANG_DEFAULT", "ru_RU"),
		TranslationsDir: getEnv("PLUGIN_TRANSLATIONS_DIR", "translations"),
		Watch:           getEnvBool("PLUGIN_TRANSLATIONS_WATCH", false),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       parseLogLevel(getEnv("PLUGIN_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("PLUGIN_LOG_FORMAT", "text")),
		MetricsEnabled: getEnvBool("PLUGIN_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.DB.Engine {
	case db.EngineSQLite:
		if c.DB.File == "" {
			return fmt.Errorf("database file is required for sqlite engine")
		}
	case db.EnginePostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("database DSN is required for postgres engine")
		}
	default:
		return fmt.Errorf("invalid database engine: %s (must be sqlite or postgres)", c.DB.Engine)
	}

	if c.Lang.Default == "" {
		return fmt.Errorf("default language is required")
	}
	if err := translations.ValidateLang(c.Lang.Default); err != nil {
		return err
	}

	if c.Observability.LogFormat != "text" && c.Observability.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Observability.LogFormat)
	}

	return nil
}

// Path resolves rel against the plugin root; absolute paths are returned as is
func (c *Config) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

// DBFile returns the absolute sqlite database path
func (c *Config) DBFile() string {
	return c.Path(c.DB.File)
}

// TranslationsDir returns the absolute translations directory
func (c *Config) TranslationsDir() string {
	return c.Path(c.Lang.TranslationsDir)
}

// parseLogLevel parses a log level string, defaulting to info
func parseLogLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
