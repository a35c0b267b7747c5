package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrSeparatorInvalid        = errors.New("i18nstore config: separator must be a single non-space character sequence")
	ErrStorageInvalid          = errors.New("i18nstore config: storage section is invalid")
	ErrLoggingProviderRequired = errors.New("i18nstore config: logging provider is required")
	ErrLoggingProviderUnknown  = errors.New("i18nstore config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("i18nstore config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("i18nstore config: logging format is invalid")
)

// Config aggregates key handling, cleanup strategy, storage and logging.
type Config struct {
	// Separator joins flat key segments. Empty means ".".
	Separator string `toml:"separator"`
	// CleanupWithDestroy removes superseded records one by one so destroy
	// hooks run, instead of a single bulk delete.
	CleanupWithDestroy bool          `toml:"cleanup_with_destroy"`
	Storage            StorageConfig `toml:"storage"`
	Logging            LoggingConfig `toml:"logging"`
}

// StorageConfig selects the database backing the store.
type StorageConfig struct {
	Driver          string `toml:"driver"`
	DSN             string `toml:"dsn"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MigrationsTable string `toml:"migrations_table"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// LoggingConfig selects and tunes the logger provider.
type LoggingConfig struct {
	Provider  string   `toml:"provider"`
	Level     string   `toml:"level"`
	Format    string   `toml:"format"`
	AddSource bool     `toml:"add_source"`
	Focus     []string `toml:"focus"`
}

// DefaultConfig returns a sqlite in-memory store with console logging.
func DefaultConfig() Config {
	return Config{
		Separator:          ".",
		CleanupWithDestroy: false,
		Storage: StorageConfig{
			Driver:          "sqlite3",
			DSN:             "file:i18nstore?mode=memory&cache=shared",
			MaxOpenConns:    1,
			MigrationsTable: "i18nstore_migrations",
			AutoMigrate:     true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Load reads a TOML file on top of DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("i18nstore config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Separator != "" && strings.TrimSpace(cfg.Separator) != cfg.Separator {
		return ErrSeparatorInvalid
	}
	if err := cfg.Storage.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInvalid, err)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func (s StorageConfig) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.Required, validation.In("sqlite3", "sqlite", "postgres", "postgresql", "pgx")),
		validation.Field(&s.DSN, validation.Required),
		validation.Field(&s.MaxOpenConns, validation.Min(0)),
	)
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
