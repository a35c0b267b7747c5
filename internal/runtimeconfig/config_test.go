package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-i18n-store/internal/runtimeconfig"
)

func TestConfigValidate_AcceptsDefaults(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RejectsUnknownDriver(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "oracle"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrStorageInvalid) {
		t.Fatalf("expected ErrStorageInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresDSN(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrStorageInvalid) {
		t.Fatalf("expected ErrStorageInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsPaddedSeparator(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Separator = " ."

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSeparatorInvalid) {
		t.Fatalf("expected ErrSeparatorInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i18nstore.toml")
	contents := `
cleanup_with_destroy = true

[storage]
driver = "postgres"
dsn = "postgres://localhost/i18n"

[logging]
provider = "gologger"
format = "json"
focus = ["i18nstore.backend"]
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.CleanupWithDestroy || cfg.Storage.Driver != "postgres" || cfg.Storage.DSN != "postgres://localhost/i18n" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Separator != "." || cfg.Storage.MigrationsTable != "i18nstore_migrations" {
		t.Fatalf("defaults were not kept: %+v", cfg)
	}
	if len(cfg.Logging.Focus) != 1 || cfg.Logging.Focus[0] != "i18nstore.backend" {
		t.Fatalf("unexpected focus %v", cfg.Logging.Focus)
	}
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("separator = ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runtimeconfig.Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
