package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

const (
	rootModule    = "i18nstore"
	backendModule = "i18nstore.backend"
	storageModule = "i18nstore.storage"
	lookupModule  = "i18nstore.lookup"
)

const (
	fieldLocale = "locale"
	fieldKey    = "key"
)

// ModuleLogger returns a logger scoped to module, falling back to a no-op
// logger when provider is nil or returns nothing. The module name is attached
// as the "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// BackendLogger returns the logger namespace used by the backend facade.
func BackendLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, backendModule)
}

// StorageLogger returns the logger namespace used by storage adapters.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// LookupLogger returns the logger namespace used by the lookup engine.
func LookupLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, lookupModule)
}

// WithTranslationContext adds locale and key fields, skipping blanks.
func WithTranslationContext(logger interfaces.Logger, locale, key string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldLocale] = trimmed
	}
	if key != "" {
		fields[fieldKey] = key
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
