// Package i18nstore persists hierarchical translations in a single flat SQL
// table and serves exact key and subtree lookups from it.
package i18nstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-i18n-store/internal/backend"
	"github.com/goliatone/go-i18n-store/internal/codec"
	"github.com/goliatone/go-i18n-store/internal/commands"
	translationscmd "github.com/goliatone/go-i18n-store/internal/commands/translations"
	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/internal/logging/console"
	"github.com/goliatone/go-i18n-store/internal/logging/gologger"
	"github.com/goliatone/go-i18n-store/internal/storage"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

// ErrNoDatabase is returned by Migrate when the module runs on an injected
// store instead of a database.
var ErrNoDatabase = errors.New("i18nstore: module has no database")

// Option overrides module dependencies.
type Option func(*options)

type options struct {
	loggerProvider interfaces.LoggerProvider
	registry       *codec.Registry
	db             *bun.DB
	store          storage.Store
	hooks          []storage.DestroyHook
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) {
		o.loggerProvider = provider
	}
}

// WithRegistry resolves deferred values against registry.
func WithRegistry(registry *Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithBunDB uses an existing database instead of opening Config.Storage. The
// caller keeps ownership and Close leaves it open.
func WithBunDB(db *bun.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithStore bypasses the database entirely.
func WithStore(store Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithDestroyHooks registers hooks run when records are removed one by one,
// which happens when Config.CleanupWithDestroy is set.
func WithDestroyHooks(hooks ...DestroyHook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// Module is the assembled translation store.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
	db       *bun.DB
	ownsDB   bool
	store    storage.Store
	backend  *backend.Backend
}

// New validates cfg and wires storage, the backend and logging.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.loggerProvider
	if provider == nil {
		var err error
		provider, err = newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
	}

	m := &Module{
		cfg:      cfg,
		provider: provider,
		logger:   logging.ModuleLogger(provider, "i18nstore"),
		store:    o.store,
	}

	if m.store == nil {
		storageLogger := logging.StorageLogger(provider)
		m.db = o.db
		if m.db == nil {
			db, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN, cfg.Storage.MaxOpenConns)
			if err != nil {
				return nil, err
			}
			m.db = db
			m.ownsDB = true
		}
		if cfg.Storage.AutoMigrate {
			if err := m.Migrate(ctx); err != nil {
				_ = m.Close()
				return nil, err
			}
		}
		m.store = storage.NewBunStore(m.db,
			storage.WithDestroyHooks(o.hooks...),
			storage.WithLogger(storageLogger),
		)
	}

	m.backend = backend.New(m.store,
		backend.Config{
			Separator:          cfg.Separator,
			CleanupWithDestroy: cfg.CleanupWithDestroy,
		},
		backend.WithRegistry(o.registry),
		backend.WithLogger(logging.BackendLogger(provider)),
		backend.WithLookupLogger(logging.LookupLogger(provider)),
	)

	m.logger.Info("module.ready",
		"driver", cfg.Storage.Driver,
		"cleanup_with_destroy", cfg.CleanupWithDestroy,
	)
	return m, nil
}

// Backend returns the translation backend.
func (m *Module) Backend() *Backend {
	return m.backend
}

// Store returns the underlying record store.
func (m *Module) Store() Store {
	return m.store
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// LoggerProvider returns the provider shared by all module loggers.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.provider
}

// StoreTranslationsHandler returns a command handler writing trees through the backend.
func (m *Module) StoreTranslationsHandler() *translationscmd.StoreTranslationsHandler {
	return translationscmd.NewStoreTranslationsHandler(m.backend, commands.CommandLogger(m.provider, "translations"))
}

// ImportTranslationsHandler returns a command handler importing locale files.
func (m *Module) ImportTranslationsHandler() *translationscmd.ImportTranslationsHandler {
	return translationscmd.NewImportTranslationsHandler(m.backend, commands.CommandLogger(m.provider, "translations"))
}

// Migrate applies pending schema migrations.
func (m *Module) Migrate(ctx context.Context) error {
	if m.db == nil {
		return ErrNoDatabase
	}
	return storage.Migrate(ctx, m.db, m.cfg.Storage.MigrationsTable, logging.StorageLogger(m.provider))
}

// Close releases the database when the module opened it.
func (m *Module) Close() error {
	if m.db == nil || !m.ownsDB {
		return nil
	}
	if err := m.db.Close(); err != nil {
		return fmt.Errorf("i18nstore: close database: %w", err)
	}
	return nil
}

func newLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		level := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	}
}
