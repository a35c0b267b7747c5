// Package backend is the translation backend facade: it flattens and stores
// nested trees, answers lookups and enumerates locales.
package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-i18n-store/internal/codec"
	"github.com/goliatone/go-i18n-store/internal/keys"
	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/internal/lookup"
	"github.com/goliatone/go-i18n-store/internal/storage"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

var ErrLocaleRequired = errors.New("backend: locale is required")

// Config selects the key separator and the cleanup strategy. With
// CleanupWithDestroy, superseded records are removed one by one so destroy
// hooks run; otherwise they are removed in bulk.
type Config struct {
	Separator          string
	CleanupWithDestroy bool
}

// Backend implements interfaces.TranslationBackend on top of a storage.Store.
type Backend struct {
	store  storage.Store
	codec  *codec.Codec
	keys   keys.Flattener
	engine *lookup.Engine
	cfg    Config
	logger interfaces.Logger

	lookupLogger interfaces.Logger
	changes      *changeBroadcaster
}

var _ interfaces.TranslationBackend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithRegistry resolves deferred values against registry.
func WithRegistry(registry *codec.Registry) Option {
	return func(b *Backend) {
		if registry != nil {
			b.codec = codec.New(registry)
		}
	}
}

// WithLogger sets the backend logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLookupLogger sets the logger used on the read path. Defaults to the
// backend logger.
func WithLookupLogger(logger interfaces.Logger) Option {
	return func(b *Backend) {
		b.lookupLogger = logger
	}
}

// New constructs a backend over store.
func New(store storage.Store, cfg Config, opts ...Option) *Backend {
	b := &Backend{
		store:   store,
		codec:   codec.New(codec.NewRegistry()),
		keys:    keys.New(cfg.Separator),
		cfg:     cfg,
		logger:  logging.NoOp(),
		changes: newChangeBroadcaster(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.lookupLogger == nil {
		b.lookupLogger = b.logger
	}
	b.engine = lookup.NewEngine(store, b.codec, b.keys, lookup.WithLogger(b.lookupLogger))
	return b
}

// Registry returns the deferred value registry in use.
func (b *Backend) Registry() *codec.Registry {
	return b.codec.Registry()
}

// AvailableLocales lists stored locales. Storage failures are logged and
// reported as an empty list.
func (b *Backend) AvailableLocales(ctx context.Context) []string {
	locales, err := b.store.Locales(ctx)
	if err != nil {
		b.logger.WithContext(ctx).Warn("locales.unavailable", "error", err)
		return []string{}
	}
	if locales == nil {
		return []string{}
	}
	return locales
}

type entry struct {
	key            string
	value          string
	deferred       bool
	interpolations []string
}

// StoreTranslations flattens tree and replaces, key by key, every record on
// the path to each leaf and every record below it. All leaves are encoded
// before anything is written, so an unencodable value leaves the store
// untouched.
func (b *Backend) StoreTranslations(ctx context.Context, locale string, tree map[string]any, opts interfaces.StoreOptions) error {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ErrLocaleRequired
	}

	flat, err := b.keys.Flatten(tree, opts.EscapeKeys())
	if err != nil {
		return err
	}

	entries := make([]entry, 0, len(flat))
	for key, value := range flat {
		encoded, deferred, err := b.codec.Encode(value)
		if err != nil {
			return fmt.Errorf("backend: encode %s/%s: %w", locale, key, err)
		}
		entries = append(entries, entry{
			key:            key,
			value:          encoded,
			deferred:       deferred,
			interpolations: codec.Interpolations(value),
		})
	}
	slices.SortFunc(entries, func(x, y entry) int { return strings.Compare(x.key, y.key) })

	written := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := b.replace(ctx, locale, e); err != nil {
			return err
		}
		written = append(written, e.key)
	}
	b.logger.WithContext(ctx).Info("store.write", "locale", locale, "keys", len(entries))
	b.changes.Broadcast(ChangeEvent{Locale: locale, Keys: written, Timestamp: time.Now().UTC()})
	return nil
}

// Subscribe delivers change events until ctx is cancelled.
func (b *Backend) Subscribe(ctx context.Context) <-chan ChangeEvent {
	return b.changes.Subscribe(ctx)
}

func (b *Backend) replace(ctx context.Context, locale string, e entry) error {
	write := func(ctx context.Context, store storage.Store) error {
		if err := b.cleanup(ctx, store, locale, e.key); err != nil {
			return fmt.Errorf("backend: cleanup %s/%s: %w", locale, e.key, err)
		}
		_, err := store.Create(ctx, &storage.Record{
			Locale:         locale,
			Key:            e.key,
			Value:          e.value,
			Interpolations: e.interpolations,
			IsDeferred:     e.deferred,
		})
		if err != nil {
			return fmt.Errorf("backend: create %s/%s: %w", locale, e.key, err)
		}
		return nil
	}

	if tx, ok := b.store.(storage.Transactor); ok {
		return tx.WithinTx(ctx, write)
	}
	return write(ctx, b.store)
}

func (b *Backend) cleanup(ctx context.Context, store storage.Store, locale, key string) error {
	q := storage.NewLookupQuery(locale, b.keys.Expand(key), b.keys.Separator())
	logger := logging.WithTranslationContext(b.logger.WithContext(ctx), locale, key)

	if !b.cfg.CleanupWithDestroy {
		removed, err := store.DeleteMatching(ctx, q)
		if err != nil {
			return err
		}
		if removed > 0 {
			logger.Debug("store.cleanup", "removed", removed)
		}
		return nil
	}

	records, err := store.Find(ctx, q)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := store.Delete(ctx, rec); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	if len(records) > 0 {
		logger.Debug("store.cleanup", "removed", len(records), "strategy", "destroy")
	}
	return nil
}

// Lookup resolves key under scope in locale.
func (b *Backend) Lookup(ctx context.Context, locale, key string, scope []string, opts interfaces.LookupOptions) (interfaces.LookupResult, error) {
	return b.engine.Lookup(ctx, locale, key, scope, opts)
}

// Export rebuilds the full nested tree stored for locale.
func (b *Backend) Export(ctx context.Context, locale string) (map[string]any, error) {
	records, err := b.store.ListLocale(ctx, locale)
	if err != nil {
		return nil, fmt.Errorf("backend: list %s: %w", locale, err)
	}
	return b.engine.Merge("", records)
}
