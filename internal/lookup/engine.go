// Package lookup resolves a locale and key against the flat translation
// store, returning either the exact value or the reconstructed subtree.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-i18n-store/internal/codec"
	"github.com/goliatone/go-i18n-store/internal/keys"
	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/internal/storage"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

// Finder is the read side of storage.Store the engine needs.
type Finder interface {
	Find(ctx context.Context, q storage.Query) ([]*storage.Record, error)
}

// Engine answers exact and subtree lookups.
type Engine struct {
	store  Finder
	codec  *codec.Codec
	keys   keys.Flattener
	logger interfaces.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine wires an engine. A nil codec uses an empty deferred registry.
func NewEngine(store Finder, c *codec.Codec, flattener keys.Flattener, opts ...Option) *Engine {
	if c == nil {
		c = codec.New(nil)
	}
	e := &Engine{
		store:  store,
		codec:  c,
		keys:   flattener,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Lookup resolves key under scope in locale. A missing key is reported through
// LookupResult.Found, never as an error.
func (e *Engine) Lookup(ctx context.Context, locale, key string, scope []string, opts interfaces.LookupOptions) (interfaces.LookupResult, error) {
	flat := e.keys.Normalize(key, scope, opts.Separator)
	if flat == "" {
		return interfaces.LookupResult{}, nil
	}

	rows, err := e.store.Find(ctx, storage.NewLookupQuery(locale, []string{flat}, e.keys.Separator()))
	if err != nil {
		return interfaces.LookupResult{}, fmt.Errorf("lookup: find %s/%s: %w", locale, flat, err)
	}

	logger := logging.WithTranslationContext(e.logger, locale, flat)
	switch {
	case len(rows) == 0:
		logger.Debug("lookup.miss")
		return interfaces.LookupResult{}, nil
	case len(rows) == 1 && rows[0].Key == flat:
		value, err := e.codec.Decode(rows[0].Value, rows[0].IsDeferred)
		if err != nil {
			return interfaces.LookupResult{}, fmt.Errorf("lookup: decode %s/%s: %w", locale, flat, err)
		}
		return interfaces.LookupResult{Value: value, Found: true}, nil
	}

	tree, err := e.Merge(flat, rows)
	if err != nil {
		return interfaces.LookupResult{}, err
	}
	if len(tree) == 0 {
		logger.Debug("lookup.miss", "rows", len(rows))
		return interfaces.LookupResult{}, nil
	}
	return interfaces.LookupResult{Value: tree, Found: true, Nested: true}, nil
}

// Merge rebuilds the nested tree below prefix from flat rows. An empty prefix
// rebuilds the whole locale. Rows equal to prefix, or outside it, contribute
// nothing. When two rows target the same position the later one wins.
func (e *Engine) Merge(prefix string, rows []*storage.Record) (map[string]any, error) {
	sep := e.keys.Separator()
	tree := make(map[string]any)
	for _, row := range rows {
		if row == nil || row.Key == prefix {
			continue
		}
		rest := row.Key
		if prefix != "" {
			if !strings.HasPrefix(row.Key, prefix+sep) {
				continue
			}
			rest = strings.TrimPrefix(row.Key, prefix+sep)
		}

		value, err := e.codec.Decode(row.Value, row.IsDeferred)
		if err != nil {
			return nil, fmt.Errorf("lookup: decode %s/%s: %w", row.Locale, row.Key, err)
		}
		insert(tree, e.keys.Split(rest), value, e.keys.Unescape)
	}
	return tree, nil
}

func insert(tree map[string]any, segments []string, value any, unescape func(string) string) {
	node := tree
	for i, segment := range segments {
		name := unescape(segment)
		if i == len(segments)-1 {
			node[name] = value
			return
		}
		child, ok := node[name].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[name] = child
		}
		node = child
	}
}
