package interfaces

import "context"

// TranslationBackend is the surface a translation framework dispatches to.
// Locale fallback, pluralization and interpolation stay on the caller's side.
type TranslationBackend interface {
	// AvailableLocales lists locales that have at least one stored record.
	// It never fails; an unreachable store yields an empty list.
	AvailableLocales(ctx context.Context) []string
	// StoreTranslations replaces every stored key the nested tree touches.
	StoreTranslations(ctx context.Context, locale string, tree map[string]any, opts StoreOptions) error
	// Lookup returns a scalar, a nested map or a not-found result.
	Lookup(ctx context.Context, locale, key string, scope []string, opts LookupOptions) (LookupResult, error)
}

// StoreOptions tunes a write.
type StoreOptions struct {
	// Escape keeps separators inside a single segment name from creating a
	// nesting level. Nil means true.
	Escape *bool
}

// EscapeKeys reports the effective escape flag.
func (o StoreOptions) EscapeKeys() bool {
	if o.Escape == nil {
		return true
	}
	return *o.Escape
}

// LookupOptions tunes a read.
type LookupOptions struct {
	// Separator used by the caller inside key and scope. Empty means ".".
	Separator string
}

// LookupResult is the outcome of a lookup. A zero value means not found,
// which is distinct from an empty string or an empty map.
type LookupResult struct {
	// Value holds a decoded scalar or a map[string]any subtree.
	Value any
	// Found is false when no record matched.
	Found bool
	// Nested is true when Value was merged from descendant records.
	Nested bool
}
