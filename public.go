package i18nstore

import (
	"github.com/goliatone/go-i18n-store/internal/backend"
	"github.com/goliatone/go-i18n-store/internal/codec"
	"github.com/goliatone/go-i18n-store/internal/storage"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

type (
	// Backend is the translation backend facade.
	Backend = backend.Backend
	// TranslationBackend is the contract a translation framework dispatches to.
	TranslationBackend = interfaces.TranslationBackend
	StoreOptions       = interfaces.StoreOptions
	LookupOptions      = interfaces.LookupOptions
	LookupResult       = interfaces.LookupResult

	// Record is one persisted translation row.
	Record      = storage.Record
	Store       = storage.Store
	DestroyHook = storage.DestroyHook

	// Deferred names a registered callback stored in place of a value.
	Deferred = codec.Deferred
	Proc     = codec.Proc
	Registry = codec.Registry
)

var (
	ErrConflict        = storage.ErrConflict
	ErrMalformedValue  = codec.ErrMalformedValue
	ErrUnknownDeferred = codec.ErrUnknownDeferred
)

// NewRegistry returns an empty deferred value registry.
func NewRegistry() *Registry {
	return codec.NewRegistry()
}

// IsConflict reports whether err is a concurrent duplicate write.
func IsConflict(err error) bool {
	return storage.IsConflict(err)
}

// Escape returns StoreOptions with the escape flag set explicitly.
func Escape(enabled bool) StoreOptions {
	return StoreOptions{Escape: &enabled}
}
