// Package storage persists flat translation records and answers the exact key
// and prefix subtree queries the lookup path needs.
package storage

import (
	"context"

	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

// Store is the persistence contract for translation records.
type Store interface {
	Find(ctx context.Context, q Query) ([]*Record, error)
	ListLocale(ctx context.Context, locale string) ([]*Record, error)
	Create(ctx context.Context, rec *Record) (*Record, error)
	DeleteMatching(ctx context.Context, q Query) (int64, error)
	Delete(ctx context.Context, rec *Record) error
	Locales(ctx context.Context) ([]string, error)
}

// Transactor is implemented by stores able to run a unit of work atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
}

// DestroyHook runs after a record is removed through Delete. Bulk removals
// through DeleteMatching skip hooks.
type DestroyHook func(ctx context.Context, rec *Record) error

// Option configures a store.
type Option func(*options)

type options struct {
	hooks  []DestroyHook
	logger interfaces.Logger
}

// WithDestroyHooks registers hooks invoked by Delete.
func WithDestroyHooks(hooks ...DestroyHook) Option {
	return func(o *options) {
		for _, hook := range hooks {
			if hook != nil {
				o.hooks = append(o.hooks, hook)
			}
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func runDestroyHooks(ctx context.Context, hooks []DestroyHook, rec *Record) error {
	for _, hook := range hooks {
		if err := hook(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
