package codec

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Proc is a deferred translation value. It runs when the caller resolves the
// translation, receiving the locale and flat key it was stored under.
type Proc func(ctx context.Context, locale, key string, options map[string]any) (any, error)

// Deferred marks a tree leaf as a reference to a registered Proc.
type Deferred string

// Registry maps deferred names to callbacks. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	procs map[string]Proc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]Proc)}
}

// Register binds name to proc.
func (r *Registry) Register(name string, proc Proc) error {
	if r == nil {
		return errors.New("codec: registry is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("codec: deferred name cannot be empty")
	}
	if proc == nil {
		return fmt.Errorf("codec: deferred %q has nil callback", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.procs == nil {
		r.procs = make(map[string]Proc)
	}
	if _, exists := r.procs[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDeferred, name)
	}
	r.procs[name] = proc
	return nil
}

// MustRegister is Register for package initialisation; it panics on error.
func (r *Registry) MustRegister(name string, proc Proc) {
	if err := r.Register(name, proc); err != nil {
		panic(err)
	}
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.procs[name]
	return ok
}

// Resolve returns the Proc registered under name.
func (r *Registry) Resolve(name string) (Proc, error) {
	if r != nil {
		r.mu.RLock()
		proc, ok := r.procs[name]
		r.mu.RUnlock()
		if ok {
			return proc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDeferred, name)
}

// Names lists registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
