package storage

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

type memoryKey struct {
	locale string
	key    string
}

// MemoryStore keeps records in a map keyed by (locale, key). Useful for tests
// and single-process deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[memoryKey]*Record
	hooks   []DestroyHook
	logger  interfaces.Logger
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := newOptions(opts)
	return &MemoryStore{
		records: make(map[memoryKey]*Record),
		hooks:   o.hooks,
		logger:  o.logger,
	}
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0)
	for _, rec := range s.records {
		if q.Matches(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *MemoryStore) ListLocale(ctx context.Context, locale string) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0)
	for key, rec := range s.records {
		if key.locale == locale {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, rec *Record) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := cloneRecord(rec)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	key := memoryKey{locale: stored.Locale, key: stored.Key}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[key]; exists {
		return nil, &ConflictError{Locale: stored.Locale, Key: stored.Key}
	}
	s.records[key] = stored
	return cloneRecord(stored), nil
}

func (s *MemoryStore) DeleteMatching(ctx context.Context, q Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for key, rec := range s.records {
		if q.Matches(rec) {
			delete(s.records, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Delete(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	key := memoryKey{locale: rec.Locale, key: rec.Key}

	s.mu.Lock()
	existing, ok := s.records[key]
	if !ok || (rec.ID != uuid.Nil && existing.ID != rec.ID) {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.records, key)
	s.mu.Unlock()

	s.logger.Debug("translation deleted", "locale", existing.Locale, "key", existing.Key)
	return runDestroyHooks(ctx, s.hooks, cloneRecord(existing))
}

func (s *MemoryStore) Locales(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range s.records {
		seen[key.locale] = struct{}{}
	}
	locales := make([]string, 0, len(seen))
	for locale := range seen {
		locales = append(locales, locale)
	}
	slices.Sort(locales)
	return locales, nil
}

func sortRecords(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		return strings.Compare(records[i].Key, records[j].Key) < 0
	})
}
