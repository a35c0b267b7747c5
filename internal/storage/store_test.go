package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-i18n-store/pkg/testsupport"
)

type storeFactory func(t *testing.T, opts ...Option) Store

func storeFactories() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, opts ...Option) Store {
			return NewMemoryStore(opts...)
		},
		"bun": func(t *testing.T, opts ...Option) Store {
			return NewBunStore(newTestDB(t), opts...)
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("find exact and descendants", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store, "en", "foo", "foo.bar", "foo.bar.baz", "foo.qux", "foobar", "other")
				seed(t, store, "de", "foo.bar")

				records, err := store.Find(ctx, NewLookupQuery("en", []string{"foo", "foo.bar"}, ""))
				if err != nil {
					t.Fatalf("Find() error = %v", err)
				}
				want := []string{"foo", "foo.bar", "foo.bar.baz"}
				if got := recordKeys(records); !reflect.DeepEqual(got, want) {
					t.Fatalf("Find() keys = %v, want %v", got, want)
				}
			})

			t.Run("prefix match is literal", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store, "en", "a_b.c", "axb.c", "A_b.c", "a%b.c", "a%b.d")

				records, err := store.Find(ctx, Query{Locale: "en", Prefix: "a_b"})
				if err != nil {
					t.Fatalf("Find() error = %v", err)
				}
				if got := recordKeys(records); !reflect.DeepEqual(got, []string{"a_b.c"}) {
					t.Fatalf("Find(a_b) keys = %v", got)
				}

				records, err = store.Find(ctx, Query{Locale: "en", Prefix: "a%b"})
				if err != nil {
					t.Fatalf("Find() error = %v", err)
				}
				if got := recordKeys(records); !reflect.DeepEqual(got, []string{"a%b.c", "a%b.d"}) {
					t.Fatalf("Find(a%%b) keys = %v", got)
				}
			})

			t.Run("empty query matches nothing", func(t *testing.T) {
				store := factory(t)
				seed(t, store, "en", "foo")
				records, err := store.Find(context.Background(), Query{Locale: "en"})
				if err != nil {
					t.Fatalf("Find() error = %v", err)
				}
				if len(records) != 0 {
					t.Fatalf("expected no records, got %v", recordKeys(records))
				}
			})

			t.Run("create conflict", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store, "en", "foo")

				_, err := store.Create(ctx, &Record{Locale: "en", Key: "foo", Value: "again"})
				if !IsConflict(err) {
					t.Fatalf("expected conflict, got %v", err)
				}
				var conflict *ConflictError
				if !errors.As(err, &conflict) || conflict.Key != "foo" || conflict.Locale != "en" {
					t.Fatalf("expected ConflictError for en/foo, got %#v", err)
				}

				if _, err := store.Create(ctx, &Record{Locale: "de", Key: "foo"}); err != nil {
					t.Fatalf("same key in another locale should be allowed: %v", err)
				}
			})

			t.Run("create keeps record fields", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				created, err := store.Create(ctx, &Record{
					Locale:         "en",
					Key:            "greeting",
					Value:          "Hello %{name}",
					Interpolations: []string{"name"},
				})
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				if created.ID.String() == "00000000-0000-0000-0000-000000000000" {
					t.Fatalf("expected generated id")
				}

				records, err := store.ListLocale(ctx, "en")
				if err != nil {
					t.Fatalf("ListLocale() error = %v", err)
				}
				if len(records) != 1 {
					t.Fatalf("expected one record, got %d", len(records))
				}
				got := records[0]
				if got.ID != created.ID || got.Value != "Hello %{name}" || got.IsDeferred {
					t.Fatalf("unexpected record %+v", got)
				}
				if !got.Interpolates("name") || got.Interpolates("other") {
					t.Fatalf("unexpected interpolations %v", got.Interpolations)
				}
			})

			t.Run("delete matching", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				seed(t, store, "en", "foo", "foo.bar", "foo.bar.baz", "fooz")
				seed(t, store, "de", "foo")

				removed, err := store.DeleteMatching(ctx, NewLookupQuery("en", []string{"foo", "foo.bar"}, ""))
				if err != nil {
					t.Fatalf("DeleteMatching() error = %v", err)
				}
				if removed != 3 {
					t.Fatalf("DeleteMatching() removed %d, want 3", removed)
				}
				records, _ := store.ListLocale(ctx, "en")
				if got := recordKeys(records); !reflect.DeepEqual(got, []string{"fooz"}) {
					t.Fatalf("remaining keys = %v", got)
				}
				records, _ = store.ListLocale(ctx, "de")
				if len(records) != 1 {
					t.Fatalf("other locale should be untouched, got %v", recordKeys(records))
				}
			})

			t.Run("delete runs hooks", func(t *testing.T) {
				var destroyed []string
				store := factory(t, WithDestroyHooks(func(_ context.Context, rec *Record) error {
					destroyed = append(destroyed, rec.Key)
					return nil
				}))
				ctx := context.Background()
				seed(t, store, "en", "foo")

				records, _ := store.ListLocale(ctx, "en")
				if err := store.Delete(ctx, records[0]); err != nil {
					t.Fatalf("Delete() error = %v", err)
				}
				if !reflect.DeepEqual(destroyed, []string{"foo"}) {
					t.Fatalf("destroy hooks saw %v", destroyed)
				}
				if err := store.Delete(ctx, records[0]); !errors.Is(err, ErrNotFound) {
					t.Fatalf("expected ErrNotFound, got %v", err)
				}
			})

			t.Run("locales", func(t *testing.T) {
				store := factory(t)
				ctx := context.Background()
				locales, err := store.Locales(ctx)
				if err != nil {
					t.Fatalf("Locales() error = %v", err)
				}
				if len(locales) != 0 {
					t.Fatalf("expected no locales, got %v", locales)
				}

				seed(t, store, "fr", "a")
				seed(t, store, "en", "a", "b")
				locales, err = store.Locales(ctx)
				if err != nil {
					t.Fatalf("Locales() error = %v", err)
				}
				if !reflect.DeepEqual(locales, []string{"en", "fr"}) {
					t.Fatalf("Locales() = %v", locales)
				}
			})
		})
	}
}

func TestBunStoreWithinTxRollsBack(t *testing.T) {
	store := NewBunStore(newTestDB(t))
	ctx := context.Background()
	seed(t, store, "en", "foo")

	sentinel := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		if _, err := tx.DeleteMatching(ctx, Query{Locale: "en", Keys: []string{"foo"}}); err != nil {
			return err
		}
		if _, err := tx.Create(ctx, &Record{Locale: "en", Key: "bar"}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	records, err := store.ListLocale(ctx, "en")
	if err != nil {
		t.Fatalf("ListLocale() error = %v", err)
	}
	if got := recordKeys(records); !reflect.DeepEqual(got, []string{"foo"}) {
		t.Fatalf("expected rollback, got keys %v", got)
	}
}

func TestBunStoreDeleteMatchingJoinsOuterTx(t *testing.T) {
	store := NewBunStore(newTestDB(t))
	ctx := context.Background()
	seed(t, store, "en", "foo", "foo.bar", "foo.baz", "other")

	err := store.WithinTx(ctx, func(ctx context.Context, tx Store) error {
		removed, err := tx.DeleteMatching(ctx, NewLookupQuery("en", []string{"foo"}, ""))
		if err != nil {
			return err
		}
		if removed != 3 {
			t.Fatalf("DeleteMatching() removed %d, want 3", removed)
		}
		_, err = tx.Create(ctx, &Record{Locale: "en", Key: "other"})
		return err
	})
	if !IsConflict(err) {
		t.Fatalf("expected conflict from duplicate insert, got %v", err)
	}

	records, err := store.ListLocale(ctx, "en")
	if err != nil {
		t.Fatalf("ListLocale() error = %v", err)
	}
	if got := recordKeys(records); !reflect.DeepEqual(got, []string{"foo", "foo.bar", "foo.baz", "other"}) {
		t.Fatalf("expected rollback of nested delete, got keys %v", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn", 0); !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("expected ErrUnsupportedDriver, got %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := Migrate(context.Background(), db, "", nil); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := testsupport.NewNamedSQLiteMemoryDB("storage_" + t.Name())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(context.Background(), db, "", nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seed(t *testing.T, store Store, locale string, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if _, err := store.Create(context.Background(), &Record{Locale: locale, Key: key, Value: key}); err != nil {
			t.Fatalf("seed %s/%s: %v", locale, key, err)
		}
	}
}

func recordKeys(records []*Record) []string {
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		keys = append(keys, rec.Key)
	}
	return keys
}
