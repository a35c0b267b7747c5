package storage

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

var errNoDatabase = errors.New("storage: bun store requires a database")

const pgUniqueViolation = "23505"


// BunStore persists translations in the translations table through a
// go-repository-bun repository.
type BunStore struct {
	db     *bun.DB
	conn   bun.IDB
	repo   repository.Repository[*translationModel]
	hooks  []DestroyHook
	logger interfaces.Logger
}

// newTranslationRepository creates the repository backing BunStore.
func newTranslationRepository(db *bun.DB) repository.Repository[*translationModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*translationModel]{
		NewRecord:          func() *translationModel { return &translationModel{} },
		GetID:              func(m *translationModel) uuid.UUID { return m.ID },
		SetID:              func(m *translationModel, id uuid.UUID) { m.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(m *translationModel) string { return m.ID.String() },
	})
}

// NewBunStore constructs a Bun-backed store.
func NewBunStore(db *bun.DB, opts ...Option) *BunStore {
	o := newOptions(opts)
	s := &BunStore{db: db, hooks: o.hooks, logger: o.logger}
	if db != nil {
		s.conn = db
		s.repo = newTranslationRepository(db)
	}
	return s
}

func (s *BunStore) Find(ctx context.Context, q Query) ([]*Record, error) {
	if s.repo == nil {
		return nil, errNoDatabase
	}
	scope, ok := selectScope(q)
	if !ok {
		return []*Record{}, nil
	}
	models, _, err := s.repo.ListTx(ctx, s.conn, scope, orderByKey())
	if err != nil {
		return nil, err
	}
	return modelsToRecords(models)
}

func (s *BunStore) ListLocale(ctx context.Context, locale string) ([]*Record, error) {
	if s.repo == nil {
		return nil, errNoDatabase
	}
	models, _, err := s.repo.ListTx(ctx, s.conn,
		repository.SelectRawProcessor(func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Where("?TableAlias.locale = ?", locale)
		}),
		orderByKey(),
	)
	if err != nil {
		return nil, err
	}
	return modelsToRecords(models)
}

func (s *BunStore) Create(ctx context.Context, rec *Record) (*Record, error) {
	if s.repo == nil {
		return nil, errNoDatabase
	}
	stored := cloneRecord(rec)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	model, err := modelFromRecord(stored)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.CreateTx(ctx, s.conn, model); err != nil {
		if isDuplicate(err) {
			return nil, &ConflictError{Locale: stored.Locale, Key: stored.Key, Cause: err}
		}
		return nil, err
	}
	return stored, nil
}

// DeleteMatching removes every record in q's scope and reports how many were
// removed. The count and the delete share one transaction.
func (s *BunStore) DeleteMatching(ctx context.Context, q Query) (int64, error) {
	if s.repo == nil {
		return 0, errNoDatabase
	}
	scope, ok := selectScope(q)
	if !ok {
		return 0, nil
	}

	var removed int64
	err := s.WithinTx(ctx, func(ctx context.Context, store Store) error {
		tx := store.(*BunStore)
		models, _, err := tx.repo.ListTx(ctx, tx.conn, scope)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		if err := tx.repo.DeleteManyTx(ctx, tx.conn, deleteScope(q)); err != nil {
			return err
		}
		removed = int64(len(models))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *BunStore) Delete(ctx context.Context, rec *Record) error {
	if s.repo == nil {
		return errNoDatabase
	}
	if rec == nil {
		return ErrNotFound
	}

	models, _, err := s.repo.ListTx(ctx, s.conn,
		repository.SelectRawProcessor(func(sq *bun.SelectQuery) *bun.SelectQuery {
			if rec.ID != uuid.Nil {
				return sq.Where("?TableAlias.id = ?", rec.ID.String())
			}
			return sq.Where("?TableAlias.locale = ?", rec.Locale).Where(`?TableAlias."key" = ?`, rec.Key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return ErrNotFound
	}
	if err := s.repo.DeleteTx(ctx, s.conn, models[0]); err != nil {
		return err
	}

	s.logger.Debug("translation deleted", "locale", rec.Locale, "key", rec.Key)
	deleted, err := modelToRecord(models[0])
	if err != nil {
		return err
	}
	return runDestroyHooks(ctx, s.hooks, deleted)
}

// Locales runs a DISTINCT projection, which the repository does not model.
func (s *BunStore) Locales(ctx context.Context) ([]string, error) {
	if s.conn == nil {
		return nil, errNoDatabase
	}
	locales := make([]string, 0)
	err := s.conn.NewSelect().
		Model((*translationModel)(nil)).
		ColumnExpr("DISTINCT ?TableAlias.locale").
		OrderExpr("?TableAlias.locale ASC").
		Scan(ctx, &locales)
	if err != nil {
		return nil, err
	}
	return locales, nil
}

// WithinTx runs fn inside a database transaction. Calls made on a store that
// already wraps a transaction join it.
func (s *BunStore) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if s.db == nil {
		return errNoDatabase
	}
	if _, ok := s.conn.(bun.Tx); ok {
		return fn(ctx, s)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		joined := *s
		joined.conn = tx
		return fn(ctx, &joined)
	})
}

// isDuplicate defers to the repository classification and also recognises
// unique violations raised through the pgx driver.
func isDuplicate(err error) bool {
	if repository.IsDuplicatedKey(err) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func orderByKey() repository.SelectCriteria {
	return repository.SelectRawProcessor(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.OrderExpr(`?TableAlias."key" ASC`)
	})
}

func selectScope(q Query) (repository.SelectCriteria, bool) {
	predicate, args := scopePredicate(q)
	if predicate == "" {
		return nil, false
	}
	return repository.SelectRawProcessor(func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.Where("?TableAlias.locale = ?", q.Locale).Where(predicate, args...)
	}), true
}

func deleteScope(q Query) repository.DeleteCriteria {
	predicate, args := scopePredicate(q)
	return func(dq *bun.DeleteQuery) *bun.DeleteQuery {
		return dq.Where("?TableAlias.locale = ?", q.Locale).Where(predicate, args...)
	}
}

// scopePredicate renders the key scope of q. Prefix matching pairs LIKE with
// a substr comparison because SQLite LIKE ignores case.
func scopePredicate(q Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if len(q.Keys) > 0 {
		clauses = append(clauses, `?TableAlias."key" IN (?)`)
		args = append(args, bun.In(q.Keys))
	}
	if prefix := q.descendantPrefix(); prefix != "" {
		clauses = append(clauses, `(?TableAlias."key" LIKE ? ESCAPE '!' AND substr(?TableAlias."key", 1, ?) = ?)`)
		args = append(args, escapeLike(prefix)+"%", utf8.RuneCountInString(prefix), prefix)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

type translationModel struct {
	bun.BaseModel `bun:"table:translations,alias:t"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	Locale         string    `bun:"locale,notnull"`
	Key            string    `bun:"key,notnull"`
	Value          string    `bun:"value"`
	Interpolations string    `bun:"interpolations"`
	IsDeferred     bool      `bun:"is_deferred,notnull"`
}

func modelFromRecord(rec *Record) (*translationModel, error) {
	interpolations := rec.Interpolations
	if interpolations == nil {
		interpolations = []string{}
	}
	encoded, err := yaml.Marshal(interpolations)
	if err != nil {
		return nil, err
	}
	return &translationModel{
		ID:             rec.ID,
		Locale:         rec.Locale,
		Key:            rec.Key,
		Value:          rec.Value,
		Interpolations: strings.TrimSuffix(string(encoded), "\n"),
		IsDeferred:     rec.IsDeferred,
	}, nil
}

func modelToRecord(model *translationModel) (*Record, error) {
	interpolations := []string{}
	if model.Interpolations != "" {
		if err := yaml.Unmarshal([]byte(model.Interpolations), &interpolations); err != nil {
			return nil, err
		}
		if interpolations == nil {
			interpolations = []string{}
		}
	}
	return &Record{
		ID:             model.ID,
		Locale:         model.Locale,
		Key:            model.Key,
		Value:          model.Value,
		Interpolations: interpolations,
		IsDeferred:     model.IsDeferred,
	}, nil
}

func modelsToRecords(models []*translationModel) ([]*Record, error) {
	out := make([]*Record, 0, len(models))
	for _, model := range models {
		rec, err := modelToRecord(model)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
