package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

// DefaultMigrationsTable records applied schema versions.
const DefaultMigrationsTable = "i18nstore_migrations"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrSetDialect      = errors.New("storage: failed to set migration dialect")
	ErrApplyMigrations = errors.New("storage: failed to apply migrations")
)

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// MigrationsFS returns the embedded schema migrations.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return migrationsFS
	}
	return sub
}

// Migrate applies pending migrations to db. An empty table name uses
// DefaultMigrationsTable.
func Migrate(ctx context.Context, db *bun.DB, table string, logger interfaces.Logger) error {
	if db == nil {
		return errors.New("storage: migrate requires a database")
	}
	if table == "" {
		table = DefaultMigrationsTable
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	var gooseDialect string
	switch db.Dialect().Name() {
	case dialect.SQLite:
		gooseDialect = DriverSQLite
	case dialect.PG:
		gooseDialect = DriverPostgres
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDriver, db.Dialect().Name())
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&gooseLoggerAdapter{logger: logger})
	goose.SetTableName(table)

	if err := goose.SetDialect(gooseDialect); err != nil {
		return errors.Join(ErrSetDialect, err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}
	return nil
}

type gooseLoggerAdapter struct {
	logger interfaces.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.logger.Info(fmt.Sprintf(format, args...))
}

// Fatalf logs at error level; goose returns the error to Migrate.
func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	g.logger.Error(fmt.Sprintf(format, args...))
}
