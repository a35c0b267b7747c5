package testsupport

import (
	"database/sql"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// NewNamedSQLiteMemoryDB opens a private shared-cache memory database so
// parallel tests never see each other's tables. A single connection keeps
// the database alive for the lifetime of the handle.
func NewNamedSQLiteMemoryDB(name string) (*bun.DB, error) {
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = "i18nstore"
	}
	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
