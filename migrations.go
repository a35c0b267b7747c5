package i18nstore

import (
	"io/fs"

	"github.com/goliatone/go-i18n-store/internal/storage"
)

// GetMigrationsFS returns the embedded goose migrations creating the
// translations table, for hosts that run migrations themselves.
func GetMigrationsFS() fs.FS {
	return storage.MigrationsFS()
}
