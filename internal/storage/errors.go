package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict reports a duplicate (locale, key) insert.
	ErrConflict = errors.New("storage: translation already exists")
	// ErrNotFound reports a per-row delete of a record that is gone.
	ErrNotFound = errors.New("storage: translation not found")
	// ErrUnsupportedDriver is returned by Open for unknown driver names.
	ErrUnsupportedDriver = errors.New("storage: unsupported driver")
)

// ConflictError describes the record whose insert violated uniqueness.
type ConflictError struct {
	Locale string
	Key    string
	Cause  error
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage: translation %s/%s already exists: %v", e.Locale, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage: translation %s/%s already exists", e.Locale, e.Key)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsConflict reports whether err is a uniqueness violation. Callers may retry.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
