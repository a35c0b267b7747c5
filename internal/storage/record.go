package storage

import (
	"slices"

	"github.com/google/uuid"
)

// Record is one persisted translation: a flat key within a locale and its
// encoded value.
type Record struct {
	ID             uuid.UUID
	Locale         string
	Key            string
	Value          string
	Interpolations []string
	IsDeferred     bool
}

// Interpolates reports whether the stored value references the named
// interpolation token.
func (r *Record) Interpolates(name string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Interpolations, name)
}

func cloneRecord(rec *Record) *Record {
	if rec == nil {
		return nil
	}
	cloned := *rec
	cloned.Interpolations = slices.Clone(rec.Interpolations)
	if cloned.Interpolations == nil {
		cloned.Interpolations = []string{}
	}
	return &cloned
}
