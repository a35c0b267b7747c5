package storage

import (
	"strings"
)

// DefaultSeparator joins key segments when a Query leaves Separator empty.
const DefaultSeparator = "."

// Query scopes a lookup to one locale and to keys that either equal one of
// Keys or extend Prefix with the separator. Keys and Prefix combine with OR;
// a Query with neither matches nothing.
type Query struct {
	Locale    string
	Keys      []string
	Prefix    string
	Separator string
}

// NewLookupQuery matches the given keys exactly plus every descendant of the
// last one.
func NewLookupQuery(locale string, keys []string, separator string) Query {
	q := Query{Locale: locale, Keys: keys, Separator: separator}
	if len(keys) > 0 {
		q.Prefix = keys[len(keys)-1]
	}
	return q
}

func (q Query) separator() string {
	if q.Separator == "" {
		return DefaultSeparator
	}
	return q.Separator
}

func (q Query) descendantPrefix() string {
	if q.Prefix == "" {
		return ""
	}
	return q.Prefix + q.separator()
}

// Matches applies the query to a record in memory.
func (q Query) Matches(rec *Record) bool {
	if rec == nil || rec.Locale != q.Locale {
		return false
	}
	for _, key := range q.Keys {
		if rec.Key == key {
			return true
		}
	}
	if prefix := q.descendantPrefix(); prefix != "" {
		return strings.HasPrefix(rec.Key, prefix)
	}
	return false
}

// escapeLike escapes LIKE metacharacters using '!' as the escape character.
func escapeLike(value string) string {
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return replacer.Replace(value)
}
