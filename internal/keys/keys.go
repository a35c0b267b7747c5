// Package keys flattens nested translation trees into dotted storage keys and
// expands a flat key into its ancestor prefixes.
package keys

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	// DefaultSeparator joins segments of a flat key.
	DefaultSeparator = "."
	// EscapeChar replaces a separator that is part of a segment name.
	EscapeChar = "\x01"
)

// ErrEmptySegment is returned for a tree containing an empty key.
var ErrEmptySegment = errors.New("keys: empty key segment")

// Flattener joins and splits flat keys with a fixed separator.
type Flattener struct {
	sep string
}

// New returns a Flattener using sep, or DefaultSeparator when sep is empty.
func New(sep string) Flattener {
	if sep == "" {
		sep = DefaultSeparator
	}
	return Flattener{sep: sep}
}

// Separator returns the separator in use.
func (f Flattener) Separator() string {
	if f.sep == "" {
		return DefaultSeparator
	}
	return f.sep
}

// Flatten maps every leaf of tree to its flat key. Maps are descended; any
// other value, slices included, is a leaf. With escape set, a separator inside
// a segment name is replaced by EscapeChar so it stays one level.
func (f Flattener) Flatten(tree map[string]any, escape bool) (map[string]any, error) {
	out := make(map[string]any)
	if err := f.flatten(out, "", tree, escape); err != nil {
		return nil, err
	}
	return out, nil
}

func (f Flattener) flatten(out map[string]any, prefix string, node map[string]any, escape bool) error {
	sep := f.Separator()
	for _, name := range slices.Sorted(maps.Keys(node)) {
		value := node[name]
		if name == "" {
			return fmt.Errorf("%w under %q", ErrEmptySegment, prefix)
		}
		if escape {
			name = strings.ReplaceAll(name, sep, EscapeChar)
		}
		key := name
		if prefix != "" {
			key = prefix + sep + name
		}

		if child, ok := asTree(value); ok {
			if err := f.flatten(out, key, child, escape); err != nil {
				return err
			}
			continue
		}
		out[key] = value
	}
	return nil
}

// Expand returns every ancestor prefix of key, root first, ending with key.
func (f Flattener) Expand(key string) []string {
	if key == "" {
		return nil
	}
	sep := f.Separator()
	segments := strings.Split(key, sep)
	out := make([]string, 0, len(segments))
	for i := range segments {
		out = append(out, strings.Join(segments[:i+1], sep))
	}
	return out
}

// Split breaks a flat key into segments.
func (f Flattener) Split(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, f.Separator())
}

// Normalize joins scope and key into one flat key. When the caller uses a
// separator other than the flatten separator, literal flatten separators in
// the input are escaped first and the caller's separator is mapped onto it.
// Empty segments are dropped, so "foo..bar" and "foo." address "foo.bar" and
// "foo".
func (f Flattener) Normalize(key string, scope []string, separator string) string {
	sep := f.Separator()
	parts := make([]string, 0, len(scope)+1)
	for _, part := range append(slices.Clone(scope), key) {
		if separator != "" && separator != sep {
			part = strings.ReplaceAll(part, sep, EscapeChar)
			part = strings.ReplaceAll(part, separator, sep)
		}
		for _, segment := range strings.Split(part, sep) {
			if segment != "" {
				parts = append(parts, segment)
			}
		}
	}
	return strings.Join(parts, sep)
}

// Unescape restores separators that Flatten escaped inside a segment name.
func (f Flattener) Unescape(segment string) string {
	return strings.ReplaceAll(segment, EscapeChar, f.Separator())
}

// Flatten uses DefaultSeparator.
func Flatten(tree map[string]any, escape bool) (map[string]any, error) {
	return New(DefaultSeparator).Flatten(tree, escape)
}

// Expand uses DefaultSeparator: Expand("foo.bar.baz") is
// ["foo", "foo.bar", "foo.bar.baz"].
func Expand(key string) []string {
	return New(DefaultSeparator).Expand(key)
}

// asTree reports whether value is a mapping node. Typed maps such as
// map[string]string are descended like map[string]any.
func asTree(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	switch rv.Type().Key().Kind() {
	case reflect.String:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	case reflect.Interface:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
