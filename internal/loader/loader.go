// Package loader reads locale files shaped like
//
//	en:
//	  greeting: Hello
//	  nav:
//	    home: Home
//
// into per-locale translation trees. JSON documents use the same shape.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("loader: unsupported file format")
	ErrEmptyDocument     = errors.New("loader: document has no locales")
)

// Document maps a locale to its nested translation tree.
type Document map[string]map[string]any

// Locales returns the document locales sorted.
func (d Document) Locales() []string {
	return slices.Sorted(maps.Keys(d))
}

// Supported reports whether path has a loadable extension.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
		return true
	default:
		return false
	}
}

// Parse decodes data. JSON is parsed as YAML, of which it is a subset, so
// numbers keep their integer form in both formats.
func Parse(name string, data []byte) (Document, error) {
	if !Supported(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", name, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}
	if err := validateDocument(raw); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", name, err)
	}

	doc := make(Document, len(raw))
	for locale, tree := range raw {
		normalized, ok := normalizeValue(tree).(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s: locale %q is not a mapping", ErrInvalidDocument, name, locale)
		}
		doc[locale] = normalized
	}
	return doc, nil
}

// LoadFile reads and parses one locale file.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// LoadDir walks dir and deep-merges every supported file. Files are visited in
// lexical order and later files win on the same leaf.
func LoadDir(dir string) (Document, error) {
	doc := Document{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		parsed, err := LoadFile(path)
		if err != nil {
			return err
		}
		doc.Merge(parsed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, dir)
	}
	return doc, nil
}

// Merge deep-merges other into d.
func (d Document) Merge(other Document) {
	for locale, tree := range other {
		existing, ok := d[locale]
		if !ok {
			existing = map[string]any{}
			d[locale] = existing
		}
		deepMerge(existing, tree)
	}
}

func deepMerge(dst, src map[string]any) {
	for key, value := range src {
		srcTree, srcIsTree := value.(map[string]any)
		dstTree, dstIsTree := dst[key].(map[string]any)
		if srcIsTree && dstIsTree {
			deepMerge(dstTree, srcTree)
			continue
		}
		dst[key] = value
	}
}

// normalizeTree turns yaml's map[any]any nodes, produced by non-string keys,
// into map[string]any.
func normalizeTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for key, value := range tree {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeTree(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return value
	}
}
