package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidDocument = errors.New("loader: document does not match the locale file schema")

// documentSchema requires a locale-keyed object of objects.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "LocaleDocument",
  "type": "object",
  "minProperties": 1,
  "propertyNames": {
    "pattern": "^[A-Za-z]{2,3}([_-][A-Za-z0-9]+)*$"
  },
  "additionalProperties": {
    "type": "object",
    "propertyNames": { "minLength": 1 }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("locale_document.json", strings.NewReader(documentSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("locale_document.json")
})

func validateDocument(raw map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	// Round trip through JSON so the validator only sees JSON value types.
	encoded, err := json.Marshal(normalizeTree(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, describe(err))
	}
	return nil
}

func describe(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return err.Error()
	}
	issues := []string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			location := node.InstanceLocation
			if location == "" {
				location = "#"
			}
			issues = append(issues, location+": "+node.Message)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(issues, "; ")
}
