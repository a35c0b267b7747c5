package translationscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	storeTranslationsMessageType  = "i18nstore.translations.store"
	importTranslationsMessageType = "i18nstore.translations.import"
)

// StoreTranslationsCommand writes a nested tree for one locale.
type StoreTranslationsCommand struct {
	Locale string         `json:"locale"`
	Tree   map[string]any `json:"tree"`
	Escape *bool          `json:"escape,omitempty"`
}

// Type implements command.Message.
func (StoreTranslationsCommand) Type() string { return storeTranslationsMessageType }

// Validate ensures a locale and a non-empty tree are present.
func (m StoreTranslationsCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Locale) == "" {
		errs["locale"] = validation.NewError("i18nstore.translations.store.locale_required", "locale is required")
	}
	if len(m.Tree) == 0 {
		errs["tree"] = validation.NewError("i18nstore.translations.store.tree_required", "tree must contain at least one key")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ImportTranslationsCommand loads a locale file, or every locale file below a
// directory, and stores each locale it contains.
type ImportTranslationsCommand struct {
	Path    string   `json:"path"`
	Locales []string `json:"locales,omitempty"`
	Escape  *bool    `json:"escape,omitempty"`
}

// Type implements command.Message.
func (ImportTranslationsCommand) Type() string { return importTranslationsMessageType }

// Validate ensures the import has a path and that locale filters are not blank.
func (m ImportTranslationsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.Required.Error("path is required")),
		validation.Field(&m.Locales, validation.Each(validation.Required.Error("locale filter cannot be blank"))),
	)
}
