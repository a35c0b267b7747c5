package translationscmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-i18n-store/internal/commands"
	"github.com/goliatone/go-i18n-store/internal/loader"
	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

const (
	storeOperation  = "translations.store"
	importOperation = "translations.import"
)

var (
	_ command.Commander[StoreTranslationsCommand]  = (*StoreTranslationsHandler)(nil)
	_ command.Commander[ImportTranslationsCommand] = (*ImportTranslationsHandler)(nil)
)

// StoreTranslationsHandler writes a tree through the translation backend.
type StoreTranslationsHandler struct {
	inner *commands.Handler[StoreTranslationsCommand]
}

// NewStoreTranslationsHandler creates a handler bound to backend.
func NewStoreTranslationsHandler(backend interfaces.TranslationBackend, logger interfaces.Logger, opts ...commands.HandlerOption[StoreTranslationsCommand]) *StoreTranslationsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg StoreTranslationsCommand) error {
		return backend.StoreTranslations(ctx, strings.TrimSpace(msg.Locale), msg.Tree, interfaces.StoreOptions{Escape: msg.Escape})
	}

	handlerOpts := []commands.HandlerOption[StoreTranslationsCommand]{
		commands.WithLogger[StoreTranslationsCommand](baseLogger),
		commands.WithOperation[StoreTranslationsCommand](storeOperation),
		commands.WithMessageFields(func(msg StoreTranslationsCommand) map[string]any {
			return map[string]any{
				"locale":    strings.TrimSpace(msg.Locale),
				"top_level": len(msg.Tree),
			}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &StoreTranslationsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[StoreTranslationsCommand].Execute.
func (h *StoreTranslationsHandler) Execute(ctx context.Context, msg StoreTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ImportTranslationsHandler loads locale files and stores their trees.
type ImportTranslationsHandler struct {
	inner *commands.Handler[ImportTranslationsCommand]
}

// NewImportTranslationsHandler creates a handler bound to backend.
func NewImportTranslationsHandler(backend interfaces.TranslationBackend, logger interfaces.Logger, opts ...commands.HandlerOption[ImportTranslationsCommand]) *ImportTranslationsHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportTranslationsCommand) error {
		doc, err := load(msg.Path)
		if err != nil {
			return err
		}

		imported := 0
		for _, locale := range doc.Locales() {
			if len(msg.Locales) > 0 && !slices.Contains(msg.Locales, locale) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := backend.StoreTranslations(ctx, locale, doc[locale], interfaces.StoreOptions{Escape: msg.Escape}); err != nil {
				return fmt.Errorf("import %s: %w", locale, err)
			}
			imported++
		}
		logging.WithFields(baseLogger, map[string]any{"path": msg.Path}).
			Info("translations.import.completed", "locales", imported)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportTranslationsCommand]{
		commands.WithLogger[ImportTranslationsCommand](baseLogger),
		commands.WithOperation[ImportTranslationsCommand](importOperation),
		commands.WithMessageFields(func(msg ImportTranslationsCommand) map[string]any {
			fields := map[string]any{"path": msg.Path}
			if len(msg.Locales) > 0 {
				fields["locales"] = strings.Join(msg.Locales, ",")
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportTranslationsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportTranslationsCommand].Execute.
func (h *ImportTranslationsHandler) Execute(ctx context.Context, msg ImportTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func load(path string) (loader.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return loader.LoadDir(path)
	}
	return loader.LoadFile(path)
}
