package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	i18nstore "github.com/goliatone/go-i18n-store"
	translationscmd "github.com/goliatone/go-i18n-store/internal/commands/translations"
)

const usage = `usage: i18nstore <command> [flags]

commands:
  migrate   apply schema migrations
  import    store locale files (-path file or directory)
  lookup    print the value or subtree under -key for -locale
  locales   list stored locales
  export    print the full tree of -locale
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("i18nstore: %v", err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}
	name, args := args[0], args[1:]

	fs := flag.NewFlagSet("i18nstore "+name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "Path to a TOML configuration file")
	driver := fs.String("driver", "", "Storage driver override (sqlite3 or postgres)")
	dsn := fs.String("dsn", "", "Storage DSN override")
	locale := fs.String("locale", "", "Locale for lookup and export")
	key := fs.String("key", "", "Dotted key for lookup")
	scope := fs.String("scope", "", "Comma separated scope segments for lookup")
	separator := fs.String("separator", "", "Separator used in -key and -scope")
	path := fs.String("path", "", "Locale file or directory to import")
	only := fs.String("locales", "", "Comma separated locales to import (defaults to all)")
	noEscape := fs.Bool("no-escape", false, "Let separators inside key names create nesting levels on import")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := i18nstore.DefaultConfig()
	if *configPath != "" {
		loaded, err := i18nstore.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}
	if *dsn != "" {
		cfg.Storage.DSN = *dsn
	}
	if name == "migrate" {
		cfg.Storage.AutoMigrate = false
	}

	module, err := i18nstore.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()
	backend := module.Backend()

	switch name {
	case "migrate":
		if err := module.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
	case "import":
		escape := !*noEscape
		cmd := translationscmd.ImportTranslationsCommand{
			Path:    *path,
			Locales: splitList(*only),
			Escape:  &escape,
		}
		if err := module.ImportTranslationsHandler().Execute(ctx, cmd); err != nil {
			return fmt.Errorf("execute import command: %w", err)
		}
		fmt.Fprintf(out, "imported %s\n", *path)
	case "lookup":
		if *locale == "" || *key == "" {
			return fmt.Errorf("lookup requires -locale and -key")
		}
		res, err := backend.Lookup(ctx, *locale, *key, splitList(*scope), i18nstore.LookupOptions{Separator: *separator})
		if err != nil {
			return err
		}
		if !res.Found {
			return fmt.Errorf("translation missing: %s.%s", *locale, *key)
		}
		return writeYAML(out, res.Value)
	case "locales":
		for _, l := range backend.AvailableLocales(ctx) {
			fmt.Fprintln(out, l)
		}
	case "export":
		if *locale == "" {
			return fmt.Errorf("export requires -locale")
		}
		tree, err := backend.Export(ctx, *locale)
		if err != nil {
			return err
		}
		return writeYAML(out, map[string]any{*locale: tree})
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
	return nil
}

func writeYAML(out io.Writer, value any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}
	return enc.Close()
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
