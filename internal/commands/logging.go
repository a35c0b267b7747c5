package commands

import (
	"strings"

	"github.com/goliatone/go-i18n-store/internal/logging"
	"github.com/goliatone/go-i18n-store/pkg/interfaces"
)

const commandModuleRoot = "i18nstore.commands"

// CommandLogger returns a module-scoped logger for command handlers tagged with the
// command component fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
