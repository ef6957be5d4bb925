package commands

import (
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/internal/logging"
	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
)

// CommandLogger returns the logger for a command module such as "sites",
// tagged with the command component fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, logging.CommandsNamespace+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
