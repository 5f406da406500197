package commands

import (
	"strings"

	"github.com/tourtosky/affiliate-site-generator/internal/logging"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

const commandModuleRoot = "sitegen.commands"

// CommandLogger returns the logger for a command module, e.g. sitegen.commands.layouts.
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
