package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-i18nl10n/pkg/interfaces"
)

const (
	rootModule       = "l10n"
	registryModule   = "l10n.registry"
	routingModule    = "l10n.routing"
	navigationModule = "l10n.navigation"
	commandsModule   = "l10n.commands"
	storageModule    = "l10n.storage"
)

// CommandsNamespace prefixes the per-module command loggers.
const CommandsNamespace = commandsModule

// ModuleLogger returns the logger registered for module, tagged with a
// "module" field. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// RegistryLogger returns the namespace used by the language registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// RoutingLogger returns the namespace shared by the resolver and generator.
func RoutingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, routingModule)
}

// NavigationLogger returns the namespace used by the navigation filter.
func NavigationLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, navigationModule)
}

// StorageLogger returns the namespace used while configuring storage.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithFields attaches fields when the logger implements
// interfaces.FieldsLogger and returns it unchanged otherwise.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fieldsLogger.WithFields(maps.Clone(fields))
}

// WithRequest annotates logger with the host and language of the request
// being resolved. Empty values are skipped.
func WithRequest(logger interfaces.Logger, host, language string) interfaces.Logger {
	fields := map[string]any{}
	if host = strings.TrimSpace(host); host != "" {
		fields["host"] = host
	}
	if language = strings.TrimSpace(language); language != "" {
		fields["language"] = language
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
