package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

const (
	rootModule       = "theming"
	resolverModule   = "theming.resolver"
	viewsModule      = "theming.views"
	clientDepsModule = "theming.clientdeps"
	httpModule       = "theming.http"
)

const (
	fieldTheme    = "theme"
	fieldPartial  = "partial"
	fieldCategory = "category"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered per module.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ResolverLogger returns the logger namespace reserved for theme path resolution.
func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

// ViewsLogger returns the logger namespace reserved for themed view helpers.
func ViewsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, viewsModule)
}

// ClientDepsLogger returns the logger namespace reserved for CSS/JS registration.
func ClientDepsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, clientDepsModule)
}

// HTTPLogger returns the logger namespace reserved for the asset handler.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithThemeContext enriches the logger with the theme, category and partial
// involved in a call. Empty values are ignored.
func WithThemeContext(logger interfaces.Logger, theme, category, partial string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(theme); trimmed != "" {
		fields[fieldTheme] = trimmed
	}
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		fields[fieldCategory] = trimmed
	}
	if trimmed := strings.TrimSpace(partial); trimmed != "" {
		fields[fieldPartial] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
