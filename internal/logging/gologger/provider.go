// Package gologger adapts github.com/goliatone/go-logger to the theming
// logger contract. Logger names live under the "theming" namespace, so
// GetLogger("resolver") and a focus entry of "resolver" both refer to
// "theming.resolver".
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

const namespace = "theming"

// Config captures the go-logger options exposed through runtime configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus limits output to the listed theming modules.
	Focus []string
}

// Provider hands out go-logger backed loggers for the theming modules.
type Provider struct {
	root  *glog.BaseLogger
	focus []string
}

// NewProvider constructs a go-logger backed provider.
func NewProvider(cfg Config) (*Provider, error) {
	var options []glog.Option

	if level := normalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("logging: unsupported go-logger format %q", cfg.Format)
	}
	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}

	p := &Provider{
		root:  glog.NewLogger(options...),
		focus: normalizeFocus(cfg.Focus),
	}
	if len(p.focus) > 0 {
		p.root.Focus(p.focus...)
	}
	return p, nil
}

// Focus returns the qualified module names output is limited to.
func (p *Provider) Focus() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.focus)
}

// GetLogger returns the logger for a theming module. Bare names are
// qualified with the "theming." prefix.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	return wrap(p.root.GetLogger(qualify(name)))
}

func wrap(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

// adapter forwards to go-logger. Loggers without field support get their
// fields appended to every call as sorted key/value pairs.
type adapter struct {
	inner glog.Logger
	args  []any
}

var (
	_ interfaces.Logger       = (*adapter)(nil)
	_ interfaces.FieldsLogger = (*adapter)(nil)
)

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.with(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.with(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.with(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.with(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.with(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.with(args)...) }

func (l *adapter) with(args []any) []any {
	if len(l.args) == 0 {
		return args
	}
	return append(slices.Clone(l.args), args...)
}

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if fl, ok := l.inner.(glog.FieldsLogger); ok {
		if inner := fl.WithFields(maps.Clone(fields)); inner != nil {
			return &adapter{inner: inner, args: l.args}
		}
	}

	args := slices.Clone(l.args)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, k, fields[k])
	}
	return &adapter{inner: l.inner, args: args}
}

// WithContext binds ctx and merges the fields stored on it with
// logging.ContextWithFields.
func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	child := l
	if inner := l.inner.WithContext(ctx); inner != nil {
		child = &adapter{inner: inner, args: l.args}
	}
	return child.WithFields(logging.ContextFields(ctx))
}

// qualify places name under the theming namespace.
func qualify(name string) string {
	name = strings.Trim(strings.TrimSpace(name), ".")
	switch {
	case name == "":
		return namespace
	case name == namespace, strings.HasPrefix(name, namespace+"."):
		return name
	default:
		return namespace + "." + name
	}
}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	case "fatal":
		return glog.Fatal
	default:
		return ""
	}
}

// normalizeFocus qualifies, dedupes and sorts focus entries. Blank entries
// are dropped rather than focusing the root logger.
func normalizeFocus(names []string) []string {
	seen := map[string]struct{}{}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		seen[qualify(name)] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(seen))
}
