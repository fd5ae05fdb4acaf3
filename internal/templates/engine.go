// Package templates renders partial views with html/template. Views are
// addressed by their "~/" virtual path and read through the host's path
// mapper and file system.
package templates

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"
	"path"
	"sync"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// Engine implements interfaces.PartialRenderer.
type Engine struct {
	mapper interfaces.PathMapper
	files  interfaces.FileSystem
	funcs  template.FuncMap
	logger interfaces.Logger
	reload bool

	mu    sync.RWMutex
	cache map[string]*template.Template
}

var _ interfaces.PartialRenderer = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithFuncs adds template functions. Later calls override earlier keys.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		maps.Copy(e.funcs, funcs)
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.Or(logger)
	}
}

// WithReload disables the parsed template cache so edits to theme files
// show up on the next render.
func WithReload(reload bool) Option {
	return func(e *Engine) {
		e.reload = reload
	}
}

// NewEngine builds an engine reading views through mapper and files.
func NewEngine(mapper interfaces.PathMapper, files interfaces.FileSystem, opts ...Option) *Engine {
	if mapper == nil || files == nil {
		panic("templates: path mapper and file system required")
	}
	e := &Engine{
		mapper: mapper,
		files:  files,
		funcs:  template.FuncMap{},
		logger: logging.NoOp(),
		cache:  map[string]*template.Template{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RenderPartial executes the view at virtualPath against data.
func (e *Engine) RenderPartial(ctx context.Context, virtualPath string, data any) (template.HTML, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tpl, err := e.load(virtualPath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: execute %s: %w", virtualPath, err)
	}
	e.logger.WithContext(ctx).Trace("partial rendered", "path", virtualPath, "bytes", buf.Len())
	return template.HTML(buf.String()), nil
}

func (e *Engine) load(virtualPath string) (*template.Template, error) {
	if !e.reload {
		e.mu.RLock()
		tpl, ok := e.cache[virtualPath]
		e.mu.RUnlock()
		if ok {
			return tpl, nil
		}
	}

	physical, err := e.mapper.MapPath(virtualPath)
	if err != nil {
		return nil, err
	}
	src, err := e.files.ReadFile(physical)
	if err != nil {
		return nil, fmt.Errorf("templates: read %s: %w", virtualPath, err)
	}

	tpl, err := template.New(path.Base(virtualPath)).Funcs(e.funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("templates: parse %s: %w", virtualPath, err)
	}

	if !e.reload {
		e.mu.Lock()
		e.cache[virtualPath] = tpl
		e.mu.Unlock()
	}
	return tpl, nil
}
