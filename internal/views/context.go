package views

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// ErrNoDependencyRegistrar is returned by the Requires* helpers when the
// context was built without a dependency registrar.
var ErrNoDependencyRegistrar = errors.New("views: dependency registrar not configured")

// PathResolver is the subset of themes.Resolver the view helpers need.
type PathResolver interface {
	ThemePath(ctx context.Context, theme string) (string, error)
	PartialViewPath(ctx context.Context, theme, viewName string) (string, error)
}

var _ PathResolver = (*themes.Resolver)(nil)

// ErrorObserver is told about every partial that failed to render.
type ErrorObserver interface {
	ObservePartialError(partial string)
}

// Context is the per-request rendering capability handed to views. It
// carries the site theme explicitly instead of reading it from ambient
// state.
type Context struct {
	Theme    string
	ViewData map[string]any

	request  context.Context
	resolver PathResolver
	renderer interfaces.PartialRenderer
	deps     interfaces.DependencyRegistrar
	basePath string
	logger   interfaces.Logger
	observer ErrorObserver
	depth    int
}

// Option configures a Context.
type Option func(*Context)

// WithRenderer sets the view engine used by the partial helpers.
func WithRenderer(renderer interfaces.PartialRenderer) Option {
	return func(c *Context) {
		c.renderer = renderer
	}
}

// WithDependencies sets the registrar used by the Requires* helpers.
func WithDependencies(deps interfaces.DependencyRegistrar) Option {
	return func(c *Context) {
		c.deps = deps
	}
}

// WithBasePath sets the URL path "~/" is served under. Defaults to "/".
func WithBasePath(basePath string) Option {
	return func(c *Context) {
		if strings.TrimSpace(basePath) != "" {
			c.basePath = basePath
		}
	}
}

// WithLogger sets the logger used when partials fail.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Context) {
		c.logger = logging.Or(logger)
	}
}

// WithViewData sets the view data used when a partial is rendered without
// its own.
func WithViewData(data map[string]any) Option {
	return func(c *Context) {
		c.ViewData = maps.Clone(data)
	}
}

// WithRequest binds the request context used by template functions.
func WithRequest(ctx context.Context) Option {
	return func(c *Context) {
		if ctx != nil {
			c.request = ctx
		}
	}
}

// WithErrorObserver registers an observer for partial failures.
func WithErrorObserver(observer ErrorObserver) Option {
	return func(c *Context) {
		c.observer = observer
	}
}

// NewContext builds a rendering context for theme.
func NewContext(theme string, resolver PathResolver, opts ...Option) *Context {
	if resolver == nil {
		panic("views: path resolver required")
	}
	c := &Context{
		Theme:    theme,
		request:  context.Background(),
		resolver: resolver,
		basePath: "/",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request returns the context bound with WithRequest.
func (c *Context) Request() context.Context {
	if c.request == nil {
		return context.Background()
	}
	return c.request
}

// Depth reports how many partials enclose this context.
func (c *Context) Depth() int {
	return c.depth
}

// nested returns the context handed to a partial rendered from c.
func (c *Context) nested() *Context {
	child := *c
	child.depth++
	return &child
}

// Dependencies returns the registrar, which may be nil.
func (c *Context) Dependencies() interfaces.DependencyRegistrar {
	return c.deps
}

// CSSOverride returns the stylesheet override URL for fileName.
func (c *Context) CSSOverride(fileName string) string {
	return themes.CSSOverridePath(fileName)
}
