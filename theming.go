// Package theming resolves theme overrides for views, partials and grid
// editors, and exposes the view helpers themes use to reference their own
// assets and partials.
package theming

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-cms-theming/internal/clientdeps"
	"github.com/goliatone/go-cms-theming/internal/di"
	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/internal/views"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// PathCategory selects the view layout a resolution targets.
type PathCategory = themes.PathCategory

const (
	ThemeRoot   = themes.ThemeRoot
	View        = themes.View
	PartialView = themes.PartialView
	GridEditor  = themes.GridEditor
)

// Resolver exports the theme path resolver.
type Resolver = themes.Resolver

// ResolveRequest exports the resolver request.
type ResolveRequest = themes.Request

// ThemeSummary exports an installed theme description.
type ThemeSummary = themes.ThemeSummary

// ViewContext exports the per-request rendering context.
type ViewContext = views.Context

// RenderError exports the partial failure type.
type RenderError = views.RenderError

// DependencyManager exports the request scoped CSS/JS registry.
type DependencyManager = clientdeps.Manager

// Option exports container overrides.
type Option = di.Option

var (
	WithLoggerProvider  = di.WithLoggerProvider
	WithSiteFS          = di.WithSiteFS
	WithPathMapper      = di.WithPathMapper
	WithFileSystem      = di.WithFileSystem
	WithPartialRenderer = di.WithPartialRenderer
	WithRegisterer      = di.WithRegisterer
	WithTemplateFuncs   = di.WithTemplateFuncs
	WithTemplateReload  = di.WithTemplateReload
)

var (
	ErrNoThemeConfigured     = themes.ErrNoThemeConfigured
	ErrViewNameRequired      = themes.ErrViewNameRequired
	ErrNoDependencyRegistrar = views.ErrNoDependencyRegistrar
	ErrNoRenderer            = views.ErrNoRenderer
)

// Module represents the top level theming runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a theming module using the provided configuration and
// optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Resolver returns the theme path resolver.
func (m *Module) Resolver() *Resolver {
	return m.container.Resolver()
}

// Theme describes the named theme folder and its manifest. The boolean is
// false when the folder does not exist.
func (m *Module) Theme(ctx context.Context, name string) (ThemeSummary, bool, error) {
	return m.container.Inspector().Lookup(ctx, name)
}

// Renderer returns the partial renderer.
func (m *Module) Renderer() interfaces.PartialRenderer {
	return m.container.Renderer()
}

// NewDependencyManager returns an empty CSS/JS registry for one request.
func (m *Module) NewDependencyManager() *DependencyManager {
	return m.container.NewDependencyManager()
}

// NewContext returns the rendering context handed to views for one request.
// An empty theme selects the configured default theme; deps may be nil.
func (m *Module) NewContext(ctx context.Context, theme string, deps interfaces.DependencyRegistrar, viewData map[string]any) *ViewContext {
	return m.container.NewContext(ctx, theme, deps, viewData)
}

// AssetHandler serves /Themes/{theme}/Assets/*. It is nil unless the
// asset_handler feature is enabled.
func (m *Module) AssetHandler() http.Handler {
	return m.container.AssetHandler()
}

// RegisterRoutes mounts the enabled HTTP adapters (asset handler and
// resolve API) on r.
func (m *Module) RegisterRoutes(r chi.Router) {
	m.container.RegisterRoutes(r)
}

// CSSOverridePath returns the stylesheet override URL for fileName.
func CSSOverridePath(fileName string) string {
	return themes.CSSOverridePath(fileName)
}

// IsConfigurationError reports a missing theme or view name.
var IsConfigurationError = themes.IsConfigurationError

// RenderInline degrades a partial failure to an inline error fragment.
var RenderInline = views.RenderInline

// Logger returns a logger for module from the configured provider, or a
// no-op logger when logging is disabled.
func (m *Module) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(m.container.LoggerProvider(), module)
}

// Close flushes buffered log sinks.
func (m *Module) Close() error {
	return m.container.Close()
}
