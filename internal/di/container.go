package di

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-cms-theming/internal/clientdeps"
	themehttp "github.com/goliatone/go-cms-theming/internal/http"
	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/internal/logging/console"
	"github.com/goliatone/go-cms-theming/internal/logging/gologger"
	"github.com/goliatone/go-cms-theming/internal/logging/zaplog"
	"github.com/goliatone/go-cms-theming/internal/metrics"
	"github.com/goliatone/go-cms-theming/internal/runtimeconfig"
	"github.com/goliatone/go-cms-theming/internal/templates"
	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/internal/views"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// Container wires the theming services from configuration and overrides.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	siteFS         fs.FS
	mapper         interfaces.PathMapper
	files          interfaces.FileSystem
	renderer       interfaces.PartialRenderer
	registerer     prometheus.Registerer
	funcs          template.FuncMap
	reload         bool

	resolver  *themes.Resolver
	inspector *themes.Inspector
	recorder  *metrics.Recorder
	assets    *themehttp.AssetHandler
	api       *themehttp.ResolveAPI
	flush     func() error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider selected by configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithSiteFS serves views and assets from fsys instead of the configured
// physical root. Names in fsys are relative to "~/".
func WithSiteFS(fsys fs.FS) Option {
	return func(c *Container) {
		if fsys != nil {
			c.siteFS = fsys
		}
	}
}

// WithPathMapper overrides how virtual paths are mapped to file names.
func WithPathMapper(mapper interfaces.PathMapper) Option {
	return func(c *Container) {
		if mapper != nil {
			c.mapper = mapper
		}
	}
}

// WithFileSystem overrides the file system used for existence checks and
// template reads.
func WithFileSystem(files interfaces.FileSystem) Option {
	return func(c *Container) {
		if files != nil {
			c.files = files
		}
	}
}

// WithPartialRenderer replaces the html/template engine.
func WithPartialRenderer(renderer interfaces.PartialRenderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithRegisterer selects where metrics are registered. Defaults to the
// Prometheus default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Container) {
		if reg != nil {
			c.registerer = reg
		}
	}
}

// WithTemplateFuncs adds functions to the default engine.
func WithTemplateFuncs(funcs template.FuncMap) Option {
	return func(c *Container) {
		for name, fn := range funcs {
			c.funcs[name] = fn
		}
	}
}

// WithTemplateReload disables the parsed template cache.
func WithTemplateReload(reload bool) Option {
	return func(c *Container) {
		c.reload = reload
	}
}

// NewContainer validates cfg and builds the services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:     cfg,
		registerer: prometheus.DefaultRegisterer,
		funcs:      template.FuncMap{},
		flush:      func() error { return nil },
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	c.configureFileSystem()
	if err := c.configureMetrics(); err != nil {
		return nil, err
	}
	c.configureResolver()
	c.configureRenderer()
	c.configureAssets()
	c.configureResolveAPI()
	c.checkDefaultTheme()

	logging.ModuleLogger(c.loggerProvider, "theming").Debug("theming.configured",
		"themes_root", cfg.Themes.ThemesRoot,
		"views_root", cfg.Themes.ViewsRoot,
		"metrics", cfg.Features.Metrics,
		"asset_handler", cfg.Features.AssetHandler,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, flush, err := NewLoggerProvider(c.Config.Logging)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	c.flush = flush
	return nil
}

// NewLoggerProvider builds the provider named by cfg.Provider. The returned
// flush function syncs buffered sinks.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, func() error, error) {
	noFlush := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), noFlush, nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, nil, err
		}
		return provider, noFlush, nil
	case "zap":
		provider := zaplog.NewProvider(zaplog.Config{
			Level:  cfg.Level,
			Format: cfg.Format,
			File:   cfg.File,
		})
		return provider, provider.Sync, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

func (c *Container) configureFileSystem() {
	if c.siteFS == nil {
		c.siteFS = os.DirFS(c.Config.Themes.PhysicalRoot)
	}
	if c.mapper == nil {
		c.mapper = themes.DirMapper{}
	}
	if c.files == nil {
		c.files = themes.FSFileSystem{FS: c.siteFS}
	}
}

func (c *Container) configureMetrics() error {
	if !c.Config.Features.Metrics {
		return nil
	}
	recorder, err := metrics.New(c.Config.Metrics.Namespace, c.registerer)
	if err != nil {
		return fmt.Errorf("theming metrics: %w", err)
	}
	c.recorder = recorder
	return nil
}

func (c *Container) configureResolver() {
	opts := []themes.ResolverOption{
		themes.WithLayout(c.layout()),
		themes.WithLogger(logging.ResolverLogger(c.loggerProvider)),
	}
	if c.recorder != nil {
		opts = append(opts, themes.WithObserver(c.recorder))
	}
	c.resolver = themes.NewResolver(c.mapper, c.files, opts...)
	c.inspector = themes.NewInspector(c.mapper, c.files, c.layout())
}

func (c *Container) checkDefaultTheme() {
	name := c.Config.Themes.DefaultTheme
	if name == "" {
		return
	}
	logger := logging.ModuleLogger(c.loggerProvider, "theming")
	if _, ok, err := c.inspector.Lookup(context.Background(), name); err != nil {
		logger.Warn("theming.default_theme.lookup_failed", "theme", name, "error", err)
	} else if !ok {
		logger.Warn("theming.default_theme.missing", "theme", name, "themes_root", c.Config.Themes.ThemesRoot)
	}
}

func (c *Container) configureRenderer() {
	if c.renderer != nil {
		return
	}
	funcs := views.FuncMap()
	for name, fn := range c.funcs {
		funcs[name] = fn
	}
	c.renderer = templates.NewEngine(c.mapper, c.files,
		templates.WithFuncs(funcs),
		templates.WithReload(c.reload),
		templates.WithLogger(logging.ViewsLogger(c.loggerProvider)),
	)
}

func (c *Container) configureAssets() {
	if !c.Config.Features.AssetHandler {
		return
	}
	locator := themes.AssetLocator{FS: c.siteFS, Layout: c.layout()}
	c.assets = themehttp.NewAssetHandler(locator, logging.HTTPLogger(c.loggerProvider))
}

func (c *Container) configureResolveAPI() {
	if c.Config.Features.ResolveAPI {
		c.api = themehttp.NewResolveAPI(c.resolver, themehttp.WithInspector(c.inspector))
	}
}

func (c *Container) layout() themes.Layout {
	cfg := c.Config.Themes
	return themes.NewLayout(cfg.ThemesRoot, cfg.ViewsRoot, cfg.TemplateExt)
}

// Resolver returns the theme path resolver.
func (c *Container) Resolver() *themes.Resolver {
	return c.resolver
}

// Inspector returns the theme manifest inspector.
func (c *Container) Inspector() *themes.Inspector {
	return c.inspector
}

// Renderer returns the partial renderer.
func (c *Container) Renderer() interfaces.PartialRenderer {
	return c.renderer
}

// Metrics returns the recorder, nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Recorder {
	return c.recorder
}

// AssetHandler returns the asset router, nil when the feature is disabled.
func (c *Container) AssetHandler() http.Handler {
	if c.assets == nil {
		return nil
	}
	return c.assets.Routes()
}

// RegisterRoutes mounts the enabled HTTP adapters on r.
func (c *Container) RegisterRoutes(r chi.Router) {
	if c.assets != nil {
		c.assets.Register(r)
	}
	if c.api != nil {
		c.api.Register(r)
	}
}

// ResolveAPI returns the resolution inspection API, nil when disabled.
func (c *Container) ResolveAPI() *themehttp.ResolveAPI {
	return c.api
}

// LoggerProvider returns the configured provider, which may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// NewDependencyManager returns a request scoped CSS/JS manager.
func (c *Container) NewDependencyManager() *clientdeps.Manager {
	return clientdeps.NewManager(c.mapper, c.files,
		clientdeps.WithBasePath(c.Config.Themes.BasePath),
		clientdeps.WithLogger(logging.ClientDepsLogger(c.loggerProvider)),
	)
}

// NewContext returns a rendering context for theme bound to ctx. An empty
// theme falls back to the configured default theme.
func (c *Container) NewContext(ctx context.Context, theme string, deps interfaces.DependencyRegistrar, viewData map[string]any) *views.Context {
	if strings.TrimSpace(theme) == "" {
		theme = c.Config.Themes.DefaultTheme
	}
	opts := []views.Option{
		views.WithRequest(ctx),
		views.WithRenderer(c.renderer),
		views.WithBasePath(c.Config.Themes.BasePath),
		views.WithLogger(logging.ViewsLogger(c.loggerProvider)),
		views.WithViewData(viewData),
	}
	if deps != nil {
		opts = append(opts, views.WithDependencies(deps))
	}
	if c.recorder != nil {
		opts = append(opts, views.WithErrorObserver(c.recorder))
	}
	return views.NewContext(theme, c.resolver, opts...)
}

// Close flushes buffered log sinks.
func (c *Container) Close() error {
	return c.flush()
}
