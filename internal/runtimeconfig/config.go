package runtimeconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrThemesInvalid           = errors.New("theming config: themes section is invalid")
	ErrLoggingProviderRequired = errors.New("theming config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown  = errors.New("theming config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("theming config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("theming config: logging format is invalid")
	ErrMetricsNamespaceInvalid = errors.New("theming config: metrics namespace is invalid")
)

var (
	extPattern       = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Config aggregates the settings of the theming module.
type Config struct {
	Themes   ThemeConfig   `koanf:"themes"`
	Logging  LoggingConfig `koanf:"logging"`
	Metrics  MetricsConfig `koanf:"metrics"`
	Features Features      `koanf:"features"`
}

// ThemeConfig fixes the virtual path layout used by the resolver.
type ThemeConfig struct {
	// ThemesRoot is the virtual directory holding one folder per theme.
	ThemesRoot string `koanf:"themes_root"`
	// ViewsRoot is the virtual directory holding the standard views.
	ViewsRoot   string `koanf:"views_root"`
	TemplateExt string `koanf:"template_ext"`
	// PhysicalRoot is the on-disk directory "~/" maps to.
	PhysicalRoot string `koanf:"physical_root"`
	// BasePath is the URL path the application is served under.
	BasePath string `koanf:"base_path"`
	// DefaultTheme is the site theme handed to callers that have no
	// per-request theme. It may be empty.
	DefaultTheme string `koanf:"default_theme"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `koanf:"provider"`
	Level     string   `koanf:"level"`
	Format    string   `koanf:"format"`
	AddSource bool     `koanf:"add_source"`
	Focus     []string `koanf:"focus"`
	File      string   `koanf:"file"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Namespace string `koanf:"namespace"`
}

// Features toggles optional functionality.
type Features struct {
	Logger       bool `koanf:"logger"`
	Metrics      bool `koanf:"metrics"`
	AssetHandler bool `koanf:"asset_handler"`
	ResolveAPI   bool `koanf:"resolve_api"`
}

// DefaultConfig returns the layout used by sites that keep themes under
// ~/Themes and standard views under ~/Views.
func DefaultConfig() Config {
	return Config{
		Themes: ThemeConfig{
			ThemesRoot:   "~/Themes",
			ViewsRoot:    "~/Views",
			TemplateExt:  "cshtml",
			PhysicalRoot: ".",
			BasePath:     "/",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Metrics: MetricsConfig{
			Namespace: "theming",
		},
	}
}

// Validate performs consistency checks across sections.
func (cfg Config) Validate() error {
	if err := cfg.Themes.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrThemesInvalid, err)
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	if cfg.Features.Metrics {
		if ns := strings.TrimSpace(cfg.Metrics.Namespace); ns != "" && !namespacePattern.MatchString(ns) {
			return fmt.Errorf("%w: %s", ErrMetricsNamespaceInvalid, ns)
		}
	}
	return nil
}

// Validate checks the virtual path layout.
func (c ThemeConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ThemesRoot, validation.Required, validation.By(virtualRoot)),
		validation.Field(&c.ViewsRoot, validation.Required, validation.By(virtualRoot)),
		validation.Field(&c.TemplateExt, validation.Required, validation.Match(extPattern)),
		validation.Field(&c.PhysicalRoot, validation.Required),
		validation.Field(&c.BasePath, validation.Required, validation.By(urlPath)),
	)
}

func virtualRoot(value any) error {
	s, _ := value.(string)
	if !strings.HasPrefix(strings.TrimSpace(s), "~/") {
		return validation.NewError("theming.config.virtual_root", "must start with ~/")
	}
	return nil
}

func urlPath(value any) error {
	s, _ := value.(string)
	if !strings.HasPrefix(strings.TrimSpace(s), "/") {
		return validation.NewError("theming.config.base_path", "must start with /")
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	switch provider {
	case "gologger":
		return format == "json" || format == "console" || format == "pretty"
	case "zap":
		return format == "json" || format == "console"
	default:
		return true
	}
}
