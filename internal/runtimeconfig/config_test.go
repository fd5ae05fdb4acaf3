package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-cms-theming/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Themes.ThemesRoot != "~/Themes" || cfg.Themes.ViewsRoot != "~/Views" || cfg.Themes.TemplateExt != "cshtml" {
		t.Fatalf("unexpected default layout: %+v", cfg.Themes)
	}
}

func TestConfigValidate_ThemeLayout(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
	}{
		{"themes root must be virtual", func(c *runtimeconfig.Config) { c.Themes.ThemesRoot = "/srv/themes" }},
		{"views root required", func(c *runtimeconfig.Config) { c.Themes.ViewsRoot = "" }},
		{"extension without dot", func(c *runtimeconfig.Config) { c.Themes.TemplateExt = ".html" }},
		{"physical root required", func(c *runtimeconfig.Config) { c.Themes.PhysicalRoot = "" }},
		{"base path absolute", func(c *runtimeconfig.Config) { c.Themes.BasePath = "app" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrThemesInvalid) {
				t.Fatalf("expected ErrThemesInvalid, got %v", err)
			}
		})
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "zap"
	cfg.Logging.Format = "pretty"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidMetricsNamespace(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Metrics = true
	cfg.Metrics.Namespace = "site-themes"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrMetricsNamespaceInvalid) {
		t.Fatalf("expected ErrMetricsNamespaceInvalid, got %v", err)
	}
}

func TestLoad_LayersFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theming.yaml")
	yaml := []byte(`themes:
  physical_root: /srv/site
  default_theme: aurora
logging:
  provider: zap
  level: debug
features:
  logger: true
`)
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("THEMINGTEST_THEMES__DEFAULT_THEME", "midnight")

	cfg, err := runtimeconfig.Load(runtimeconfig.LoadOptions{File: path, EnvPrefix: "THEMINGTEST_"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Themes.PhysicalRoot != "/srv/site" {
		t.Fatalf("expected physical root from file, got %q", cfg.Themes.PhysicalRoot)
	}
	if cfg.Themes.DefaultTheme != "midnight" {
		t.Fatalf("expected env override for default theme, got %q", cfg.Themes.DefaultTheme)
	}
	if cfg.Themes.ThemesRoot != "~/Themes" {
		t.Fatalf("expected defaults to survive layering, got %q", cfg.Themes.ThemesRoot)
	}
	if cfg.Logging.Provider != "zap" || !cfg.Features.Logger {
		t.Fatalf("unexpected logging section: %+v %+v", cfg.Logging, cfg.Features)
	}
}

func TestLoad_DotEnvIsOptional(t *testing.T) {
	cfg, err := runtimeconfig.Load(runtimeconfig.LoadOptions{
		DotEnv:    filepath.Join(t.TempDir(), ".env"),
		EnvPrefix: "THEMINGNONE_",
	})
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
	if cfg.Themes.BasePath != "/" {
		t.Fatalf("expected default base path, got %q", cfg.Themes.BasePath)
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("THEMINGDOT_THEMES__BASE_PATH=/blog\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("THEMINGDOT_THEMES__BASE_PATH") })

	cfg, err := runtimeconfig.Load(runtimeconfig.LoadOptions{DotEnv: dotenv, EnvPrefix: "THEMINGDOT_"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Themes.BasePath != "/blog" {
		t.Fatalf("expected base path from .env, got %q", cfg.Themes.BasePath)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := runtimeconfig.Load(runtimeconfig.LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_InvalidConfigFails(t *testing.T) {
	t.Setenv("THEMINGBAD_THEMES__THEMES_ROOT", "themes")
	_, err := runtimeconfig.Load(runtimeconfig.LoadOptions{EnvPrefix: "THEMINGBAD_"})
	if !errors.Is(err, runtimeconfig.ErrThemesInvalid) {
		t.Fatalf("expected ErrThemesInvalid, got %v", err)
	}
}
