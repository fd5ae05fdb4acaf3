package theming

import "github.com/goliatone/go-cms-theming/internal/runtimeconfig"

var (
	ErrThemesInvalid           = runtimeconfig.ErrThemesInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrMetricsNamespaceInvalid = runtimeconfig.ErrMetricsNamespaceInvalid
)

type (
	Config        = runtimeconfig.Config
	ThemeConfig   = runtimeconfig.ThemeConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	MetricsConfig = runtimeconfig.MetricsConfig
	Features      = runtimeconfig.Features
	LoadOptions   = runtimeconfig.LoadOptions
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig layers a YAML file, a .env file and THEMING_ prefixed
// environment variables over DefaultConfig.
func LoadConfig(opts LoadOptions) (Config, error) {
	return runtimeconfig.Load(opts)
}
