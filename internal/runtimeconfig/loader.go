package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment prefix used when LoadOptions leaves it empty.
const DefaultEnvPrefix = "THEMING_"

// LoadOptions selects the configuration sources. Every source is optional.
type LoadOptions struct {
	// File is a YAML file layered over DefaultConfig.
	File string
	// DotEnv is loaded into the process environment before the env overlay.
	DotEnv string
	// EnvPrefix selects overrides such as THEMING_THEMES__VIEWS_ROOT.
	EnvPrefix string
}

// Load merges DefaultConfig, the YAML file and environment overrides, then
// validates the result.
func Load(opts LoadOptions) (Config, error) {
	if path := strings.TrimSpace(opts.DotEnv); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("theming config: load %s: %w", path, err)
		}
	}

	k := koanf.New(".")

	if path := strings.TrimSpace(opts.File); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("theming config: load %s: %w", path, err)
		}
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	if err := k.Load(env.Provider(prefix, ".", envKey(prefix)), nil); err != nil {
		return Config{}, fmt.Errorf("theming config: env overlay: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("theming config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps THEMING_THEMES__VIEWS_ROOT to themes.views_root.
func envKey(prefix string) func(string) string {
	return func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}
}
