package themes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// ManifestFile is the optional descriptor at the root of a theme folder.
const ManifestFile = "theme.json"

// Manifest mirrors the expected theme.json structure.
type Manifest struct {
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	Version     string         `json:"version"`
	Author      *string        `json:"author,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ParseManifest decodes manifest JSON from a reader.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("themes: parse manifest: %w", err)
	}
	if manifest.Version == "" {
		return nil, fmt.Errorf("themes: manifest missing version")
	}
	return &manifest, nil
}

// ThemeSummary describes an installed theme folder.
type ThemeSummary struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	AssetsPath string    `json:"assets_path"`
	Manifest   *Manifest `json:"manifest,omitempty"`
}

// Inspector reads the folder and manifest of a named theme.
type Inspector struct {
	layout Layout
	mapper interfaces.PathMapper
	files  interfaces.FileSystem
}

// NewInspector constructs an inspector over the same collaborators as the resolver.
func NewInspector(mapper interfaces.PathMapper, files interfaces.FileSystem, layout Layout) *Inspector {
	if mapper == nil || files == nil {
		panic("themes: inspector requires a path mapper and file system")
	}
	return &Inspector{layout: layout, mapper: mapper, files: files}
}

// Lookup returns the named theme when its folder exists.
func (c *Inspector) Lookup(ctx context.Context, name string) (ThemeSummary, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ThemeSummary{}, false, configurationError(ErrNoThemeConfigured, textCodeThemeNotConfigured)
	}
	if !validThemeName(name) {
		return ThemeSummary{}, false, configurationError(fmt.Errorf("%w: %q", ErrInvalidThemeName, name), textCodeThemeNameInvalid)
	}
	if err := ctx.Err(); err != nil {
		return ThemeSummary{}, false, err
	}
	physical, err := c.mapper.MapPath(c.layout.ThemeBase(name).String())
	if err != nil {
		return ThemeSummary{}, false, err
	}
	info, err := c.files.Stat(physical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ThemeSummary{}, false, nil
		}
		return ThemeSummary{}, false, fmt.Errorf("themes: stat %s: %w", name, err)
	}
	if !info.IsDir() {
		return ThemeSummary{}, false, nil
	}
	summary, err := c.summary(name)
	if err != nil {
		return ThemeSummary{}, false, err
	}
	return summary, true, nil
}

func (c *Inspector) summary(name string) (ThemeSummary, error) {
	base := c.layout.ThemeBase(name)
	summary := ThemeSummary{
		Name:       name,
		Path:       base.String(),
		AssetsPath: c.layout.ThemeAssets(name).String(),
	}

	physical, err := c.mapper.MapPath(base.File(ManifestFile, "").String())
	if err != nil {
		return summary, err
	}
	data, err := c.files.ReadFile(physical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return summary, nil
		}
		return summary, fmt.Errorf("themes: read %s: %w", path.Join(name, ManifestFile), err)
	}
	manifest, err := ParseManifest(bytes.NewReader(data))
	if err != nil {
		return summary, fmt.Errorf("themes: theme %s: %w", name, err)
	}
	if manifest.Name == "" {
		manifest.Name = name
	}
	summary.Manifest = manifest
	return summary, nil
}
