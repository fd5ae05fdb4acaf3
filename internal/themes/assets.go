package themes

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// AssetLocator finds files inside a theme's Assets folder on an fs.FS rooted
// at the site's physical root.
type AssetLocator struct {
	FS     fs.FS
	Layout Layout
}

// Open returns the asset file. Directories are reported as fs.ErrNotExist.
func (l AssetLocator) Open(theme, asset string) (fs.File, string, error) {
	name, err := l.ResolvePath(theme, asset)
	if err != nil {
		return nil, "", err
	}
	file, err := l.FS.Open(name)
	if err != nil {
		return nil, "", fmt.Errorf("themes: open asset %s: %w", asset, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, "", fmt.Errorf("themes: stat asset %s: %w", asset, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, "", fmt.Errorf("themes: asset %s: %w", asset, fs.ErrNotExist)
	}
	return file, name, nil
}

// ResolvePath returns the fs.FS name of asset inside theme's Assets folder.
func (l AssetLocator) ResolvePath(theme, asset string) (string, error) {
	if l.FS == nil {
		return "", fmt.Errorf("themes: asset file system not configured")
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return "", configurationError(ErrNoThemeConfigured, textCodeThemeNotConfigured)
	}
	if strings.Contains(theme, "/") || theme == ".." {
		return "", ErrAssetTraversal
	}
	asset = strings.TrimSpace(asset)
	if asset == "" {
		return "", ErrAssetPathRequired
	}

	base := l.Layout.ThemeAssets(theme).Relative()
	clean := path.Join(base, asset)
	if !strings.HasPrefix(clean, base+"/") {
		return "", ErrAssetTraversal
	}
	return clean, nil
}
