package themes

import (
	"fmt"
	"strings"
)

// PathCategory selects the view layout a resolution targets.
type PathCategory int

const (
	ThemeRoot PathCategory = iota
	View
	PartialView
	GridEditor
)

func (c PathCategory) String() string {
	switch c {
	case ThemeRoot:
		return "theme_root"
	case View:
		return "view"
	case PartialView:
		return "partial_view"
	case GridEditor:
		return "grid_editor"
	default:
		return fmt.Sprintf("path_category(%d)", int(c))
	}
}

// ParseCategory is the inverse of PathCategory.String.
func ParseCategory(name string) (PathCategory, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "theme_root":
		return ThemeRoot, nil
	case "view":
		return View, nil
	case "partial_view":
		return PartialView, nil
	case "grid_editor":
		return GridEditor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
}

// viewDirs lists, per category, the folders below the views root.
var viewDirs = map[PathCategory][]string{
	View:        nil,
	PartialView: {"Partials"},
	GridEditor:  {"Partials", "Grid", "Editors"},
}

const (
	virtualPrefix = "~/"
	themeViewsDir = "Views"
	themeAssetDir = "Assets"
)

// VirtualPath is an application relative path ("~/Themes/dark/") kept as
// segments so separators are always rendered the same way.
type VirtualPath struct {
	segments []string
	dir      bool
}

// ParseVirtualPath splits raw on "/" and drops the "~" marker, empty and "."
// segments. The result is a directory when raw ends with "/" or is a root.
func ParseVirtualPath(raw string) VirtualPath {
	raw = strings.TrimSpace(raw)
	p := VirtualPath{segments: splitSegments(raw)}
	p.dir = len(p.segments) == 0 || strings.HasSuffix(raw, "/")
	return p
}

func splitSegments(raw string) []string {
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." || (i == 0 && part == "~") {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Dir returns the directory formed by appending segments to p.
func (p VirtualPath) Dir(segments ...string) VirtualPath {
	next := VirtualPath{segments: p.join(segments), dir: true}
	return next
}

// File returns the file name.ext below p. Name may contain "/" separated
// sub folders.
func (p VirtualPath) File(name, ext string) VirtualPath {
	segments := p.join([]string{name})
	if n := len(segments); n > 0 && ext != "" {
		segments[n-1] += "." + strings.TrimPrefix(ext, ".")
	}
	return VirtualPath{segments: segments}
}

func (p VirtualPath) join(extra []string) []string {
	out := make([]string, 0, len(p.segments)+len(extra))
	out = append(out, p.segments...)
	for _, segment := range extra {
		out = append(out, splitSegments(segment)...)
	}
	return out
}

// IsDir reports whether p names a directory.
func (p VirtualPath) IsDir() bool {
	return p.dir
}

// IsZero reports whether p has no segments.
func (p VirtualPath) IsZero() bool {
	return len(p.segments) == 0
}

// Relative renders p without the "~/" marker or a trailing separator,
// which is the form fs.FS implementations expect.
func (p VirtualPath) Relative() string {
	if len(p.segments) == 0 {
		return "."
	}
	return strings.Join(p.segments, "/")
}

// String renders "~/a/b/" for directories and "~/a/b.ext" for files.
func (p VirtualPath) String() string {
	if len(p.segments) == 0 {
		return virtualPrefix
	}
	s := virtualPrefix + strings.Join(p.segments, "/")
	if p.dir {
		s += "/"
	}
	return s
}

// ToAbsolute converts an application relative path into a URL path served
// under basePath. Paths that do not start with "~" are returned unchanged.
func ToAbsolute(virtualPath, basePath string) string {
	if !strings.HasPrefix(virtualPath, "~") {
		return virtualPath
	}
	base := "/" + strings.Trim(strings.TrimSpace(basePath), "/")
	rest := strings.TrimLeft(strings.TrimPrefix(virtualPath, "~"), "/")
	if base == "/" {
		return base + rest
	}
	if rest == "" {
		return base + "/"
	}
	return base + "/" + rest
}

// EnsureTrailingSlash returns s ending with exactly one "/".
func EnsureTrailingSlash(s string) string {
	return strings.TrimRight(s, "/") + "/"
}

// EnsureLeadingSlash returns s starting with exactly one "/".
func EnsureLeadingSlash(s string) string {
	return "/" + strings.TrimLeft(s, "/")
}

// Layout captures the virtual folders and template extension used when
// building themed and standard paths.
type Layout struct {
	ThemesRoot VirtualPath
	ViewsRoot  VirtualPath
	Ext        string
}

// DefaultLayout is ~/Themes, ~/Views and the cshtml extension.
func DefaultLayout() Layout {
	return NewLayout("~/Themes", "~/Views", "cshtml")
}

// NewLayout parses the configured roots.
func NewLayout(themesRoot, viewsRoot, ext string) Layout {
	return Layout{
		ThemesRoot: ParseVirtualPath(themesRoot).Dir(),
		ViewsRoot:  ParseVirtualPath(viewsRoot).Dir(),
		Ext:        strings.TrimPrefix(strings.TrimSpace(ext), "."),
	}
}

// ThemeBase returns the root folder of theme.
func (l Layout) ThemeBase(theme string) VirtualPath {
	return l.ThemesRoot.Dir(theme)
}

// ThemeAssets returns the Assets folder of theme.
func (l Layout) ThemeAssets(theme string) VirtualPath {
	return l.ThemeBase(theme).Dir(themeAssetDir)
}

// Candidates returns the themed path and the standard fallback for the
// given category. For ThemeRoot both are the theme folder.
func (l Layout) Candidates(theme string, category PathCategory, viewName string) (themed, standard VirtualPath, err error) {
	base := l.ThemeBase(theme)
	if category == ThemeRoot {
		return base, base, nil
	}
	dirs, ok := viewDirs[category]
	if !ok {
		return VirtualPath{}, VirtualPath{}, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}
	themed = base.Dir(append([]string{themeViewsDir}, dirs...)...).File(viewName, l.Ext)
	standard = l.ViewsRoot.Dir(dirs...).File(viewName, l.Ext)
	return themed, standard, nil
}
