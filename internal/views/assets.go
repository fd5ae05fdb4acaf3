package views

import (
	"context"
	"strings"

	"github.com/goliatone/go-cms-theming/internal/themes"
)

const (
	assetsDir = "Assets/"
	cssDir    = assetsDir + "css"
	jsDir     = assetsDir + "js"
)

// ThemedAsset returns the URL of a file inside the theme's Assets folder,
// e.g. "images/favicon.ico" -> "/Themes/dark/Assets/images/favicon.ico".
func (c *Context) ThemedAsset(ctx context.Context, relativePath string) (string, error) {
	root, err := c.resolver.ThemePath(ctx, c.Theme)
	if err != nil {
		return "", err
	}
	absolute := themes.EnsureTrailingSlash(themes.ToAbsolute(root, c.basePath))
	return absolute + assetsDir + strings.TrimLeft(relativePath, "/"), nil
}

// RequiresThemedCSS registers Assets/css/<filePath> of the theme.
func (c *Context) RequiresThemedCSS(ctx context.Context, filePath string) (*Context, error) {
	return c.require(ctx, func(root string) {
		c.deps.RequireCSS(root + cssDir + themes.EnsureLeadingSlash(filePath))
	})
}

// RequiresThemedJS registers Assets/js/<filePath> of the theme.
func (c *Context) RequiresThemedJS(ctx context.Context, filePath string) (*Context, error) {
	return c.require(ctx, func(root string) {
		c.deps.RequireJS(root + jsDir + themes.EnsureLeadingSlash(filePath))
	})
}

// RequiresThemedCSSFolder registers every stylesheet in Assets/css.
func (c *Context) RequiresThemedCSSFolder(ctx context.Context) (*Context, error) {
	return c.require(ctx, func(root string) {
		c.deps.RequireCSSFolder(root + cssDir)
	})
}

// RequiresThemedJSFolder registers every script in Assets/js.
func (c *Context) RequiresThemedJSFolder(ctx context.Context) (*Context, error) {
	return c.require(ctx, func(root string) {
		c.deps.RequireJSFolder(root + jsDir)
	})
}

func (c *Context) require(ctx context.Context, register func(root string)) (*Context, error) {
	if c.deps == nil {
		return c, ErrNoDependencyRegistrar
	}
	root, err := c.resolver.ThemePath(ctx, c.Theme)
	if err != nil {
		return c, err
	}
	register(themes.EnsureTrailingSlash(root))
	return c, nil
}
