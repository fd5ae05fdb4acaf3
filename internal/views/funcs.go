package views

import (
	"fmt"
	"html/template"

	"github.com/goliatone/go-cms-theming/internal/themes"
)

// FuncMap returns the helpers available to theme templates. Helpers take
// the rendering context explicitly:
//
//	<link rel="icon" href="{{ themedAsset .Ctx "images/favicon.ico" }}">
//	{{ requiresThemedCss .Ctx "site.css" }}
//	{{ themedPartial .Ctx "nav" .Model }}
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"themedAsset": func(c *Context, relativePath string) (string, error) {
			return c.ThemedAsset(c.Request(), relativePath)
		},
		"themedPartial": themedPartial,
		"requiresThemedCss": func(c *Context, filePath string) (string, error) {
			_, err := c.RequiresThemedCSS(c.Request(), filePath)
			return "", err
		},
		"requiresThemedJs": func(c *Context, filePath string) (string, error) {
			_, err := c.RequiresThemedJS(c.Request(), filePath)
			return "", err
		},
		"requiresThemedCssFolder": func(c *Context) (string, error) {
			_, err := c.RequiresThemedCSSFolder(c.Request())
			return "", err
		},
		"requiresThemedJsFolder": func(c *Context) (string, error) {
			_, err := c.RequiresThemedJSFolder(c.Request())
			return "", err
		},
		"cssOverride": themes.CSSOverridePath,
		"dict":        dict,
	}
}

// themedPartial takes an optional model and view data. Argument mistakes
// abort the calling template; render failures degrade inline.
func themedPartial(c *Context, name string, args ...any) (template.HTML, error) {
	var model any
	var viewData map[string]any
	switch len(args) {
	case 2:
		if args[1] != nil {
			data, ok := args[1].(map[string]any)
			if !ok {
				return "", fmt.Errorf("views: themedPartial %q: view data must be a map[string]any, got %T", name, args[1])
			}
			viewData = data
		}
		fallthrough
	case 1:
		model = args[0]
	case 0:
	default:
		return "", fmt.Errorf("views: themedPartial %q: expected at most 2 arguments after the name, got %d", name, len(args))
	}
	return c.ThemedPartial(c.Request(), name, model, viewData), nil
}

// dict builds a map in templates: {{ dict "title" .Model.Title }}.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("views: dict expects key/value pairs, got %d arguments", len(kv))
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("views: dict key at position %d must be a string, got %T", i, kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}
