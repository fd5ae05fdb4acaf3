package views

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// MaxPartialDepth bounds how deeply partials may include other partials.
const MaxPartialDepth = 32

var (
	// ErrNoRenderer is wrapped in a RenderError when no view engine is set.
	ErrNoRenderer = errors.New("views: partial renderer not configured")
	// ErrNoResolver is wrapped in a RenderError when the context has no
	// path resolver, as with a zero Context.
	ErrNoResolver = errors.New("views: path resolver not configured")
	// ErrPartialTooDeep is wrapped in a RenderError when partials nest past
	// MaxPartialDepth, usually because a partial includes itself.
	ErrPartialTooDeep = errors.New("views: partial nesting too deep")
)

// PartialData is the value a partial template executes against.
type PartialData struct {
	Ctx      *Context
	Model    any
	ViewData map[string]any
}

// RenderError reports a partial that could not be resolved or rendered.
type RenderError struct {
	Partial string
	// Path is the resolved virtual path, empty when resolution failed.
	Path string
	Err  error
}

// Message is the text shown in place of the partial.
func (e *RenderError) Message() string {
	return fmt.Sprintf("Error rendering partial view '%s'", e.Partial)
}

func (e *RenderError) Error() string {
	if e.Err == nil {
		return e.Message()
	}
	return e.Message() + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// RenderPartial resolves name in the context theme and renders it. A nil
// viewData falls back to the context view data. Every failure, including a
// panic while resolving or rendering, is returned as a *RenderError.
//
// The partial executes against a child context one level deeper than c, so
// partials that include themselves stop at MaxPartialDepth.
func (c *Context) RenderPartial(ctx context.Context, name string, model any, viewData map[string]any) (html template.HTML, err error) {
	var path string
	defer func() {
		if r := recover(); r != nil {
			html = ""
			err = &RenderError{Partial: name, Path: path, Err: fmt.Errorf("views: partial panic: %v", r)}
		}
	}()

	switch {
	case c.resolver == nil:
		return "", &RenderError{Partial: name, Err: ErrNoResolver}
	case c.renderer == nil:
		return "", &RenderError{Partial: name, Err: ErrNoRenderer}
	case c.depth >= MaxPartialDepth:
		return "", &RenderError{Partial: name, Err: ErrPartialTooDeep}
	}
	if viewData == nil {
		viewData = c.ViewData
	}

	path, err = c.resolver.PartialViewPath(ctx, c.Theme, name)
	if err != nil {
		return "", &RenderError{Partial: name, Err: err}
	}

	html, err = c.renderer.RenderPartial(ctx, path, PartialData{Ctx: c.nested(), Model: model, ViewData: viewData})
	if err != nil {
		return "", &RenderError{Partial: name, Path: path, Err: err}
	}
	return html, nil
}

// ThemedPartial renders name and degrades any failure to an inline error
// fragment so the rest of the page still renders.
func (c *Context) ThemedPartial(ctx context.Context, name string, model any, viewData map[string]any) template.HTML {
	html, err := c.RenderPartial(ctx, name, model, viewData)
	if err != nil && c.observer != nil {
		c.observer.ObservePartialError(name)
	}
	return RenderInline(logging.WithThemeContext(logging.Or(c.logger).WithContext(ctx), c.Theme, "", name), html, err)
}

// RenderInline is the recovery strategy for partial failures: it logs err
// and returns <span class="error">Error rendering partial view '<name>'</span>.
// When err is nil html is returned as is.
func RenderInline(logger interfaces.Logger, html template.HTML, err error) template.HTML {
	if err == nil {
		return html
	}
	renderErr := &RenderError{Err: err}
	errors.As(err, &renderErr)

	logging.Or(logger).Error(renderErr.Message(), "error", err)
	escaped := &RenderError{Partial: template.HTMLEscapeString(renderErr.Partial)}
	return template.HTML(`<span class="error">` + escaped.Message() + `</span>`)
}
