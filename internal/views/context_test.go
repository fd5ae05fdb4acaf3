package views_test

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/internal/views"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"Themes/dark/Views/Partials/nav.cshtml": {Data: []byte("nav")},
		"Views/Partials/footer.cshtml":          {Data: []byte("footer")},
	}
}

func newResolver() *themes.Resolver {
	return themes.NewResolver(themes.DirMapper{}, themes.FSFileSystem{FS: siteFS()})
}

type stubRenderer struct {
	paths []string
	data  []views.PartialData
	err   error
	panic any
}

func (r *stubRenderer) RenderPartial(_ context.Context, virtualPath string, data any) (template.HTML, error) {
	if r.panic != nil {
		panic(r.panic)
	}
	r.paths = append(r.paths, virtualPath)
	r.data = append(r.data, data.(views.PartialData))
	if r.err != nil {
		return "", r.err
	}
	return template.HTML("<nav>" + virtualPath + "</nav>"), nil
}

type failingFS struct {
	err error
}

func (f failingFS) Stat(string) (fs.FileInfo, error)      { return nil, f.err }
func (f failingFS) ReadDir(string) ([]fs.DirEntry, error) { return nil, f.err }
func (f failingFS) ReadFile(string) ([]byte, error)       { return nil, f.err }

type panickingFS struct{ failingFS }

func (panickingFS) Stat(string) (fs.FileInfo, error) { panic("stat exploded") }

func resolverOver(files interfaces.FileSystem) *themes.Resolver {
	return themes.NewResolver(themes.DirMapper{}, files)
}

type recordingDeps struct {
	calls []string
}

func (d *recordingDeps) RequireCSS(path string)       { d.calls = append(d.calls, "css:"+path) }
func (d *recordingDeps) RequireJS(path string)        { d.calls = append(d.calls, "js:"+path) }
func (d *recordingDeps) RequireCSSFolder(path string) { d.calls = append(d.calls, "cssdir:"+path) }
func (d *recordingDeps) RequireJSFolder(path string)  { d.calls = append(d.calls, "jsdir:"+path) }

var _ interfaces.DependencyRegistrar = (*recordingDeps)(nil)

type recordingLogger struct {
	errors []string
	fields map[string]any
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(msg string, args ...any) {
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) Fatal(string, ...any) {}
func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return l
}
func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if l.fields == nil {
		l.fields = map[string]any{}
	}
	for k, v := range fields {
		l.fields[k] = v
	}
	return l
}

type countingObserver struct {
	partials []string
}

func (o *countingObserver) ObservePartialError(partial string) {
	o.partials = append(o.partials, partial)
}

func TestThemedAsset(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		basePath string
		asset    string
		want     string
	}{
		{"root base path", "", "images/favicon.ico", "/Themes/dark/Assets/images/favicon.ico"},
		{"leading slash trimmed", "", "/css/site.css", "/Themes/dark/Assets/css/site.css"},
		{"virtual directory", "/blog", "js/app.js", "/blog/Themes/dark/Assets/js/app.js"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := views.NewContext("dark", newResolver(), views.WithBasePath(tc.basePath))
			got, err := c.ThemedAsset(ctx, tc.asset)
			if err != nil {
				t.Fatalf("ThemedAsset returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestThemedAssetRequiresTheme(t *testing.T) {
	c := views.NewContext("  ", newResolver())
	if _, err := c.ThemedAsset(context.Background(), "images/logo.png"); !themes.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestRequiresThemedHelpers(t *testing.T) {
	ctx := context.Background()
	deps := &recordingDeps{}
	c := views.NewContext("dark", newResolver(), views.WithDependencies(deps))

	got, err := c.RequiresThemedCSS(ctx, "site.css")
	if err != nil {
		t.Fatalf("RequiresThemedCSS returned error: %v", err)
	}
	if got != c {
		t.Fatalf("expected helper to return the same context for chaining")
	}
	if _, err := c.RequiresThemedJS(ctx, "/app.js"); err != nil {
		t.Fatalf("RequiresThemedJS returned error: %v", err)
	}
	if _, err := c.RequiresThemedCSSFolder(ctx); err != nil {
		t.Fatalf("RequiresThemedCSSFolder returned error: %v", err)
	}
	if _, err := c.RequiresThemedJSFolder(ctx); err != nil {
		t.Fatalf("RequiresThemedJSFolder returned error: %v", err)
	}

	want := []string{
		"css:~/Themes/dark/Assets/css/site.css",
		"js:~/Themes/dark/Assets/js/app.js",
		"cssdir:~/Themes/dark/Assets/css",
		"jsdir:~/Themes/dark/Assets/js",
	}
	if strings.Join(deps.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected registrations: %v", deps.calls)
	}
}

func TestRequiresThemedWithoutRegistrar(t *testing.T) {
	c := views.NewContext("dark", newResolver())
	if _, err := c.RequiresThemedCSS(context.Background(), "site.css"); !errors.Is(err, views.ErrNoDependencyRegistrar) {
		t.Fatalf("expected ErrNoDependencyRegistrar, got %v", err)
	}
}

func TestCSSOverride(t *testing.T) {
	c := views.NewContext("dark", newResolver())
	if got := c.CSSOverride("site.css"); got != "/Themes/~CssOverrides/site.css" {
		t.Fatalf("unexpected override path %q", got)
	}
}

func TestNewContextPanicsWithoutResolver(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	views.NewContext("dark", nil)
}

func TestRenderPartialResolvesThemedAndStandard(t *testing.T) {
	ctx := context.Background()
	renderer := &stubRenderer{}
	c := views.NewContext("dark", newResolver(), views.WithRenderer(renderer))

	if _, err := c.RenderPartial(ctx, "nav", nil, nil); err != nil {
		t.Fatalf("RenderPartial returned error: %v", err)
	}
	if _, err := c.RenderPartial(ctx, "footer", nil, nil); err != nil {
		t.Fatalf("RenderPartial returned error: %v", err)
	}
	want := []string{"~/Themes/dark/Views/Partials/nav.cshtml", "~/Views/Partials/footer.cshtml"}
	if strings.Join(renderer.paths, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected paths: %v", renderer.paths)
	}
}

func TestRenderPartialViewDataFallback(t *testing.T) {
	ctx := context.Background()
	renderer := &stubRenderer{}
	c := views.NewContext("dark", newResolver(),
		views.WithRenderer(renderer),
		views.WithViewData(map[string]any{"title": "page"}),
	)

	if _, err := c.RenderPartial(ctx, "nav", "model", nil); err != nil {
		t.Fatalf("RenderPartial returned error: %v", err)
	}
	if _, err := c.RenderPartial(ctx, "nav", "model", map[string]any{"title": "own"}); err != nil {
		t.Fatalf("RenderPartial returned error: %v", err)
	}

	if got := renderer.data[0].ViewData["title"]; got != "page" {
		t.Fatalf("expected context view data, got %v", got)
	}
	if got := renderer.data[1].ViewData["title"]; got != "own" {
		t.Fatalf("expected explicit view data, got %v", got)
	}
	if renderer.data[0].Model != "model" || renderer.data[0].Ctx.Theme != "dark" {
		t.Fatalf("unexpected partial data: %+v", renderer.data[0])
	}
	if c.Depth() != 0 || renderer.data[0].Ctx.Depth() != 1 {
		t.Fatalf("expected nested depth 1, got %d (parent %d)", renderer.data[0].Ctx.Depth(), c.Depth())
	}
}

func TestRenderPartialErrors(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("template: nav:1: unexpected EOF")

	cases := []struct {
		name        string
		ctx         *views.Context
		wantPath    string
		wantCause   error
		wantConfig  bool
		wantMessage string
	}{
		{
			name:      "renderer failure",
			ctx:       views.NewContext("dark", newResolver(), views.WithRenderer(&stubRenderer{err: cause})),
			wantPath:  "~/Themes/dark/Views/Partials/nav.cshtml",
			wantCause: cause,
		},
		{
			name:      "no renderer",
			ctx:       views.NewContext("dark", newResolver()),
			wantCause: views.ErrNoRenderer,
		},
		{
			name:     "renderer panic",
			ctx:      views.NewContext("dark", newResolver(), views.WithRenderer(&stubRenderer{panic: "boom"})),
			wantPath: "~/Themes/dark/Views/Partials/nav.cshtml",
		},
		{
			name:       "blank theme",
			ctx:        views.NewContext("  ", newResolver(), views.WithRenderer(&stubRenderer{})),
			wantConfig: true,
		},
		{
			name:      "stat failure",
			ctx:       views.NewContext("dark", resolverOver(failingFS{err: fs.ErrPermission}), views.WithRenderer(&stubRenderer{})),
			wantCause: fs.ErrPermission,
		},
		{
			name:        "resolution panic",
			ctx:         views.NewContext("dark", resolverOver(panickingFS{}), views.WithRenderer(&stubRenderer{})),
			wantMessage: "stat exploded",
		},
		{
			name:      "zero context",
			ctx:       &views.Context{Theme: "dark"},
			wantCause: views.ErrNoResolver,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			html, err := tc.ctx.RenderPartial(ctx, "nav", nil, nil)
			if html != "" {
				t.Fatalf("expected empty html, got %q", html)
			}
			var renderErr *views.RenderError
			if !errors.As(err, &renderErr) {
				t.Fatalf("expected *RenderError, got %T (%v)", err, err)
			}
			if renderErr.Partial != "nav" || renderErr.Path != tc.wantPath {
				t.Fatalf("unexpected render error fields: %+v", renderErr)
			}
			if tc.wantCause != nil && !errors.Is(err, tc.wantCause) {
				t.Fatalf("expected cause %v, got %v", tc.wantCause, err)
			}
			if tc.wantConfig && !themes.IsConfigurationError(renderErr.Err) {
				t.Fatalf("expected configuration error, got %v", renderErr.Err)
			}
			if tc.wantMessage != "" && !strings.Contains(err.Error(), tc.wantMessage) {
				t.Fatalf("expected %q in %q", tc.wantMessage, err.Error())
			}
			if !strings.HasPrefix(err.Error(), "Error rendering partial view 'nav'") {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestThemedPartialRendersInlineError(t *testing.T) {
	ctx := context.Background()
	logger := &recordingLogger{}
	observer := &countingObserver{}
	c := views.NewContext("dark", newResolver(),
		views.WithRenderer(&stubRenderer{err: errors.New("boom")}),
		views.WithLogger(logger),
		views.WithErrorObserver(observer),
	)

	got := c.ThemedPartial(ctx, "nav", nil, nil)
	want := template.HTML(`<span class="error">Error rendering partial view 'nav'</span>`)
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if len(logger.errors) != 1 {
		t.Fatalf("expected one logged error, got %v", logger.errors)
	}
	if logger.fields["partial"] != "nav" || logger.fields["theme"] != "dark" {
		t.Fatalf("expected theme context fields, got %v", logger.fields)
	}
	if len(observer.partials) != 1 || observer.partials[0] != "nav" {
		t.Fatalf("unexpected observer calls %v", observer.partials)
	}
}

func TestThemedPartialDegradesResolutionFailures(t *testing.T) {
	want := template.HTML(`<span class="error">Error rendering partial view 'nav'</span>`)
	cases := []struct {
		name  string
		build func(opts ...views.Option) *views.Context
	}{
		{"blank theme", func(opts ...views.Option) *views.Context {
			return views.NewContext("  ", newResolver(), opts...)
		}},
		{"stat failure", func(opts ...views.Option) *views.Context {
			return views.NewContext("dark", resolverOver(failingFS{err: fs.ErrPermission}), opts...)
		}},
		{"resolution panic", func(opts ...views.Option) *views.Context {
			return views.NewContext("dark", resolverOver(panickingFS{}), opts...)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := &recordingLogger{}
			observer := &countingObserver{}
			renderer := &stubRenderer{}
			c := tc.build(views.WithRenderer(renderer), views.WithLogger(logger), views.WithErrorObserver(observer))

			if got := c.ThemedPartial(context.Background(), "nav", nil, nil); got != want {
				t.Fatalf("expected %q, got %q", want, got)
			}
			if len(renderer.paths) != 0 {
				t.Fatalf("renderer should not run, got %v", renderer.paths)
			}
			if len(logger.errors) != 1 || len(observer.partials) != 1 {
				t.Fatalf("expected one logged and observed failure, got %v %v", logger.errors, observer.partials)
			}
		})
	}

	zero := &views.Context{Theme: "dark"}
	if got := zero.ThemedPartial(context.Background(), "nav", nil, nil); got != want {
		t.Fatalf("expected fragment from zero context, got %q", got)
	}
}

type recursiveRenderer struct {
	calls int
	last  error
}

func (r *recursiveRenderer) RenderPartial(ctx context.Context, _ string, data any) (template.HTML, error) {
	r.calls++
	nested := data.(views.PartialData).Ctx
	html, err := nested.RenderPartial(ctx, "nav", nil, nil)
	if err != nil {
		r.last = err
	}
	return "x" + html, nil
}

func TestRenderPartialLimitsNesting(t *testing.T) {
	renderer := &recursiveRenderer{}
	c := views.NewContext("dark", newResolver(), views.WithRenderer(renderer))

	html, err := c.RenderPartial(context.Background(), "nav", nil, nil)
	if err != nil {
		t.Fatalf("RenderPartial returned error: %v", err)
	}
	if renderer.calls != views.MaxPartialDepth {
		t.Fatalf("expected %d renders, got %d", views.MaxPartialDepth, renderer.calls)
	}
	if string(html) != strings.Repeat("x", views.MaxPartialDepth) {
		t.Fatalf("unexpected html %q", html)
	}
	var renderErr *views.RenderError
	if !errors.As(renderer.last, &renderErr) || !errors.Is(renderErr, views.ErrPartialTooDeep) || renderErr.Path != "" {
		t.Fatalf("expected ErrPartialTooDeep render error, got %v", renderer.last)
	}
}

func TestThemedPartialSurvivesPanic(t *testing.T) {
	c := views.NewContext("dark", newResolver(), views.WithRenderer(&stubRenderer{panic: fmt.Errorf("nil map")}))
	got := c.ThemedPartial(context.Background(), "nav", nil, nil)
	if !strings.Contains(string(got), "Error rendering partial view 'nav'") {
		t.Fatalf("unexpected fragment %q", got)
	}
}

func TestThemedPartialSuccess(t *testing.T) {
	c := views.NewContext("dark", newResolver(), views.WithRenderer(&stubRenderer{}))
	got := c.ThemedPartial(context.Background(), "nav", nil, nil)
	if got != "<nav>~/Themes/dark/Views/Partials/nav.cshtml</nav>" {
		t.Fatalf("unexpected html %q", got)
	}
}

func TestRenderInline(t *testing.T) {
	if got := views.RenderInline(nil, "<p>ok</p>", nil); got != "<p>ok</p>" {
		t.Fatalf("expected html passthrough, got %q", got)
	}

	err := &views.RenderError{Partial: `<script>`, Err: errors.New("boom")}
	got := views.RenderInline(nil, "", err)
	if strings.Contains(string(got), "<script>") {
		t.Fatalf("partial name must be escaped: %q", got)
	}
	if !strings.Contains(string(got), "&lt;script&gt;") {
		t.Fatalf("expected escaped name, got %q", got)
	}

	plain := views.RenderInline(nil, "", errors.New("boom"))
	if plain != `<span class="error">Error rendering partial view ''</span>` {
		t.Fatalf("unexpected fragment for plain error %q", plain)
	}
}
