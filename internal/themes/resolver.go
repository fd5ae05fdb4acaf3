package themes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// Outcome records which branch a resolution took.
type Outcome string

const (
	OutcomeThemed   Outcome = "themed"
	OutcomeStandard Outcome = "standard"
	OutcomeError    Outcome = "error"
)

// Observer is notified after every resolution.
type Observer interface {
	ObserveResolution(category PathCategory, outcome Outcome)
}

// Request describes a single themed path lookup.
type Request struct {
	Theme    string
	Category PathCategory
	// ViewName is the view without extension. Required for every category
	// except ThemeRoot.
	ViewName string
	// AlternateStandardPath replaces the default fallback for non-root
	// categories when set.
	AlternateStandardPath string
}

// Resolver picks between a theme override and the standard view by checking
// the file system. It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	layout   Layout
	mapper   interfaces.PathMapper
	files    interfaces.FileSystem
	logger   interfaces.Logger
	observer Observer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLayout overrides the default ~/Themes, ~/Views, cshtml layout.
func WithLayout(layout Layout) ResolverOption {
	return func(r *Resolver) {
		r.layout = layout
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver registers an observer, typically the metrics collector.
func WithObserver(observer Observer) ResolverOption {
	return func(r *Resolver) {
		r.observer = observer
	}
}

// NewResolver wires the path mapper and file system capabilities.
func NewResolver(mapper interfaces.PathMapper, files interfaces.FileSystem, opts ...ResolverOption) *Resolver {
	if mapper == nil {
		panic("themes: path mapper required")
	}
	if files == nil {
		panic("themes: file system required")
	}
	r := &Resolver{
		layout: DefaultLayout(),
		mapper: mapper,
		files:  files,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolution is a resolved path together with the branch that produced it.
type Resolution struct {
	Path    string
	Outcome Outcome
}

// Themed reports whether the theme override was chosen.
func (r Resolution) Themed() bool {
	return r.Outcome == OutcomeThemed
}

// Resolve returns the themed virtual path when the override exists and the
// standard path otherwise.
func (r *Resolver) Resolve(ctx context.Context, req Request) (string, error) {
	res, err := r.ResolveDetailed(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Path, nil
}

// ResolveDetailed is Resolve that also reports the branch taken. For
// ThemeRoot the path is the same either way and only the outcome tells
// whether the theme folder exists.
func (r *Resolver) ResolveDetailed(ctx context.Context, req Request) (Resolution, error) {
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		r.observe(req.Category, OutcomeError)
		return Resolution{}, configurationError(ErrNoThemeConfigured, textCodeThemeNotConfigured)
	}
	if !validThemeName(theme) {
		r.observe(req.Category, OutcomeError)
		return Resolution{}, configurationError(fmt.Errorf("%w: %q", ErrInvalidThemeName, theme), textCodeThemeNameInvalid)
	}

	if req.Category != ThemeRoot && strings.TrimSpace(req.ViewName) == "" {
		if _, known := viewDirs[req.Category]; known {
			r.observe(req.Category, OutcomeError)
			return Resolution{}, configurationError(ErrViewNameRequired, textCodeViewNameRequired)
		}
	}

	themed, standard, err := r.layout.Candidates(theme, req.Category, req.ViewName)
	if err != nil {
		r.observe(req.Category, OutcomeError)
		return Resolution{}, configurationError(err, textCodeUnknownCategory)
	}

	fallback := standard.String()
	if req.Category != ThemeRoot && req.AlternateStandardPath != "" {
		fallback = req.AlternateStandardPath
	}

	found, err := r.exists(themed)
	if err != nil {
		r.observe(req.Category, OutcomeError)
		return Resolution{}, err
	}

	res := Resolution{Path: fallback, Outcome: OutcomeStandard}
	if found {
		res = Resolution{Path: themed.String(), Outcome: OutcomeThemed}
	}

	logging.WithThemeContext(r.logger.WithContext(ctx), theme, req.Category.String(), "").
		Debug("theme path resolved", "path", res.Path, "themed", found)
	r.observe(req.Category, res.Outcome)
	return res, nil
}

// validThemeName rejects names that would step outside the themes root.
func validThemeName(theme string) bool {
	return !strings.ContainsAny(theme, `/\`) && theme != "." && theme != ".."
}

// FinalThemePath is the positional form of Resolve.
func (r *Resolver) FinalThemePath(ctx context.Context, theme string, category PathCategory, viewName, alternateStandardPath string) (string, error) {
	return r.Resolve(ctx, Request{
		Theme:                 theme,
		Category:              category,
		ViewName:              viewName,
		AlternateStandardPath: alternateStandardPath,
	})
}

// ThemePath resolves the theme root folder.
func (r *Resolver) ThemePath(ctx context.Context, theme string) (string, error) {
	return r.Resolve(ctx, Request{Theme: theme, Category: ThemeRoot})
}

// ViewPath resolves a full view.
func (r *Resolver) ViewPath(ctx context.Context, theme, viewName string) (string, error) {
	return r.Resolve(ctx, Request{Theme: theme, Category: View, ViewName: viewName})
}

// PartialViewPath resolves a partial view.
func (r *Resolver) PartialViewPath(ctx context.Context, theme, viewName string) (string, error) {
	return r.Resolve(ctx, Request{Theme: theme, Category: PartialView, ViewName: viewName})
}

// GridEditorPath resolves a grid editor partial.
func (r *Resolver) GridEditorPath(ctx context.Context, theme, viewName string) (string, error) {
	return r.Resolve(ctx, Request{Theme: theme, Category: GridEditor, ViewName: viewName})
}

// exists reports whether target is present with the expected kind. Missing
// entries are not errors; any other stat failure is returned.
func (r *Resolver) exists(target VirtualPath) (bool, error) {
	physical, err := r.mapper.MapPath(target.String())
	if err != nil {
		return false, fmt.Errorf("themes: map %s: %w", target, err)
	}
	info, err := r.files.Stat(physical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, fmt.Errorf("themes: stat %s: %w", physical, err)
	}
	if target.IsDir() {
		return info.IsDir(), nil
	}
	return info.Mode().IsRegular(), nil
}

func (r *Resolver) observe(category PathCategory, outcome Outcome) {
	if r.observer != nil {
		r.observer.ObserveResolution(category, outcome)
	}
}
