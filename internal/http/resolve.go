package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-cms-theming/internal/themes"
)

// ResolveAPI exposes the resolver as JSON so theme authors can see which
// file a view resolves to.
type ResolveAPI struct {
	basePath  string
	resolver  *themes.Resolver
	inspector *themes.Inspector
}

// ResolveOption mutates the ResolveAPI configuration.
type ResolveOption func(*ResolveAPI)

// WithBasePath overrides the base API path (defaults to "/theming/api").
func WithBasePath(path string) ResolveOption {
	return func(api *ResolveAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithInspector enables the theme manifest route.
func WithInspector(inspector *themes.Inspector) ResolveOption {
	return func(api *ResolveAPI) {
		api.inspector = inspector
	}
}

// NewResolveAPI constructs a ResolveAPI backed by resolver.
func NewResolveAPI(resolver *themes.Resolver, opts ...ResolveOption) *ResolveAPI {
	api := &ResolveAPI{
		basePath: "/theming/api",
		resolver: resolver,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// Register mounts the routes on r.
func (api *ResolveAPI) Register(r chi.Router) {
	r.Get(joinPath(api.basePath, "resolve"), api.resolve)
	r.Get(joinPath(api.basePath, "css-override"), api.cssOverride)
	if api.inspector != nil {
		r.Get(joinPath(api.basePath, "themes/{theme}"), api.getTheme)
	}
}

type resolveResponse struct {
	Theme    string `json:"theme"`
	Category string `json:"category"`
	View     string `json:"view,omitempty"`
	Path     string `json:"path"`
	Themed   bool   `json:"themed"`
}

// resolve handles GET {base}/resolve?theme=&category=&view=&alternate=.
func (api *ResolveAPI) resolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	category, err := themes.ParseCategory(query.Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	req := themes.Request{
		Theme:                 query.Get("theme"),
		Category:              category,
		ViewName:              query.Get("view"),
		AlternateStandardPath: query.Get("alternate"),
	}
	res, err := api.resolver.ResolveDetailed(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Theme:    strings.TrimSpace(req.Theme),
		Category: category.String(),
		View:     req.ViewName,
		Path:     res.Path,
		Themed:   res.Themed(),
	})
}

// cssOverride handles GET {base}/css-override?file=.
func (api *ResolveAPI) cssOverride(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"path": themes.CSSOverridePath(r.URL.Query().Get("file")),
	})
}

// getTheme handles GET {base}/themes/{theme}.
func (api *ResolveAPI) getTheme(w http.ResponseWriter, r *http.Request) {
	summary, ok, err := api.inspector.Lookup(r.Context(), chi.URLParam(r, "theme"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "theme not installed"})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
