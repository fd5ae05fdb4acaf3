package http

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// AssetRoute is the chi pattern themed asset URLs are served from.
const AssetRoute = "/Themes/{theme}/Assets/*"

// AssetHandler serves files from a theme's Assets folder.
type AssetHandler struct {
	locator themes.AssetLocator
	logger  interfaces.Logger
}

// NewAssetHandler returns a handler reading through locator.
func NewAssetHandler(locator themes.AssetLocator, logger interfaces.Logger) *AssetHandler {
	return &AssetHandler{locator: locator, logger: logging.Or(logger)}
}

// Routes returns a router with the asset route mounted.
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register mounts the asset route on r.
func (h *AssetHandler) Register(r chi.Router) {
	r.Get(AssetRoute, h.ServeHTTP)
	r.Head(AssetRoute, h.ServeHTTP)
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	theme := chi.URLParam(req, "theme")
	asset := chi.URLParam(req, "*")

	file, name, err := h.locator.Open(theme, asset)
	if err != nil {
		if notFound(err) {
			http.NotFound(w, req)
			return
		}
		h.logger.WithContext(req.Context()).Error("theme asset failed", "theme", theme, "asset", asset, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	content, ok := file.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		content = bytes.NewReader(data)
	}
	h.logger.WithContext(req.Context()).Debug("theme asset served", "path", name)
	http.ServeContent(w, req, info.Name(), info.ModTime(), content)
}

func notFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, themes.ErrAssetTraversal) ||
		errors.Is(err, themes.ErrAssetPathRequired) ||
		themes.IsConfigurationError(err)
}
