package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	theming "github.com/goliatone/go-cms-theming"
	"github.com/goliatone/go-cms-theming/internal/views"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

//go:embed site
var embedded embed.FS

type page struct {
	Title string
	Body  string
}

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		configPath = flag.String("config", "", "YAML configuration file")
		root       = flag.String("root", "", "site directory, defaults to the embedded sample site")
		theme      = flag.String("theme", "dark", "site theme")
	)
	flag.Parse()

	cfg, err := theming.LoadConfig(theming.LoadOptions{File: *configPath, DotEnv: ".env"})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.Features.Logger = true
	cfg.Features.Metrics = true
	cfg.Features.AssetHandler = true
	cfg.Features.ResolveAPI = true
	if cfg.Themes.DefaultTheme == "" {
		cfg.Themes.DefaultTheme = *theme
	}

	site, err := siteFS(*root)
	if err != nil {
		log.Fatalf("site: %v", err)
	}

	module, err := theming.New(cfg, theming.WithSiteFS(site))
	if err != nil {
		log.Fatalf("theming: %v", err)
	}
	logger := module.Logger("theming.example")

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	module.RegisterRoutes(r)
	r.Get("/", homeHandler(module, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{Addr: *addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("example.listening", "addr", *addr, "theme", cfg.Themes.DefaultTheme)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exit := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("example.listen_failed", "addr", *addr, "error", err)
			exit = 1
		}
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(shutdown); err != nil {
			logger.Error("example.shutdown_failed", "error", err)
			exit = 1
		}
		cancel()
		logger.Info("example.stopped")
	}

	if err := module.Close(); err != nil {
		log.Printf("flush logs: %v", err)
	}
	os.Exit(exit)
}

func siteFS(root string) (fs.FS, error) {
	if root != "" {
		return os.DirFS(root), nil
	}
	return fs.Sub(embedded, "site")
}

func homeHandler(module *theming.Module, logger interfaces.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		deps := module.NewDependencyManager()
		view := module.NewContext(ctx, req.URL.Query().Get("theme"), deps, map[string]any{"title": "Home"})
		fail := func(stage string, err error) {
			logger.WithContext(ctx).Error("example.home_failed", "stage", stage, "theme", view.Theme, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		path, err := module.Resolver().ViewPath(ctx, view.Theme, "Home")
		if err != nil {
			fail("resolve", err)
			return
		}
		model := page{Title: "go-cms-theming", Body: "Themed views with standard fallbacks."}
		html, err := module.Renderer().RenderPartial(ctx, path, views.PartialData{Ctx: view, Model: model, ViewData: view.ViewData})
		if err != nil {
			fail("render", err)
			return
		}

		styles, err := deps.Styles()
		if err != nil {
			fail("styles", err)
			return
		}
		scripts, err := deps.Scripts()
		if err != nil {
			fail("scripts", err)
			return
		}

		out := strings.Replace(string(html), "</head>", string(styles)+"</head>", 1)
		out = strings.Replace(out, "</body>", string(scripts)+"</body>", 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	}
}
