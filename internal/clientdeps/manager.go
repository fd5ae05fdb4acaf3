// Package clientdeps collects the stylesheets and scripts a page asks for
// while it renders, then emits them as <link> and <script> tags.
//
// A Manager is request scoped. Registrations are deduplicated and keep
// their order; folder registrations expand to the matching files of the
// folder when the tags are rendered.
package clientdeps

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/goliatone/go-cms-theming/internal/logging"
	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// Kind separates stylesheets from scripts.
type Kind int

const (
	CSS Kind = iota
	JS
)

func (k Kind) String() string {
	if k == JS {
		return "js"
	}
	return "css"
}

func (k Kind) ext() string {
	return "." + k.String()
}

type entry struct {
	kind   Kind
	path   string
	folder bool
}

// Manager implements interfaces.DependencyRegistrar.
type Manager struct {
	mapper   interfaces.PathMapper
	files    interfaces.FileSystem
	basePath string
	logger   interfaces.Logger

	mu      sync.Mutex
	entries []entry
	seen    map[string]struct{}
}

var _ interfaces.DependencyRegistrar = (*Manager)(nil)

// Option configures a Manager.
type Option func(*Manager)

// WithBasePath sets the URL path "~/" is served under.
func WithBasePath(basePath string) Option {
	return func(m *Manager) {
		m.basePath = basePath
	}
}

// WithLogger sets the manager logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Manager) {
		m.logger = logging.Or(logger)
	}
}

// NewManager returns an empty manager. The mapper and file system are used
// to expand folder registrations.
func NewManager(mapper interfaces.PathMapper, files interfaces.FileSystem, opts ...Option) *Manager {
	if mapper == nil {
		panic("clientdeps: path mapper required")
	}
	if files == nil {
		panic("clientdeps: file system required")
	}
	m := &Manager{
		mapper:   mapper,
		files:    files,
		basePath: "/",
		logger:   logging.NoOp(),
		seen:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) RequireCSS(path string)       { m.add(entry{kind: CSS, path: path}) }
func (m *Manager) RequireJS(path string)        { m.add(entry{kind: JS, path: path}) }
func (m *Manager) RequireCSSFolder(path string) { m.add(entry{kind: CSS, path: path, folder: true}) }
func (m *Manager) RequireJSFolder(path string)  { m.add(entry{kind: JS, path: path, folder: true}) }

func (m *Manager) add(e entry) {
	e.path = strings.TrimSpace(e.path)
	if e.path == "" {
		return
	}
	if e.folder {
		e.path = strings.TrimRight(e.path, "/")
	}
	key := fmt.Sprintf("%s:%t:%s", e.kind, e.folder, e.path)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.seen[key]; dup {
		return
	}
	m.seen[key] = struct{}{}
	m.entries = append(m.entries, e)
}

// URLs returns the absolute URL paths registered for kind, folders expanded.
func (m *Manager) URLs(kind Kind) ([]string, error) {
	m.mu.Lock()
	entries := make([]entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.kind == kind {
			entries = append(entries, e)
		}
	}
	m.mu.Unlock()

	var out []string
	emitted := map[string]struct{}{}
	emit := func(virtual string) {
		url := themes.ToAbsolute(virtual, m.basePath)
		if _, dup := emitted[url]; dup {
			return
		}
		emitted[url] = struct{}{}
		out = append(out, url)
	}

	for _, e := range entries {
		if !e.folder {
			emit(e.path)
			continue
		}
		files, err := m.expand(e)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			emit(file)
		}
	}
	return out, nil
}

func (m *Manager) expand(e entry) ([]string, error) {
	physical, err := m.mapper.MapPath(e.path)
	if err != nil {
		return nil, fmt.Errorf("clientdeps: map %s: %w", e.path, err)
	}
	items, err := m.files.ReadDir(physical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("dependency folder missing", "kind", e.kind.String(), "folder", e.path)
			return nil, nil
		}
		return nil, fmt.Errorf("clientdeps: read %s: %w", e.path, err)
	}

	var out []string
	for _, item := range items {
		if item.IsDir() || !strings.EqualFold(path.Ext(item.Name()), e.kind.ext()) {
			continue
		}
		out = append(out, e.path+"/"+item.Name())
	}
	return out, nil
}

// Styles renders a <link> tag per registered stylesheet.
func (m *Manager) Styles() (template.HTML, error) {
	urls, err := m.URLs(CSS)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, url := range urls {
		b.WriteString(`<link href="`)
		b.WriteString(template.HTMLEscapeString(url))
		b.WriteString(`" type="text/css" rel="stylesheet"/>`)
	}
	return template.HTML(b.String()), nil
}

// Scripts renders a <script> tag per registered script.
func (m *Manager) Scripts() (template.HTML, error) {
	urls, err := m.URLs(JS)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, url := range urls {
		b.WriteString(`<script src="`)
		b.WriteString(template.HTMLEscapeString(url))
		b.WriteString(`" type="text/javascript"></script>`)
	}
	return template.HTML(b.String()), nil
}
