package themes

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-cms-theming/pkg/interfaces"
)

// DirMapper maps virtual paths below Root. "~/x" and "/x" both name x
// relative to Root and ".." never climbs above it. The zero value produces
// slash separated names suitable for an fs.FS.
type DirMapper struct {
	Root string
}

var _ interfaces.PathMapper = DirMapper{}

// MapPath returns the location of virtualPath.
func (m DirMapper) MapPath(virtualPath string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(virtualPath), "~")
	rel := strings.TrimPrefix(path.Clean("/"+trimmed), "/")
	if m.Root == "" {
		if rel == "" {
			return ".", nil
		}
		return rel, nil
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel)), nil
}

// OSFileSystem reads from the host file system.
type OSFileSystem struct{}

var _ interfaces.FileSystem = OSFileSystem{}

func (OSFileSystem) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }
func (OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFileSystem) ReadFile(name string) ([]byte, error)       { return os.ReadFile(name) }

// FSFileSystem adapts an fs.FS (embed.FS, os.DirFS, fstest.MapFS). Pair it
// with the zero DirMapper.
type FSFileSystem struct {
	FS fs.FS
}

var _ interfaces.FileSystem = FSFileSystem{}

func (f FSFileSystem) Stat(name string) (fs.FileInfo, error)      { return fs.Stat(f.FS, name) }
func (f FSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) { return fs.ReadDir(f.FS, name) }
func (f FSFileSystem) ReadFile(name string) ([]byte, error)       { return fs.ReadFile(f.FS, name) }
