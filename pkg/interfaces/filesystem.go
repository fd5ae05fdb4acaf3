package interfaces

import "io/fs"

// PathMapper translates a framework virtual path ("~/Themes/dark/") into a
// location understood by a FileSystem.
type PathMapper interface {
	MapPath(virtualPath string) (string, error)
}

// FileSystem is the read-only capability used to check and load theme files.
// Stat must report missing entries with an error matching fs.ErrNotExist.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
}
