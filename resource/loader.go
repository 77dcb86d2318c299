package resource

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

const (
	// FileURLPrefix marks a fully qualified filesystem location
	FileURLPrefix = "file://"
)

// Resource is a handle to a loadable piece of content, such as a static
// file under the web root or a properties document
type Resource interface {
	// Name returns the location the resource was resolved from
	Name() string

	// Exists reports whether the resource can currently be opened
	Exists() bool

	// Open returns the resource content for reading
	Open() (io.ReadCloser, error)
}

// Loader resolves string locations to resources. The two implementations
// differ only in how they interpret the location string, so the loader in
// use must match the convention the location was written for.
type Loader interface {
	Get(location string) (Resource, error)
}

// FileSystemLoader resolves locations against the local filesystem.
// A plain location ("testdata/webroot/index.html") is interpreted relative
// to the process working directory, even when it starts with a slash.
// A location with the file:// prefix ("file:///home/user/webroot") is
// treated as a fully qualified path.
type FileSystemLoader struct{}

// NewFileSystemLoader creates a filesystem-backed loader
func NewFileSystemLoader() *FileSystemLoader {
	return &FileSystemLoader{}
}

// Get resolves the location to a file-backed resource
func (l *FileSystemLoader) Get(location string) (Resource, error) {
	if location == "" {
		return nil, fmt.Errorf("resource location must not be empty")
	}

	if strings.HasPrefix(location, FileURLPrefix) {
		return &fileResource{path: strings.TrimPrefix(location, FileURLPrefix)}, nil
	}

	// Leading slashes are stripped so locations stay working-directory
	// relative regardless of how callers join path segments.
	return &fileResource{path: strings.TrimLeft(location, "/")}, nil
}

// fileResource is a Resource backed by an os file path
type fileResource struct {
	path string
}

func (r *fileResource) Name() string {
	return r.path
}

func (r *fileResource) Exists() bool {
	info, err := os.Stat(r.path)
	return err == nil && !info.IsDir()
}

func (r *fileResource) Open() (io.ReadCloser, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource %s: %w", r.path, err)
	}
	return f, nil
}

// ModuleLoader resolves locations inside an fs.FS rooted at the module
// (or any other) directory. This is the variant for locations written
// relative to the code base rather than the process working directory.
type ModuleLoader struct {
	fsys fs.FS
}

// NewModuleLoader creates a loader rooted at the process working directory
func NewModuleLoader() *ModuleLoader {
	return &ModuleLoader{fsys: os.DirFS(".")}
}

// NewModuleLoaderFS creates a loader rooted at the given filesystem
func NewModuleLoaderFS(fsys fs.FS) *ModuleLoader {
	return &ModuleLoader{fsys: fsys}
}

// Get resolves the slash-separated location inside the loader's root
func (l *ModuleLoader) Get(location string) (Resource, error) {
	if location == "" {
		return nil, fmt.Errorf("resource location must not be empty")
	}

	cleaned := path.Clean(strings.TrimLeft(location, "/"))
	if !fs.ValidPath(cleaned) {
		return nil, fmt.Errorf("invalid module-relative resource location: %s", location)
	}

	return &fsResource{fsys: l.fsys, path: cleaned}, nil
}

// fsResource is a Resource backed by an fs.FS entry
type fsResource struct {
	fsys fs.FS
	path string
}

func (r *fsResource) Name() string {
	return r.path
}

func (r *fsResource) Exists() bool {
	info, err := fs.Stat(r.fsys, r.path)
	return err == nil && !info.IsDir()
}

func (r *fsResource) Open() (io.ReadCloser, error) {
	f, err := r.fsys.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource %s: %w", r.path, err)
	}
	return f, nil
}
