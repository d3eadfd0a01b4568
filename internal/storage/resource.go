package storage

import (
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// Resource is a readable handle to a stored file. It holds no open
// descriptor; every Open returns a fresh one the caller must close.
type Resource struct {
	Name string
	Path string
	URL  *url.URL
}

func newResource(name, path string) (*Resource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return &Resource{Name: name, Path: abs, URL: u}, nil
}

func (r *Resource) Open() (*os.File, error) { return os.Open(r.Path) }

func (r *Resource) Stat() (fs.FileInfo, error) { return os.Stat(r.Path) }
