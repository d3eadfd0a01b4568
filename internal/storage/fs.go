package storage

import (
	"context"
	"errors"
	"iter"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/janiskelemen/file-depot/internal/util"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

var (
	errNoLocation   = errors.New("empty storage location")
	errInvalidName  = errors.New("invalid filename")
	errNotRegular   = errors.New("not a regular file")
	errMalformedLoc = errors.New("malformed resource locator")
)

// FileSystem keeps stored files directly beneath root on the local disk.
type FileSystem struct {
	root string
}

var _ Service = (*FileSystem)(nil)

// NewFileSystem returns a FileSystem rooted at location, creating the
// directory if it does not exist yet.
func NewFileSystem(location string) (*FileSystem, error) {
	if location == "" {
		return nil, &StorageError{Kind: KindInit, Err: errNoLocation}
	}
	s := &FileSystem{root: filepath.Clean(location)}
	if err := s.Init(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSystem) Root() string { return s.root }

func (s *FileSystem) Init(_ context.Context) error {
	if err := os.MkdirAll(s.root, dirMode); err != nil {
		return &StorageError{Kind: KindInit, Err: err}
	}
	return nil
}

func (s *FileSystem) Store(_ context.Context, u Upload) error {
	filename := CleanName(u.Filename())
	if u.IsEmpty() {
		return &StorageError{Kind: KindEmpty, Filename: filename}
	}
	if escapesRoot(filename) {
		return &StorageError{Kind: KindPathTraversal, Filename: filename}
	}
	if filename == "" || filename == "." || util.IsTemp(path.Base(filename)) {
		return &StorageError{Kind: KindWrite, Filename: filename, Err: errInvalidName}
	}

	in, err := u.Open()
	if err != nil {
		return &StorageError{Kind: KindWrite, Filename: filename, Err: err}
	}
	defer in.Close()

	if _, err := util.AtomicCopy(s.Load(filename), in, fileMode); err != nil {
		return &StorageError{Kind: KindWrite, Filename: filename, Err: err}
	}
	return nil
}

// LoadAll lists the regular files directly under root. Subdirectories,
// symlinks and in-flight temp files are left out on purpose, so the listing
// only names what LoadAsResource will serve. The directory is read once;
// the returned sequence replays that snapshot on every range.
func (s *FileSystem) LoadAll(_ context.Context) (iter.Seq[string], error) {
	ents, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StorageError{Kind: KindRead, Err: err}
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if !e.Type().IsRegular() || util.IsTemp(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	return slices.Values(names), nil
}

// Load joins filename onto root. It does not validate the name.
func (s *FileSystem) Load(filename string) string {
	return filepath.Join(s.root, filename)
}

func (s *FileSystem) LoadAsResource(_ context.Context, filename string) (*Resource, error) {
	if filename == "" || strings.ContainsRune(filename, 0) {
		return nil, &FileNotFoundError{Filename: filename, Err: errMalformedLoc}
	}
	if escapesRoot(CleanName(filename)) {
		return nil, &FileNotFoundError{Filename: filename, Err: ErrPathTraversal}
	}

	p := s.Load(filename)
	fi, err := os.Lstat(p)
	if err != nil {
		return nil, &FileNotFoundError{Filename: filename, Err: err}
	}
	if !fi.Mode().IsRegular() {
		return nil, &FileNotFoundError{Filename: filename, Err: errNotRegular}
	}
	if err := s.withinRoot(p); err != nil {
		return nil, &FileNotFoundError{Filename: filename, Err: err}
	}

	res, err := newResource(filename, p)
	if err != nil {
		return nil, &FileNotFoundError{Filename: filename, Err: err}
	}
	f, err := res.Open()
	if err != nil {
		return nil, &FileNotFoundError{Filename: filename, Err: err}
	}
	f.Close()
	return res, nil
}

// DeleteAll removes root and everything beneath it. Init must be called
// before the next Store.
func (s *FileSystem) DeleteAll(_ context.Context) error {
	if err := os.RemoveAll(s.root); err != nil {
		return &StorageError{Kind: KindDelete, Err: err}
	}
	return nil
}

// withinRoot resolves symlinks in the parent directories of p and fails
// when the result is not beneath the resolved root.
func (s *FileSystem) withinRoot(p string) error {
	root, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		return err
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == "." || escapesRoot(filepath.ToSlash(rel)) {
		return ErrPathTraversal
	}
	return nil
}

// CleanName is the name Store writes an upload under: separators are
// normalized to '/' and "." and inner ".." segments are resolved. Leading
// ".." segments survive so the traversal check can reject them.
func CleanName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" {
		return ""
	}
	return path.Clean(name)
}

func escapesRoot(name string) bool {
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return true
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
