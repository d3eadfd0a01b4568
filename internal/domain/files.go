package domain

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"

	"github.com/janiskelemen/file-depot/internal/storage"
)

// ListFiles describes every stored file. Files removed between the
// directory read and the stat are left out.
func ListFiles(ctx context.Context, st storage.Service, urlPrefix string) ([]FileInfo, error) {
	names, err := st.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []FileInfo{}
	for name := range names {
		res, err := st.LoadAsResource(ctx, name)
		if errors.Is(err, storage.ErrFileNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		fi, err := res.Stat()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Name:     name,
			Size:     fi.Size(),
			Modified: fi.ModTime().UTC(),
			URL:      strings.TrimSuffix(urlPrefix, "/") + "/" + url.PathEscape(name),
		})
	}
	slices.SortFunc(out, func(a, b FileInfo) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
