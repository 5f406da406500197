package packaging

import (
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// BrandAssets names the uploaded logo and favicon of a project, relative to
// the uploads root. Empty fields mean no upload.
type BrandAssets struct {
	Logo    string
	Favicon string
}

// LocateAssets scans <projectID>/ in fsys for the first file whose name
// starts with "logo" or "favicon". A missing directory is not an error.
func LocateAssets(fsys fs.FS, projectID string) (BrandAssets, error) {
	dir := strings.TrimSpace(projectID)
	if fsys == nil || dir == "" {
		return BrandAssets{}, nil
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return BrandAssets{}, nil
		}
		return BrandAssets{}, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	var assets BrandAssets
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case assets.Logo == "" && strings.HasPrefix(lower, "logo"):
			assets.Logo = path.Join(dir, name)
		case assets.Favicon == "" && strings.HasPrefix(lower, "favicon"):
			assets.Favicon = path.Join(dir, name)
		}
	}
	return assets, nil
}
