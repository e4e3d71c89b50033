package fsaccess

import (
	"io/fs"
	"path/filepath"
)

// WalkRecursive lists every regular file under root, depth-first. A
// missing root is not an error here: it returns an empty slice so the
// caller can treat it as input-not-present.
func WalkRecursive(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries, keep walking
		}
		if !d.IsDir() {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
