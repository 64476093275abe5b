package vfs

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandSourceRoot walks a project source root and returns every `.java`
// file under it, honoring `**` glob excludes (e.g. build output
// directories). Grounded on the teacher's internal/scanner package,
// which used doublestar for the same `**` workspace-walk purpose.
func ExpandSourceRoot(root string, excludeGlobs []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		for _, glob := range excludeGlobs {
			if matched, _ := doublestar.Match(glob, filepath.ToSlash(rel)); matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
