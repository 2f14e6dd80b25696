package request

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Search walks root recursively and returns the paths of .kuiper
// files whose path contains term. An empty term matches every
// request file. Results are sorted for stable output.
func Search(root, term string) ([]string, error) {
	var matches []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Extension {
			return nil
		}
		if term == "" || strings.Contains(path, term) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}
