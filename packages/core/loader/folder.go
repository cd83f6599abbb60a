package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles enumerates definition/testcase candidates under root,
// filtered to .yml/.yaml/.json. A missing root yields an empty list.
// Results are sorted for deterministic load order.
func ListFiles(root string, recursive bool) []string {
	var files []string

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if recursive {
				files = append(files, ListFiles(path, true)...)
			}
			continue
		}
		if isTestFileExt(entry.Name()) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files
}

func isTestFileExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yml", ".yaml", ".json":
		return true
	}
	return false
}
