package steg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectImages lists the image files of a directory, sorted by name.
// Non-image files are skipped; an empty result is an error.
func CollectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files found in directory %q", dir)
	}

	sort.Strings(paths)
	return paths, nil
}
