package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// DefaultPatterns matches the geospatial formats the preview renderer
// understands.
var DefaultPatterns = []string{
	"**/*.geojson",
	"**/*.json",
	"**/*.kml",
	"**/*.csv",
	"**/*.gpx",
	"**/*.igc",
	"**/*.gml",
}

// Discover walks root and returns previewable files matching the given glob
// patterns (DefaultPatterns when none are provided), sorted by path.
func Discover(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	var (
		mu    sync.Mutex
		found []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && p != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				mu.Lock()
				found = append(found, p)
				mu.Unlock()
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace walk failed: %w", err)
	}

	sort.Strings(found)
	return found, nil
}
