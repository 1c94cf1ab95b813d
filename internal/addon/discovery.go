package addon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ManifestPattern selects manifest files below the addon directory.
const ManifestPattern = "**/*.addon.{toml,yaml,yml}"

// Discover returns the manifests below dir, sorted. A missing dir holds none.
func Discover(dir string) ([]string, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), ManifestPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("addon: discover in %s: %w", dir, err)
	}

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	sort.Strings(paths)
	return paths, nil
}
