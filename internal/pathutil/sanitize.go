package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SanitizeOutputPath cleans an output path before anything is written
// there. ".." components resolve away via filepath.Clean + filepath.Abs,
// and paths that already exist as symlinks are rejected. Paths that do
// not exist yet are accepted. Returns the cleaned absolute path.
func SanitizeOutputPath(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("pathutil: cannot resolve absolute path: %w", err)
	}

	info, err := os.Lstat(abs)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			return "", fmt.Errorf("pathutil: refusing to write through symlink %s", abs)
		}
	case os.IsNotExist(err):
		// Writing will create it.
	default:
		return "", fmt.Errorf("pathutil: cannot stat path: %w", err)
	}

	return abs, nil
}
