// Package security checks operator-supplied file locations.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// forbidden holds shell metacharacters that never belong in a data path.
const forbidden = ";&|$`(){}<>!\n\r"

// ResolvePath cleans path, makes it absolute and follows symlinks when the
// file already exists. Paths that do not exist yet are returned cleaned.
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	if i := strings.IndexAny(path, forbidden); i >= 0 {
		return "", fmt.Errorf("file path %q contains forbidden character %q", path, path[i])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}
