package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/twiced-technology-gmbh/taskwatch/internal/clierr"
)

// Messages returned for rejected directories.
const (
	msgDirectoryRequired = "directory field is required."
	msgInvalidDirectory  = "Path does not exist or is not a readable directory."
)

// ValidateDirectory checks a user-supplied directory path and returns its
// absolute form. Paths containing ".." anywhere are rejected before they are
// resolved, as are paths that are not existing, readable directories.
func ValidateDirectory(raw string) (string, error) {
	if raw == "" {
		return "", clierr.New(clierr.InvalidPath, msgDirectoryRequired)
	}
	if strings.Contains(raw, "..") {
		return "", clierr.New(clierr.InvalidPath, msgInvalidDirectory)
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", clierr.New(clierr.InvalidPath, msgInvalidDirectory)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", clierr.New(clierr.InvalidPath, msgInvalidDirectory)
	}

	f, err := os.Open(abs) //nolint:gosec // readability probe on a validated path
	if err != nil {
		return "", clierr.New(clierr.InvalidPath, msgInvalidDirectory)
	}
	_ = f.Close()
	return abs, nil
}
