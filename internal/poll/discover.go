package poll

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// taskFileExt is the suffix a directory entry needs to be considered.
const taskFileExt = ".md"

// fileEntry is a discovered task file.
type fileEntry struct {
	name    string
	path    string
	modTime time.Time
}

// discover lists the regular *.md files directly inside dir, sorted by name.
// Entries that cannot be stat'ed are skipped; only a failure to list dir
// itself is returned.
func discover(fsys afero.Fs, dir string) ([]fileEntry, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	files := make([]fileEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Mode().IsRegular() || !strings.HasSuffix(entry.Name(), taskFileExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := fsys.Stat(path)
		if err != nil {
			continue
		}
		files = append(files, fileEntry{
			name:    entry.Name(),
			path:    path,
			modTime: info.ModTime(),
		})
	}
	return files, nil
}
