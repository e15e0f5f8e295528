// Package download stores exported reports on local disk.
package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Downloader receives a finished file. It returns where the file ended up.
type Downloader interface {
	Save(name, mimeType string, data []byte) (string, error)
}

// Dir saves files into a directory.
type Dir struct {
	basePath string
}

// NewDir returns a Dir rooted at basePath. The directory is created on first save.
func NewDir(basePath string) *Dir {
	if basePath == "" {
		basePath = "."
	}
	return &Dir{basePath: basePath}
}

// Save writes data through a temp file and renames it into place. The temp
// file is closed on every path and removed unless the rename succeeded.
func (d *Dir) Save(name, mimeType string, data []byte) (path string, err error) {
	name = sanitize(name)
	if name == "" {
		return "", fmt.Errorf("invalid file name")
	}

	if err := os.MkdirAll(d.basePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	tmp, err := os.CreateTemp(d.basePath, ".download-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", name, err)
	}

	path = filepath.Join(d.basePath, name)
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return path, nil
}

// sanitize keeps a single path element. Colons from date-time values are
// legal on POSIX and kept.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
