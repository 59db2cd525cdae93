// Package storage saves downloaded videos to the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Downloads writes files under a single directory. Partial downloads never
// appear under their final name.
type Downloads struct {
	dir string
}

func NewDownloads(dir string) (*Downloads, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure download dir: %w", err)
	}
	return &Downloads{dir: dir}, nil
}

func (d *Downloads) Dir() string {
	if d == nil {
		return ""
	}
	return d.dir
}

// Save streams into name via fill and returns the final path. fill receives
// a temporary file; on error the temporary file is removed.
func (d *Downloads) Save(ctx context.Context, name string, fill func(w io.Writer) error) (string, error) {
	if d == nil {
		return "", errors.New("storage: no download dir configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(d.dir, "."+clean+".*.part")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := fill(tmp); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("storage: sync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("storage: close: %w", err)
	}
	final := filepath.Join(d.dir, clean)
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("storage: rename: %w", err)
	}
	return final, nil
}

// sanitizeName reduces name to a single path element inside the directory.
func sanitizeName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", errors.New("storage: invalid file name")
	}
	return name, nil
}
