// Package zip bundles downloaded videos into a single archive.
package zip

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Archive streams entries into a zip file. Entry names are made unique.
type Archive struct {
	zw   *zip.Writer
	seen map[string]int
}

func NewArchive(w io.Writer) *Archive {
	return &Archive{zw: zip.NewWriter(w), seen: make(map[string]int)}
}

// Add writes one entry. Videos are already compressed, so entries are
// stored rather than deflated.
func (a *Archive) Add(name string, modified time.Time, fill func(w io.Writer) error) (string, error) {
	if a == nil || a.zw == nil {
		return "", errors.New("zip: archive closed")
	}
	name = a.unique(path.Base(strings.ReplaceAll(name, "\\", "/")))
	hdr := &zip.FileHeader{Name: name, Method: zip.Store}
	if !modified.IsZero() {
		hdr.Modified = modified
	}
	w, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return "", fmt.Errorf("zip: create %s: %w", name, err)
	}
	if err := fill(w); err != nil {
		return "", err
	}
	return name, nil
}

func (a *Archive) unique(name string) string {
	if name == "" || name == "." || name == "/" {
		name = "video.mp4"
	}
	n := a.seen[name]
	a.seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n+1, ext)
}

// Close finishes the central directory.
func (a *Archive) Close() error {
	if a == nil || a.zw == nil {
		return nil
	}
	err := a.zw.Close()
	a.zw = nil
	return err
}
