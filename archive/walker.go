// Package archive packs EPUB working tree into OCF container and inspects
// resulting archives.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. If an error is returned, processing stops.
type WalkFunc func(file *zip.File) error

// Walk visits all files in the archive with names starting with prefix, in
// archive order. Directory entries are not visited. Entries with absolute
// paths or ".." components make Walk fail as such container cannot be
// safely extracted.
func Walk(r *zip.Reader, prefix string, walkFn WalkFunc) error {
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// WalkFile opens archive and walks it.
func WalkFile(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	return Walk(&r.Reader, prefix, walkFn)
}

// ReadFile returns content of a single archive entry.
func ReadFile(r *zip.Reader, name string) ([]byte, error) {
	var (
		data  []byte
		found bool
	)
	err := Walk(r, name, func(file *zip.File) error {
		if found || file.Name != name {
			return nil
		}
		found = true
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, rc); err != nil {
			return err
		}
		data = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("zip entry %q: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
