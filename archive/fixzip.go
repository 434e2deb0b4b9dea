package archive

import (
	"fmt"
	"os"
	"path/filepath"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/multierr"
)

// FixDataDescriptors rewrites archive in place clearing data descriptor flag
// on every entry. Some readers refuse containers with data descriptors.
func FixDataDescriptors(name string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = copyZipWithoutDataDescriptors(name, tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temporary file: %w", err)
	}
	if err = os.Rename(tmp.Name(), name); err != nil {
		return fmt.Errorf("unable to replace archive: %w", err)
	}
	return nil
}

func copyZipWithoutDataDescriptors(from string, out *os.File) (err error) {
	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", out.Name(), err)
		}
	}
	return nil
}
