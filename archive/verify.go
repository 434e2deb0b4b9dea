package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

var (
	ErrNoMimetype   = errors.New("first entry is not mimetype")
	ErrBadMimetype  = errors.New("mimetype entry is compressed or has wrong content")
	ErrMissingEntry = errors.New("required entry is missing")
)

// Verify checks physical layout of OCF container: stored "mimetype" entry
// goes first with exact content, every entry can be safely extracted and all
// required entries are present.
func Verify(r *zip.Reader, required ...string) error {
	if len(r.File) == 0 || r.File[0].Name != MimetypeName {
		return ErrNoMimetype
	}

	first := r.File[0]
	if first.Method != zip.Store {
		return ErrBadMimetype
	}
	rc, err := first.Open()
	if err != nil {
		return fmt.Errorf("unable to open mimetype: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return fmt.Errorf("unable to read mimetype: %w", err)
	}
	if string(data) != MimetypeContent {
		return ErrBadMimetype
	}

	present := make(map[string]bool, len(r.File))
	if err := Walk(r, "", func(file *zip.File) error {
		present[file.Name] = true
		return nil
	}); err != nil {
		return err
	}

	var errs error
	for _, name := range required {
		if !present[name] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingEntry, name))
		}
	}
	return errs
}
