package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

const (
	MimetypeName    = "mimetype"
	MimetypeContent = "application/epub+zip"
)

// PackOptions control what is left out of the container.
type PackOptions struct {
	// SkipDirs are directory names never descended into. Hidden directories
	// are always skipped.
	SkipDirs []string
	// SkipFiles are doublestar patterns matched against slash separated path
	// relative to the root.
	SkipFiles []string
}

// Stats describe produced archive.
type Stats struct {
	Entries int
	Bytes   int64
	Size    int64
}

type packer struct {
	ctx  context.Context
	root string
	dest string
	opts PackOptions
	zw   *zip.Writer
	log  *zap.Logger

	stats Stats
}

// Pack zips working tree at root into EPUB container dest. Existing dest is
// removed first. The first entry is always stored "mimetype", the rest of the
// tree follows directory by directory: files of a directory in name order,
// then its subdirectories in name order. On failure partially written dest
// is removed.
func Pack(ctx context.Context, root, dest string, opts PackOptions, log *zap.Logger) (stats Stats, err error) {
	for _, pattern := range opts.SkipFiles {
		if !doublestar.ValidatePattern(pattern) {
			return stats, fmt.Errorf("bad skip pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return stats, err
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return stats, err
	}

	if err := os.Remove(absDest); err != nil && !os.IsNotExist(err) {
		return stats, fmt.Errorf("unable to remove existing archive: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absDest), 0755); err != nil {
		return stats, fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(absDest)
	if err != nil {
		return stats, fmt.Errorf("unable to create archive: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(absDest)
		}
	}()

	p := &packer{
		ctx:  ctx,
		root: absRoot,
		dest: absDest,
		opts: opts,
		zw:   zip.NewWriter(f),
		log:  log,
	}

	if err = p.writeMimetype(); err != nil {
		return stats, fmt.Errorf("unable to write mimetype: %w", err)
	}
	if err = p.walk(absRoot); err != nil {
		return stats, err
	}
	if err = p.zw.Close(); err != nil {
		return stats, fmt.Errorf("unable to finalize archive: %w", err)
	}
	if err = f.Close(); err != nil {
		return stats, fmt.Errorf("unable to close archive: %w", err)
	}

	info, err := os.Stat(absDest)
	if err != nil {
		return stats, err
	}
	p.stats.Size = info.Size()
	return p.stats, nil
}

// writeMimetype writes stored entry with sizes and checksum known upfront,
// so no data descriptor follows it.
func (p *packer) writeMimetype() error {
	data := []byte(MimetypeContent)
	w, err := p.zw.CreateRaw(&zip.FileHeader{
		Name:               MimetypeName,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(data),
		CompressedSize64:   uint64(len(data)),
		UncompressedSize64: uint64(len(data)),
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	p.stats.Entries++
	p.stats.Bytes += int64(len(data))
	return nil
}

func (p *packer) walk(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("unable to read directory: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if err := p.ctx.Err(); err != nil {
			return err
		}

		full := filepath.Join(dir, e.Name())
		info, err := os.Stat(full)
		if err != nil {
			return fmt.Errorf("unable to access %s: %w", full, err)
		}
		switch {
		case info.IsDir():
			if p.skipDir(e.Name()) {
				p.log.Debug("Skipping directory", zap.String("dir", full))
				continue
			}
			if e.Type()&os.ModeSymlink != 0 {
				p.log.Debug("Not following directory link", zap.String("dir", full))
				continue
			}
			dirs = append(dirs, full)
		case info.Mode().IsRegular():
			name, err := p.entryName(full)
			if err != nil {
				return err
			}
			if full == p.dest || p.skipFile(name) {
				p.log.Debug("Skipping file", zap.String("file", name))
				continue
			}
			if err := p.addFile(full, name, info); err != nil {
				return fmt.Errorf("unable to add %s: %w", name, err)
			}
		default:
			p.log.Debug("Skipping special file", zap.String("file", full), zap.Stringer("mode", info.Mode()))
		}
	}

	for _, d := range dirs {
		if err := p.walk(d); err != nil {
			return err
		}
	}
	return nil
}

func (p *packer) entryName(full string) (string, error) {
	rel, err := filepath.Rel(p.root, full)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func (p *packer) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, d := range p.opts.SkipDirs {
		if name == d {
			return true
		}
	}
	return false
}

func (p *packer) skipFile(name string) bool {
	if name == MimetypeName {
		return true
	}
	for _, pattern := range p.opts.SkipFiles {
		// patterns were validated already
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (p *packer) addFile(full, name string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = path.Clean(name)
	hdr.Method = zip.Deflate

	w, err := p.zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	f, err := os.Open(full)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return err
	}
	p.stats.Entries++
	p.stats.Bytes += n
	return nil
}
