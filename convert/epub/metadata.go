// Package epub renders EPUB 3 package and navigation documents for the
// scanned chapters.
package epub

import (
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"epubgen/config"
)

const (
	NavFile     = "toc.xhtml"
	PackageFile = "content.opf"

	mediaTypeXHTML = "application/xhtml+xml"
	mediaTypeCSS   = "text/css"
	mediaTypeJPEG  = "image/jpeg"
)

// Assets are static files maintained on disk, hrefs are relative to the
// content directory.
type Assets struct {
	CoverImage     string
	CoverImageType string
	Stylesheet     string
	CoverPage      string
	TitlePage      string
}

// Metadata is everything documents need besides chapter list.
type Metadata struct {
	Title    string
	Author   string
	Language string
	ID       uuid.UUID
	// TextDir is chapters directory relative to the content directory.
	TextDir string
	Assets  Assets
}

// NewMetadata prepares document metadata from configuration. contentDir is
// used to inspect static assets.
func NewMetadata(cfg *config.Config, contentDir string, log *zap.Logger) *Metadata {
	id, configured := cfg.Book.Identifier()
	if !configured {
		log.Warn("Book UUID is absent or malformed, using identifier derived from title",
			zap.String("configured", cfg.Book.UUID), zap.Stringer("uuid", id))
	}

	cover := path.Clean(filepath.ToSlash(cfg.Assets.CoverImage))
	return &Metadata{
		Title:    cfg.Book.Title,
		Author:   cfg.Book.Author,
		Language: cfg.Book.Language,
		ID:       id,
		TextDir:  path.Clean(filepath.ToSlash(cfg.Layout.TextDir)),
		Assets: Assets{
			CoverImage:     cover,
			CoverImageType: DetectMediaType(filepath.Join(contentDir, filepath.FromSlash(cover))),
			Stylesheet:     path.Clean(filepath.ToSlash(cfg.Assets.Stylesheet)),
			CoverPage:      path.Clean(filepath.ToSlash(cfg.Assets.CoverPage)),
			TitlePage:      path.Clean(filepath.ToSlash(cfg.Assets.TitlePage)),
		},
	}
}

// DetectMediaType sniffs image type from file content. When file cannot be
// read or recognized type is guessed from extension with JPEG as last resort.
func DetectMediaType(name string) string {
	if kind, err := filetype.MatchFile(name); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return mediaTypeJPEG
}

// Href returns chapter href relative to the content directory.
func (m *Metadata) Href(filename string) string {
	return path.Join(m.TextDir, filename)
}
