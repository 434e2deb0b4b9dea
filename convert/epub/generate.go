package epub

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"

	"epubgen/book"
	"epubgen/config"
)

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	return doc
}

// Render serializes document with two space indentation.
func Render(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	return doc.WriteToBytes()
}

// WriteDocument renders document into file, replacing it.
func WriteDocument(doc *etree.Document, name string) error {
	data, err := Render(doc)
	if err != nil {
		return fmt.Errorf("unable to render %s: %w", filepath.Base(name), err)
	}
	return os.WriteFile(name, data, 0644)
}

// Documents are paths to the generated files.
type Documents struct {
	Nav     string
	Package string
}

// Generate writes navigation and package documents into contentDir.
func Generate(contentDir string, chapters book.Chapters, sections []config.MajorSection, meta *Metadata, modified time.Time) (Documents, error) {
	docs := Documents{
		Nav:     filepath.Join(contentDir, NavFile),
		Package: filepath.Join(contentDir, PackageFile),
	}
	if err := WriteDocument(BuildNav(chapters, sections, meta), docs.Nav); err != nil {
		return docs, fmt.Errorf("unable to write navigation document: %w", err)
	}
	if err := WriteDocument(BuildPackage(chapters, meta, modified), docs.Package); err != nil {
		return docs, fmt.Errorf("unable to write package document: %w", err)
	}
	return docs, nil
}
