package convert

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"

	"archive/zip"
	"go.uber.org/multierr"
	"golang.org/x/net/html"

	"epubgen/archive"
	"epubgen/book"
	"epubgen/config"
	"epubgen/convert/epub"
)

const containerFile = "META-INF/container.xml"

// verifyContainer re-opens produced book and makes sure container layout is
// sane and every chapter is reachable from navigation document exactly once.
func verifyContainer(name string, layout *config.LayoutConfig, chapters book.Chapters, meta *epub.Metadata) error {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return err
	}
	defer zr.Close()

	content := path.Clean(filepath.ToSlash(layout.ContentDir))
	navName := path.Join(content, epub.NavFile)

	required := make([]string, 0, len(chapters)+3)
	required = append(required, containerFile, path.Join(content, epub.PackageFile), navName)
	for _, c := range chapters {
		required = append(required, path.Join(content, meta.Href(c.Filename)))
	}
	if err := archive.Verify(&zr.Reader, required...); err != nil {
		return err
	}

	data, err := archive.ReadFile(&zr.Reader, navName)
	if err != nil {
		return err
	}
	return verifyNav(data, chapters, meta)
}

// verifyNav parses navigation document as HTML and counts links inside toc
// nav element.
func verifyNav(data []byte, chapters book.Chapters, meta *epub.Metadata) error {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("unable to parse navigation document: %w", err)
	}

	toc := findTOC(doc)
	if toc == nil {
		return fmt.Errorf("navigation document has no toc nav element")
	}

	links := make(map[string]int)
	for n := range toc.Descendants() {
		if n.Type == html.ElementNode && n.Data == "a" {
			links[attr(n, "href")]++
		}
	}

	var errs error
	for _, c := range chapters {
		href := meta.Href(c.Filename)
		switch count := links[href]; count {
		case 1:
		case 0:
			errs = multierr.Append(errs, fmt.Errorf("chapter %s is not referenced from navigation", href))
		default:
			errs = multierr.Append(errs, fmt.Errorf("chapter %s is referenced from navigation %d times", href, count))
		}
	}
	return errs
}

func findTOC(doc *html.Node) *html.Node {
	for n := range doc.Descendants() {
		if n.Type == html.ElementNode && n.Data == "nav" && attr(n, "epub:type") == "toc" {
			return n
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key || (a.Namespace != "" && a.Namespace+":"+a.Key == key) {
			return a.Val
		}
	}
	return ""
}
