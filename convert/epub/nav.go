package epub

import (
	"github.com/beevik/etree"
	"golang.org/x/net/html"

	"epubgen/book"
	"epubgen/config"
)

// BuildNav renders navigation document: front matter, configured major
// sections with their parts and, at the end, parts not mentioned in any
// section. Every chapter is linked exactly once. Empty lists are not
// rendered.
func BuildNav(chapters book.Chapters, sections []config.MajorSection, meta *Metadata) *etree.Document {
	doc := newDocument()
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateAttr("xmlns:epub", "http://www.idpf.org/2007/ops")
	html.CreateAttr("lang", meta.Language)
	html.CreateAttr("xml:lang", meta.Language)

	head := html.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "utf-8")
	head.CreateElement("title").SetText("Table of Contents")
	link := head.CreateElement("link")
	link.CreateAttr("href", meta.Assets.Stylesheet)
	link.CreateAttr("rel", "stylesheet")
	link.CreateAttr("type", mediaTypeCSS)

	nav := html.CreateElement("body").CreateElement("nav")
	nav.CreateAttr("epub:type", "toc")
	nav.CreateAttr("id", "toc")

	h1 := nav.CreateElement("h1")
	h1.CreateAttr("class", "toc-title")
	h1.SetText("Contents")

	outline := NewOutline(chapters)

	if len(outline.Front) > 0 {
		ol := createList(nav, "toc-front-matter")
		for _, c := range outline.Front {
			li := ol.CreateElement("li")
			li.CreateAttr("class", "toc-front")
			createLink(li, meta, c)
		}
	}

	grouped, ungrouped := outline.Group(sections)
	for _, s := range grouped {
		h2 := nav.CreateElement("h2")
		h2.CreateAttr("class", "toc-section")
		h2.SetText(s.Title)
		writeParts(nav, meta, s.Parts)
	}
	writeParts(nav, meta, ungrouped)

	return doc
}

func writeParts(parent *etree.Element, meta *Metadata, parts []*Part) {
	if len(parts) == 0 {
		return
	}
	ol := createList(parent, "toc-parts")
	for _, p := range parts {
		li := ol.CreateElement("li")
		li.CreateAttr("class", "toc-part")
		createLink(li, meta, p.Chapter)
		if len(p.Children) == 0 {
			continue
		}
		children := createList(li, "toc-chapters")
		for _, c := range p.Children {
			createLink(children.CreateElement("li"), meta, c)
		}
	}
}

func createList(parent *etree.Element, class string) *etree.Element {
	ol := parent.CreateElement("ol")
	ol.CreateAttr("class", class)
	return ol
}

// createLink puts chapter link into parent. Titles may still carry character
// references scanner does not decode (numeric, &lt;, &nbsp; and such), they
// are resolved here so etree escapes actual characters.
func createLink(parent *etree.Element, meta *Metadata, c book.Chapter) {
	a := parent.CreateElement("a")
	a.CreateAttr("href", meta.Href(c.Filename))
	a.SetText(html.UnescapeString(c.Title))
}
