package epub

import (
	"time"

	"github.com/beevik/etree"

	"epubgen/book"
)

// static manifest ids
const (
	idCoverImage = "cover-image"
	idStyle      = "style"
	idNav        = "nav"
	idCover      = "cover"
	idTitlePage  = "title-page"
)

// BuildPackage renders package document. Chapters go to manifest and spine
// in the order they were given after static items.
func BuildPackage(chapters book.Chapters, meta *Metadata, modified time.Time) *etree.Document {
	doc := newDocument()

	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", "http://www.idpf.org/2007/opf")
	pkg.CreateAttr("unique-identifier", "BookId")
	pkg.CreateAttr("version", "3.0")

	metadata := pkg.CreateElement("metadata")
	metadata.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")

	dcIdentifier := metadata.CreateElement("dc:identifier")
	dcIdentifier.CreateAttr("id", "BookId")
	dcIdentifier.SetText(meta.ID.URN())

	metadata.CreateElement("dc:title").SetText(meta.Title)
	metadata.CreateElement("dc:creator").SetText(meta.Author)
	metadata.CreateElement("dc:language").SetText(meta.Language)

	modifiedMeta := metadata.CreateElement("meta")
	modifiedMeta.CreateAttr("property", "dcterms:modified")
	modifiedMeta.SetText(modified.UTC().Format("2006-01-02T15:04:05Z"))

	manifest := pkg.CreateElement("manifest")
	addItem(manifest, idCoverImage, meta.Assets.CoverImage, meta.Assets.CoverImageType, "cover-image")
	addItem(manifest, idStyle, meta.Assets.Stylesheet, mediaTypeCSS, "")
	addItem(manifest, idNav, NavFile, mediaTypeXHTML, "nav")
	addItem(manifest, idCover, meta.Assets.CoverPage, mediaTypeXHTML, "")
	addItem(manifest, idTitlePage, meta.Assets.TitlePage, mediaTypeXHTML, "")

	spine := pkg.CreateElement("spine")
	for _, id := range []string{idCover, idTitlePage, idNav} {
		spine.CreateElement("itemref").CreateAttr("idref", id)
	}

	for _, c := range chapters {
		addItem(manifest, c.ManifestID(), meta.Href(c.Filename), mediaTypeXHTML, "")
		spine.CreateElement("itemref").CreateAttr("idref", c.ManifestID())
	}
	return doc
}

func addItem(manifest *etree.Element, id, href, mediaType, properties string) {
	item := manifest.CreateElement("item")
	item.CreateAttr("id", id)
	item.CreateAttr("href", href)
	item.CreateAttr("media-type", mediaType)
	if properties != "" {
		item.CreateAttr("properties", properties)
	}
}

// DuplicateManifestIDs returns manifest ids used by more than one chapter or
// clashing with static items, in order of first collision.
func DuplicateManifestIDs(chapters book.Chapters) []string {
	seen := map[string]int{
		idCoverImage: 1,
		idStyle:      1,
		idNav:        1,
		idCover:      1,
		idTitlePage:  1,
	}
	var dups []string
	for _, c := range chapters {
		id := c.ManifestID()
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	return dups
}
