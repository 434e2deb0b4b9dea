package convert

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"epubgen/book"
	"epubgen/config"
	"epubgen/convert/epub"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context  string
	Title    string
	Author   string
	Language string
	BookID   string
	Chapters int
	Parts    int
	Date     string
}

func newValues(meta *epub.Metadata, chapters book.Chapters, now time.Time) Values {
	parts, regular := chapters.Count()
	return Values{
		Title:    meta.Title,
		Author:   meta.Author,
		Language: meta.Language,
		BookID:   meta.ID.String(),
		Chapters: regular,
		Parts:    parts,
		Date:     now.Format("2006-01-02"),
	}
}

func expandTemplate(values Values, name config.TemplateFieldName, field string) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
