package book

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"epubgen/common"
)

var (
	reTitle   = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	reTag     = regexp.MustCompile(`<[^>]+>`)
	reSection = regexp.MustCompile(`<section[^>]*\bepub:type="([^"]+)"`)

	entities = strings.NewReplacer(
		"&rsquo;", "’",
		"&lsquo;", "‘",
		"&rdquo;", "”",
		"&ldquo;", "“",
		"&amp;", "&",
	)
)

// ScanOptions select chapter files in the directory.
type ScanOptions struct {
	Prefix string
	Ext    string
	Order  common.ChapterOrder
}

// Scan lists chapter files in dir and parses every one of them. Any error
// aborts the scan, no partial result is returned.
func Scan(dir string, opts ScanOptions) (Chapters, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list chapters directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, opts.Prefix) || !strings.HasSuffix(name, opts.Ext) {
			continue
		}
		names = append(names, name)
	}

	switch opts.Order {
	case common.ChapterOrderNatural:
		sort.Sort(natural.StringSlice(names))
	default:
		sort.Strings(names)
	}

	chapters := make(Chapters, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("unable to read chapter: %w", err)
		}
		chapters = append(chapters, Parse(name, opts.Ext, data))
	}
	return chapters, nil
}

// Parse extracts chapter record from file content. It never fails: missing
// title falls back to chapter id, missing section type means regular chapter.
func Parse(filename, ext string, data []byte) Chapter {
	stem := strings.TrimSuffix(filename, ext)
	id := stem
	if _, after, found := strings.Cut(stem, "-"); found {
		id = after
	}

	c := Chapter{
		Filename: filename,
		ID:       id,
		Title:    id,
		Level:    LevelChapter,
	}

	if m := reTitle.FindSubmatch(data); m != nil {
		title := reTag.ReplaceAllString(string(m[1]), "")
		c.Title = strings.TrimSpace(entities.Replace(title))
	}
	if m := reSection.FindSubmatch(data); m != nil && string(m[1]) == "part" {
		c.Level = LevelPart
	}
	return c
}
