// Package book discovers chapter files of the working tree and extracts the
// few fields needed to build package and navigation documents.
package book

import (
	"fmt"
	"strings"

	"epubgen/utils/debug"
)

// Level is outline level of a chapter file.
type Level int

const (
	LevelPart    Level = 2
	LevelChapter Level = 3
)

func (l Level) String() string {
	switch l {
	case LevelPart:
		return "part"
	case LevelChapter:
		return "chapter"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Chapter describes single chapter file.
type Chapter struct {
	// Filename is base name of the file, for example "ch003-flow-in-love.xhtml".
	Filename string
	// ID is slug part of the file name, used as key for major sections.
	ID    string
	Title string
	Level Level
}

// ManifestID returns package manifest id for the chapter - file name up to
// the first hyphen. File names without hyphen are used as is.
func (c Chapter) ManifestID() string {
	if before, _, found := strings.Cut(c.Filename, "-"); found {
		return before
	}
	return c.Filename
}

// IsPart reports whether chapter opens a new part.
func (c Chapter) IsPart() bool {
	return c.Level == LevelPart
}

// Chapters is ordered result of a scan.
type Chapters []Chapter

// Count returns number of parts and regular chapters.
func (cs Chapters) Count() (parts, chapters int) {
	for _, c := range cs {
		if c.IsPart() {
			parts++
		} else {
			chapters++
		}
	}
	return parts, chapters
}

// String renders chapters as a tree for debugging.
func (cs Chapters) String() string {
	tw := debug.NewTreeWriter()
	parts, chapters := cs.Count()
	tw.Line(0, "Chapters: %d (parts: %d, chapters: %d)", len(cs), parts, chapters)
	depth := 1
	for i, c := range cs {
		if c.IsPart() {
			depth = 1
		}
		tw.Line(depth, "[%d] %s (%s)", i, c.Filename, c.Level)
		tw.Field(depth+1, "id", c.ID)
		tw.Field(depth+1, "title", c.Title)
		if c.IsPart() {
			depth = 2
		}
	}
	return tw.String()
}
