package epub

import (
	"epubgen/book"
	"epubgen/config"
)

// Part is a part chapter with regular chapters following it.
type Part struct {
	book.Chapter
	Children []book.Chapter
}

// Outline is a two level book structure: front matter (chapters before the
// first part) and parts in reading order.
type Outline struct {
	Front []book.Chapter
	Parts []*Part

	// first part for every id
	index map[string]*Part
}

// Section is a major section with parts resolved.
type Section struct {
	Title string
	Parts []*Part
}

// NewOutline folds chapter list into outline. Parts sharing the same id are
// all kept, lookups by id return the first one.
func NewOutline(chapters book.Chapters) *Outline {
	o := &Outline{index: make(map[string]*Part)}

	var current *Part
	for _, c := range chapters {
		if c.IsPart() {
			current = &Part{Chapter: c}
			o.Parts = append(o.Parts, current)
			if _, exists := o.index[c.ID]; !exists {
				o.index[c.ID] = current
			}
			continue
		}
		if current == nil {
			o.Front = append(o.Front, c)
			continue
		}
		current.Children = append(current.Children, c)
	}
	return o
}

// Part returns the first part with requested id.
func (o *Outline) Part(id string) (*Part, bool) {
	p, ok := o.index[id]
	return p, ok
}

// Group distributes parts among configured major sections. Unknown ids are
// skipped. Every part is returned exactly once: parts not claimed by any
// section (including repeated ids) are returned as ungrouped in reading
// order.
func (o *Outline) Group(sections []config.MajorSection) (grouped []Section, ungrouped []*Part) {
	used := make(map[*Part]bool, len(o.Parts))

	grouped = make([]Section, 0, len(sections))
	for _, ms := range sections {
		s := Section{Title: ms.Title}
		for _, id := range ms.Parts {
			p, ok := o.index[id]
			if !ok || used[p] {
				continue
			}
			used[p] = true
			s.Parts = append(s.Parts, p)
		}
		grouped = append(grouped, s)
	}

	for _, p := range o.Parts {
		if !used[p] {
			ungrouped = append(ungrouped, p)
		}
	}
	return grouped, ungrouped
}
