package academy

import (
	"github.com/gouthamgo/apex-academy-sub002/internal/pipeline"
)

// Difficulty levels declared in frontmatter.
const (
	DifficultyBeginner     = pipeline.DifficultyBeginner
	DifficultyIntermediate = pipeline.DifficultyIntermediate
	DifficultyAdvanced     = pipeline.DifficultyAdvanced
)

// Frontmatter is the declared metadata of a tutorial document.
type Frontmatter struct {
	Title         string
	Description   string
	Overview      string
	Order         int
	Difficulty    string
	Concepts      []string
	Prerequisites []string
	RelatedTopics []string
	Tags          []string
	LastUpdated   string
	ExamWeight    string
	Featured      bool
	Draft         bool
}

// Document is a single tutorial source file. The body is immutable once
// loaded; all rendered views are derived from it on demand.
type Document struct {
	Slug        string // derived from filename, unique within its category
	Category    string // directory name under the content root
	Path        string // source file path, for diagnostics
	Frontmatter Frontmatter
	Body        string // raw markdown
}

// Key returns the category-qualified identity of the document.
func (d *Document) Key() string {
	return d.Category + "/" + d.Slug
}

// TOCEntry is one heading of a document's outline. IDs are unique within the
// document and match the anchor ids in the rendered HTML exactly.
type TOCEntry struct {
	ID    string
	Title string
	Level int // 1..6, not necessarily contiguous
}

// ReadingTime is the derived reading estimate for a document.
type ReadingTime struct {
	Words   int
	Minutes int
	Text    string // e.g. "5 min read"
}

// Rendered holds every derived view of a document body.
type Rendered struct {
	HTML        string
	TOC         []TOCEntry
	OutlineHTML string // nested <ul> outline for the sidebar
	ReadingTime ReadingTime
}

// Category describes one curriculum section.
type Category struct {
	ID          string
	Name        string
	Description string
	Order       int
}

// Page pairs a document with its rendered views; the unit the build step
// hands to the page-rendering layer.
type Page struct {
	Document *Document
	Rendered *Rendered
}

// toFrontmatter converts the internal metadata schema to the public type.
func toFrontmatter(m pipeline.Meta) Frontmatter {
	return Frontmatter{
		Title:         m.Title,
		Description:   m.Description,
		Overview:      m.Overview,
		Order:         m.Order,
		Difficulty:    m.Difficulty,
		Concepts:      m.Concepts,
		Prerequisites: m.Prerequisites,
		RelatedTopics: m.RelatedTopics,
		Tags:          m.Tags,
		LastUpdated:   m.LastUpdated,
		ExamWeight:    m.ExamWeight,
		Featured:      m.Featured,
		Draft:         m.Draft,
	}
}

// toTOC converts internal headings to public TOC entries.
func toTOC(headings []pipeline.Heading) []TOCEntry {
	if len(headings) == 0 {
		return nil
	}
	entries := make([]TOCEntry, len(headings))
	for i, h := range headings {
		entries[i] = TOCEntry{ID: h.ID, Title: h.Title, Level: h.Level}
	}
	return entries
}

// toReadingTime converts the internal estimate to the public type.
func toReadingTime(rt pipeline.ReadingTime) ReadingTime {
	return ReadingTime{Words: rt.Words, Minutes: rt.Minutes, Text: rt.Text}
}
