package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// Precompiled patterns for slug generation.
var (
	// Characters outside the slug alphabet are dropped entirely.
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s_-]+`)

	// Whitespace and underscore runs become a single hyphen.
	slugSeparators = regexp.MustCompile(`[\s_]+`)

	// Hyphen runs collapse to one.
	slugHyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Slugify converts heading text to a URL-safe anchor id: lowercase, drop
// characters outside [a-z0-9\s_-], collapse whitespace/underscores to single
// hyphens, trim leading/trailing hyphens. Returns "" when nothing survives.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// slugger generates anchor ids unique within a single document. Repeated
// heading text gets a numeric suffix ("overview", "overview-2", ...), and
// headings with no slug-able characters fall back to "section-<n>" where n
// is the heading's ordinal. One slugger serves exactly one document.
type slugger struct {
	used  map[string]bool
	count int
}

func newSlugger() *slugger {
	return &slugger{used: make(map[string]bool)}
}

// slug returns the deduplicated anchor id for the next heading.
func (s *slugger) slug(text string) string {
	s.count++

	base := Slugify(text)
	if base == "" {
		base = fmt.Sprintf("section-%d", s.count)
	}

	id := base
	for n := 2; s.used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	s.used[id] = true
	return id
}

// headingIDs adapts a slugger to goldmark's parser.IDs so that rendered
// heading ids and extracted outline ids come from the same generator.
type headingIDs struct {
	s *slugger
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{s: newSlugger()}
}

// Generate produces the id for a heading's text value.
func (ids *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(ids.s.slug(string(value)))
}

// Put records explicitly assigned ids. Heading attributes are not enabled in
// this pipeline, so there is nothing to record.
func (ids *headingIDs) Put(value []byte) {}

var _ parser.IDs = (*headingIDs)(nil)
