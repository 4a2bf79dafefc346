package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// ReadingTime is the derived reading estimate for a document body.
type ReadingTime struct {
	Words   int    // approximate word count, code fences excluded
	Minutes int    // rounded up, never below 1
	Text    string // human label, e.g. "5 min read"
}

// Patterns for stripping non-prose markdown before counting words.
var (
	fencedCodeBlocks = regexp.MustCompile("(?s)```.*?```")
	inlineCode       = regexp.MustCompile("`[^`\n]*`")
	markdownImages   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	markdownLinks    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	htmlTags         = regexp.MustCompile(`<[^>\n]+>`)
	headingMarkers   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	quoteMarkers     = regexp.MustCompile(`(?m)^>\s?`)
	emphasisMarkers  = strings.NewReplacer("**", "", "__", "", "*", "", "_", "", "~~", "")
)

// EstimateReadingTime computes the reading estimate for a markdown body at
// the given words-per-minute rate. Code fences and markdown syntax are
// stripped before counting; the estimate rounds up to whole minutes with a
// floor of one. Deterministic for identical input.
func EstimateReadingTime(body string, wordsPerMinute int) ReadingTime {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	words := len(strings.Fields(stripMarkdown(body)))

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}

	return ReadingTime{
		Words:   words,
		Minutes: minutes,
		Text:    fmt.Sprintf("%d min read", minutes),
	}
}

// stripMarkdown reduces a markdown body to approximate prose. Links and
// images keep their label text; everything structural is dropped.
func stripMarkdown(body string) string {
	s := fencedCodeBlocks.ReplaceAllString(body, " ")
	s = inlineCode.ReplaceAllString(s, " ")
	s = markdownImages.ReplaceAllString(s, "$1")
	s = markdownLinks.ReplaceAllString(s, "$1")
	s = htmlTags.ReplaceAllString(s, " ")
	s = headingMarkers.ReplaceAllString(s, "")
	s = quoteMarkers.ReplaceAllString(s, "")
	return emphasisMarkers.Replace(s)
}
