// Package highlight tokenizes source snippets into span-wrapped HTML for a
// fixed set of languages. Grammars are ordered regex rule tables (chroma
// lexers) supplied explicitly at construction; there is no global registry.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// builtinLanguages are the non-bespoke languages in the supported set,
// resolved through chroma's stock lexers.
var builtinLanguages = []string{
	"java",
	"javascript",
	"json",
	"bash",
	"html",
	"xml",
	"css",
	"yaml",
}

// DefaultGrammars returns the full language set: the two bespoke grammars
// plus the stock lexers for the rest. The returned map is safe to extend or
// prune before constructing a Highlighter.
func DefaultGrammars() map[string]chroma.Lexer {
	grammars := map[string]chroma.Lexer{
		"apex": Apex,
		"soql": Soql,
	}
	for _, name := range builtinLanguages {
		if lexer := lexers.Get(name); lexer != nil {
			grammars[name] = lexer
		}
	}
	return grammars
}

// Highlighter emits HTML with CSS-class-wrapped token spans.
// The zero value is not usable; construct with New.
type Highlighter struct {
	grammars  map[string]chroma.Lexer
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// New creates a Highlighter over an explicit language-tag-to-grammar mapping.
// Tags are matched case-insensitively.
func New(grammars map[string]chroma.Lexer) *Highlighter {
	normalized := make(map[string]chroma.Lexer, len(grammars))
	for tag, lexer := range grammars {
		if lexer == nil {
			continue
		}
		normalized[strings.ToLower(tag)] = lexer
	}
	return &Highlighter{
		grammars: normalized,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true), // CSS classes instead of inline styles
			chromahtml.PreventSurroundingPre(true),
		),
		style: styles.Fallback,
	}
}

// Supports reports whether a grammar is registered for the language tag.
func (h *Highlighter) Supports(language string) bool {
	_, ok := h.grammars[strings.ToLower(language)]
	return ok
}

// Highlight tokenizes source and returns HTML with one span per token.
// The boolean reports whether a grammar was applied. For unknown tags, or if
// tokenization fails, the source is returned HTML-escaped with no spans;
// Highlight never fails.
func (h *Highlighter) Highlight(source, language string) (string, bool) {
	lexer, ok := h.grammars[strings.ToLower(language)]
	if !ok {
		return EscapeText(source), false
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return EscapeText(source), false
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return EscapeText(source), false
	}
	return buf.String(), true
}

// textEscaper escapes the characters that are unsafe inside HTML text nodes.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeText HTML-escapes source for literal pass-through output.
func EscapeText(source string) string {
	return textEscaper.Replace(source)
}
