package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ErrRender indicates markdown-to-HTML conversion failed.
var ErrRender = errors.New("markdown rendering failed")

// Highlighter is the contract the renderer needs from the syntax
// highlighter: span-wrapped HTML plus whether a grammar was applied.
// Implementations must never fail; unknown languages fall back to
// escape-only output.
type Highlighter interface {
	Highlight(source, language string) (string, bool)
}

// RenderResult is the derived view of a single document body.
type RenderResult struct {
	HTML        string    // rendered body with the site's widgets
	Headings    []Heading // flat outline, document order, ids match the HTML
	OutlineHTML string    // nested <ul> outline for sidebar navigation
}

// DocumentRenderer converts a markdown body into the site's HTML. A single
// renderer is safe for concurrent use; per-document state (anchor id
// deduplication) lives in the parse context.
type DocumentRenderer struct {
	md      goldmark.Markdown
	outline goldmark.Markdown
}

// NewDocumentRenderer creates a renderer wired to the given highlighter.
func NewDocumentRenderer(highlighter Highlighter) *DocumentRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, autolinks, task lists
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // ids supplied by headingIDs per parse
			parser.WithASTTransformers(
				util.Prioritized(&calloutTransformer{}, 500),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			renderer.WithNodeRenderers(
				util.Prioritized(&widgetRenderer{highlighter: highlighter}, 100),
			),
		),
	)
	return &DocumentRenderer{
		md:      md,
		outline: goldmark.New(),
	}
}

// Render converts source and extracts the heading outline in one parse, so
// anchor ids in the HTML and outline ids come from the same generator.
// Supports context cancellation via goroutine + select since Goldmark is not
// context-aware.
func (r *DocumentRenderer) Render(ctx context.Context, source []byte) (*RenderResult, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		res *RenderResult
		err error
	}

	done := make(chan result, 1)

	go func() {
		res, err := r.render(source)
		done <- result{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.res, out.err
	}
}

// render runs the conversion. Panics from the markdown stack are recovered
// into ErrRender so one bad document cannot take down a batch.
func (r *DocumentRenderer) render(source []byte) (res *RenderResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrRender, p)
		}
	}()

	pctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	doc := r.md.Parser().Parse(text.NewReader(source), parser.WithContext(pctx))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	outlineHTML, err := r.renderOutline(doc, source)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		HTML:        styleTables(buf.String()),
		Headings:    collectHeadings(doc, source),
		OutlineHTML: outlineHTML,
	}, nil
}

// widgetRenderer overrides the default rendering of headings, fenced code,
// and blockquotes with the site's widgets.
type widgetRenderer struct {
	highlighter Highlighter
}

// RegisterFuncs registers this renderer for the node kinds it overrides.
func (r *widgetRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
}

// renderHeading emits the heading with its anchor id and a trailing anchor
// link. The id comes from the parse-time headingIDs generator, so it is
// always identical to the outline entry for this heading.
func (r *widgetRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	id := headingID(n)

	if entering {
		_, _ = fmt.Fprintf(w, "<h%d", n.Level)
		if id != "" {
			_, _ = fmt.Fprintf(w, ` id="%s"`, escapeAttribute(id))
		}
		_, _ = w.WriteString(">")
		return ast.WalkContinue, nil
	}

	if id != "" {
		_, _ = fmt.Fprintf(w, `<a class="heading-anchor" href="#%s" aria-hidden="true">#</a>`, escapeAttribute(id))
	}
	_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
	return ast.WalkContinue, nil
}

// headingID returns the anchor id assigned during parsing, or "".
func headingID(n *ast.Heading) string {
	v, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	b, ok := v.([]byte)
	if !ok {
		return ""
	}
	return string(b)
}

// renderCodeBlock routes fenced code through the highlighter and wraps it in
// the copyable container. Line annotations are extracted first so they never
// appear in the displayed code or the copy payload.
func (r *widgetRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ast.FencedCodeBlock)
	language := string(n.Language(source))
	code, annotations := extractAnnotations(fencedText(n, source))

	var highlighted string
	if r.highlighter != nil {
		highlighted, _ = r.highlighter.Highlight(code, language)
	} else {
		highlighted = escapeText(code)
	}

	writeCodeBlock(w, language, code, highlighted, annotations)
	return ast.WalkContinue, nil
}

// renderBlockquote emits either a typed callout box (when the transformer
// tagged the node) or a plain blockquote.
func (r *widgetRenderer) renderBlockquote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	kind, icon, ok := calloutInfo(node)

	if entering {
		if ok {
			_, _ = fmt.Fprintf(w,
				`<div class="callout callout-%s"><div class="callout-header"><span class="callout-icon">%s</span><span class="callout-label">%s</span></div><div class="callout-content">`+"\n",
				escapeAttribute(kind), escapeText(icon), escapeText(calloutLabel(kind)))
			return ast.WalkContinue, nil
		}
		_, _ = w.WriteString("<blockquote>\n")
		return ast.WalkContinue, nil
	}

	if ok {
		_, _ = w.WriteString("</div></div>\n")
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

// fencedText returns the raw text between the fences, without the trailing
// newline of the closing line.
func fencedText(n *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// textEscaper escapes characters unsafe inside HTML text nodes.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// attributeEscaper additionally escapes double quotes for attribute values.
var attributeEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeText(s string) string      { return textEscaper.Replace(s) }
func escapeAttribute(s string) string { return attributeEscaper.Replace(s) }
