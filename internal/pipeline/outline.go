package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"go.abhg.dev/goldmark/toc"
)

// Heading is one entry of a document's flat outline. IDs are unique within
// the document and identical to the anchor ids in the rendered HTML.
type Heading struct {
	ID    string
	Title string
	Level int // 1..6, not necessarily contiguous
}

// collectHeadings walks the parsed document and returns its headings in
// document order. Titles carry the plain text with emphasis stripped.
func collectHeadings(doc ast.Node, source []byte) []Heading {
	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			ID:    headingID(h),
			Title: nodeText(h, source),
			Level: h.Level,
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// nodeText concatenates the plain text content of a node's subtree.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// renderOutline builds the nested <ul> outline for sidebar navigation from
// the already-parsed document. Returns "" for documents with no headings.
func (r *DocumentRenderer) renderOutline(doc ast.Node, source []byte) (string, error) {
	tree, err := toc.Inspect(doc, source,
		toc.MinDepth(1),
		toc.MaxDepth(6),
		toc.Compact(true),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	if tree == nil || len(tree.Items) == 0 {
		return "", nil
	}

	list := toc.RenderList(tree)
	if list == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.outline.Renderer().Render(&buf, source, list); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}
