package pipeline

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Callout types parsed from marked blockquotes.
const (
	CalloutTip          = "tip"
	CalloutWarning      = "warning"
	CalloutError        = "error"
	CalloutInfo         = "info"
	CalloutExamTrap     = "exam-trap"
	CalloutBestPractice = "best-practice"
)

// calloutPattern matches the leading marker of a callout blockquote: an
// emoji, a known label, and a colon. Example: "💡 TIP: Use bind variables".
// The icon must open with a rune above ASCII so punctuation runs like "--"
// never promote a plain quote to a callout.
var calloutPattern = regexp.MustCompile(`^([^\x00-\x7F][^\sA-Za-z0-9]*)\s*(TIP|WARNING|ERROR|INFO|EXAM-TRAP|BEST-PRACTICE)\s*:\s*`)

// calloutLabels maps callout types to their display labels.
var calloutLabels = map[string]string{
	CalloutTip:          "Tip",
	CalloutWarning:      "Warning",
	CalloutError:        "Error",
	CalloutInfo:         "Info",
	CalloutExamTrap:     "Exam Trap",
	CalloutBestPractice: "Best Practice",
}

func calloutLabel(kind string) string {
	if label, ok := calloutLabels[kind]; ok {
		return label
	}
	return kind
}

// Attribute keys set by the transformer and read by the renderer.
var (
	calloutAttrKind = []byte("callout")
	calloutAttrIcon = []byte("calloutIcon")
)

// calloutTransformer tags blockquotes that open with a callout marker and
// trims the marker from the text so only the note body renders. Runs at
// parse time; the blockquote renderer decides the markup.
type calloutTransformer struct{}

// Transform inspects every blockquote's first text content for the marker.
func (t *calloutTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindBlockquote {
			return ast.WalkContinue, nil
		}

		para, ok := n.FirstChild().(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}
		txt, ok := para.FirstChild().(*ast.Text)
		if !ok {
			return ast.WalkContinue, nil
		}

		seg := txt.Segment
		m := calloutPattern.FindSubmatch(seg.Value(source))
		if m == nil {
			return ast.WalkContinue, nil
		}

		n.SetAttribute(calloutAttrKind, bytes.ToLower(m[2]))
		n.SetAttribute(calloutAttrIcon, m[1])
		// Skip the marker; the segment keeps only the note body.
		txt.Segment = seg.WithStart(seg.Start + len(m[0]))

		return ast.WalkContinue, nil
	})
}

// calloutInfo reads the transformer's tags off a blockquote node.
func calloutInfo(n ast.Node) (kind, icon string, ok bool) {
	v, found := n.Attribute(calloutAttrKind)
	if !found {
		return "", "", false
	}
	kindBytes, isBytes := v.([]byte)
	if !isBytes {
		return "", "", false
	}
	if v, found := n.Attribute(calloutAttrIcon); found {
		if iconBytes, isBytes := v.([]byte); isBytes {
			icon = string(iconBytes)
		}
	}
	return string(kindBytes), icon, true
}
