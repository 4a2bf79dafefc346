package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/util"
)

// Annotation types recognized inside fenced code.
const (
	AnnotationInfo         = "info"
	AnnotationTip          = "tip"
	AnnotationWarning      = "warning"
	AnnotationError        = "error"
	AnnotationExamTrap     = "exam-trap"
	AnnotationBestPractice = "best-practice"
)

// Annotation is a note attached to a single line of a code block. Line is
// the zero-based index of the annotated line in the displayed code.
type Annotation struct {
	Line    int
	Type    string
	Content string
	Icon    string
}

// annotationPattern matches the comment convention for line annotations:
//
//	// @tip: use bind variables here
//
// The annotation line is removed from the code and attaches to the line
// that follows it.
var annotationPattern = regexp.MustCompile(`^\s*//\s*@(info|tip|warning|error|exam-trap|best-practice):\s*(.*?)\s*$`)

// annotationIcons maps annotation types to their display icons.
var annotationIcons = map[string]string{
	AnnotationInfo:         "ℹ️",
	AnnotationTip:          "💡",
	AnnotationWarning:      "⚠️",
	AnnotationError:        "❌",
	AnnotationExamTrap:     "🎯",
	AnnotationBestPractice: "✅",
}

// extractAnnotations removes annotation comment lines from code and returns
// the remaining code plus the parsed annotations. An annotation attaches to
// the next kept line; a trailing annotation attaches to the last line.
func extractAnnotations(code string) (string, []Annotation) {
	if !strings.Contains(code, "@") {
		return code, nil
	}

	lines := strings.Split(code, "\n")
	kept := make([]string, 0, len(lines))
	var annotations []Annotation

	for _, line := range lines {
		m := annotationPattern.FindStringSubmatch(line)
		if m == nil {
			kept = append(kept, line)
			continue
		}
		annotations = append(annotations, Annotation{
			Line:    len(kept),
			Type:    m[1],
			Content: m[2],
			Icon:    annotationIcons[m[1]],
		})
	}

	// Clamp annotations that pointed past the final line.
	if last := len(kept) - 1; last >= 0 {
		for i := range annotations {
			if annotations[i].Line > last {
				annotations[i].Line = last
			}
		}
	}

	return strings.Join(kept, "\n"), annotations
}

// copyPayloadEscaper encodes the raw code for embedding in the copy-button
// attribute. Decoding the five entities reproduces the code byte for byte.
var copyPayloadEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
	"\n", "&#10;",
)

// EscapeCopyPayload encodes code for the data-code attribute.
func EscapeCopyPayload(code string) string {
	return copyPayloadEscaper.Replace(code)
}

// writeCodeBlock emits the full code-block widget: header with language
// label and copy button, highlighted code, and any line annotations.
func writeCodeBlock(w util.BufWriter, language, code, highlighted string, annotations []Annotation) {
	if language == "" {
		language = "text"
	}

	_, _ = fmt.Fprintf(w, `<div class="code-block" data-language="%s">`+"\n", escapeAttribute(language))
	_, _ = fmt.Fprintf(w,
		`<div class="code-block-header"><span class="code-block-language">%s</span><button type="button" class="copy-button" data-code="%s" aria-label="Copy code">Copy</button></div>`+"\n",
		escapeText(language), EscapeCopyPayload(code))
	_, _ = fmt.Fprintf(w, `<pre class="chroma"><code class="language-%s">`, escapeAttribute(language))
	_, _ = w.WriteString(highlighted)
	_, _ = w.WriteString("</code></pre>\n")
	writeAnnotations(w, annotations)
	_, _ = w.WriteString("</div>\n")
}

// writeAnnotations emits the annotation list that follows the code.
func writeAnnotations(w util.BufWriter, annotations []Annotation) {
	if len(annotations) == 0 {
		return
	}
	_, _ = w.WriteString(`<div class="code-annotations">` + "\n")
	for _, a := range annotations {
		_, _ = fmt.Fprintf(w,
			`<div class="code-annotation code-annotation-%s" data-line="%d"><span class="annotation-icon">%s</span><span class="annotation-content">%s</span></div>`+"\n",
			escapeAttribute(a.Type), a.Line, escapeText(a.Icon), escapeText(a.Content))
	}
	_, _ = w.WriteString("</div>\n")
}
