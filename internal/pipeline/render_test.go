package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// stubHighlighter wraps the source in a marker span so tests can tell
// highlighted output from the escape-only fallback.
type stubHighlighter struct{}

func (stubHighlighter) Highlight(source, language string) (string, bool) {
	if language == "apex" {
		return `<span class="hl">` + escapeText(source) + `</span>`, true
	}
	return escapeText(source), false
}

func newTestRenderer() *DocumentRenderer {
	return NewDocumentRenderer(stubHighlighter{})
}

func TestDocumentRenderer_Headings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:  "heading gets id and anchor link",
			input: "## Getting Started\n",
			wantContains: []string{
				`<h2 id="getting-started">`,
				`<a class="heading-anchor" href="#getting-started" aria-hidden="true">#</a>`,
				"</h2>",
			},
		},
		{
			name:  "duplicate headings get numeric suffixes",
			input: "## Intro\n\ntext\n\n## Intro\n\nmore\n\n## Intro\n",
			wantContains: []string{
				`id="intro"`,
				`id="intro-2"`,
				`id="intro-3"`,
				`href="#intro-2"`,
			},
		},
		{
			name:  "symbol-only heading falls back to ordinal",
			input: "## ???\n",
			wantContains: []string{
				`<h2 id="section-1">`,
				`href="#section-1"`,
			},
		},
		{
			name:  "punctuation stripped from id",
			input: "### What's DML?\n",
			wantContains: []string{
				`<h3 id="whats-dml">`,
			},
		},
		{
			name:  "emphasis renders inside the heading",
			input: "## The **DML** Story\n",
			wantContains: []string{
				"<strong>DML</strong>",
				`id="the-dml-story"`,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := newTestRenderer().Render(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(res.HTML, want) {
					t.Errorf("HTML missing %q\ngot: %s", want, res.HTML)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(res.HTML, not) {
					t.Errorf("HTML should not contain %q\ngot: %s", not, res.HTML)
				}
			}
		})
	}
}

func TestDocumentRenderer_OutlineMatchesAnchors(t *testing.T) {
	t.Parallel()

	input := "# Guide\n\n## Setup\n\n## Setup\n\ntext\n\n### What's Next?\n\n## !!!\n"

	res, err := newTestRenderer().Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []Heading{
		{ID: "guide", Title: "Guide", Level: 1},
		{ID: "setup", Title: "Setup", Level: 2},
		{ID: "setup-2", Title: "Setup", Level: 2},
		{ID: "whats-next", Title: "What's Next?", Level: 3},
		{ID: "section-5", Title: "!!!", Level: 2},
	}

	if len(res.Headings) != len(want) {
		t.Fatalf("got %d headings, want %d: %+v", len(res.Headings), len(want), res.Headings)
	}
	for i, h := range res.Headings {
		if h != want[i] {
			t.Errorf("heading[%d] = %+v, want %+v", i, h, want[i])
		}
	}

	// Every outline id must appear verbatim as a heading id in the HTML.
	seen := make(map[string]bool)
	for _, h := range res.Headings {
		if seen[h.ID] {
			t.Errorf("duplicate outline id %q", h.ID)
		}
		seen[h.ID] = true
		if !strings.Contains(res.HTML, fmt.Sprintf(`id="%s"`, h.ID)) {
			t.Errorf("HTML has no element with id %q", h.ID)
		}
	}
}

func TestDocumentRenderer_OutlineTitleStripsEmphasis(t *testing.T) {
	t.Parallel()

	res, err := newTestRenderer().Render(context.Background(), []byte("## The **DML** `Story`\n"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if len(res.Headings) != 1 {
		t.Fatalf("got %d headings, want 1", len(res.Headings))
	}
	if got, want := res.Headings[0].Title, "The DML Story"; got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
}

func TestDocumentRenderer_OutlineHTML(t *testing.T) {
	t.Parallel()

	input := "# Guide\n\n## Setup\n\n## Usage\n"

	res, err := newTestRenderer().Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{"<ul>", `href="#guide"`, `href="#setup"`, `href="#usage"`} {
		if !strings.Contains(res.OutlineHTML, want) {
			t.Errorf("OutlineHTML missing %q\ngot: %s", want, res.OutlineHTML)
		}
	}

	empty, err := newTestRenderer().Render(context.Background(), []byte("just a paragraph\n"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if empty.OutlineHTML != "" {
		t.Errorf("OutlineHTML = %q for headingless document, want empty", empty.OutlineHTML)
	}
}

func TestDocumentRenderer_Callouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:  "tip callout",
			input: "> 💡 TIP: Always use **bind variables** in dynamic SOQL.\n",
			wantContains: []string{
				`<div class="callout callout-tip">`,
				`<span class="callout-icon">💡</span>`,
				`<span class="callout-label">Tip</span>`,
				`<div class="callout-content">`,
				"<strong>bind variables</strong>",
			},
			wantNot: []string{
				"TIP:",
				"<blockquote>",
			},
		},
		{
			name:  "exam trap callout",
			input: "> 🎯 EXAM-TRAP: Governor limits reset per transaction, not per method.\n",
			wantContains: []string{
				`<div class="callout callout-exam-trap">`,
				`<span class="callout-label">Exam Trap</span>`,
				"Governor limits reset",
			},
		},
		{
			name:  "best practice callout",
			input: "> ✅ BEST-PRACTICE: Bulkify every trigger.\n",
			wantContains: []string{
				`callout-best-practice`,
				`<span class="callout-label">Best Practice</span>`,
			},
		},
		{
			name:  "plain blockquote stays a blockquote",
			input: "> Just a quote, nothing special.\n",
			wantContains: []string{
				"<blockquote>",
				"Just a quote",
				"</blockquote>",
			},
			wantNot: []string{
				"callout",
			},
		},
		{
			name:  "label without emoji is not a callout",
			input: "> TIP: no icon here.\n",
			wantContains: []string{
				"<blockquote>",
				"TIP: no icon here.",
			},
			wantNot: []string{
				"callout",
			},
		},
		{
			name:  "ascii punctuation is not an icon",
			input: "> -- TIP: dashes are not emoji.\n",
			wantContains: []string{
				"<blockquote>",
				"TIP: dashes are not emoji.",
			},
			wantNot: []string{
				"callout",
			},
		},
		{
			name:  "lowercase label is not a callout",
			input: "> 💡 tip: lowercase labels stay quotes.\n",
			wantContains: []string{
				"<blockquote>",
			},
			wantNot: []string{
				"callout",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := newTestRenderer().Render(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(res.HTML, want) {
					t.Errorf("HTML missing %q\ngot: %s", want, res.HTML)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(res.HTML, not) {
					t.Errorf("HTML should not contain %q\ngot: %s", not, res.HTML)
				}
			}
		})
	}
}

func TestDocumentRenderer_CodeBlock(t *testing.T) {
	t.Parallel()

	input := "```apex\n" +
		"List<Account> accounts = new List<Account>();\n" +
		"```\n"

	res, err := newTestRenderer().Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	wantContains := []string{
		`<div class="code-block" data-language="apex">`,
		`<span class="code-block-language">apex</span>`,
		`<button type="button" class="copy-button" data-code="`,
		`aria-label="Copy code"`,
		`<pre class="chroma"><code class="language-apex">`,
		`<span class="hl">`,
	}
	for _, want := range wantContains {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q\ngot: %s", want, res.HTML)
		}
	}

	// The displayed code must be escaped, never raw.
	if strings.Contains(res.HTML, "List<Account>") {
		t.Errorf("HTML contains unescaped generics:\n%s", res.HTML)
	}
	if !strings.Contains(res.HTML, "List&lt;Account&gt;") {
		t.Errorf("HTML missing escaped generics:\n%s", res.HTML)
	}
}

func TestDocumentRenderer_CopyPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	code := "String s = 'a & b';\n" +
		"// comment with \"quotes\"\n" +
		"if (x < 10 && y > 2) { run(); }"

	input := "```apex\n" + code + "\n```\n"

	res, err := newTestRenderer().Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	payload := extractDataCode(t, res.HTML)

	// Ampersand escapes first, so entity text never double-escapes.
	for _, want := range []string{"&amp;", "&quot;quotes&quot;", "&lt;", "&gt;", "&#10;"} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q\ngot: %s", want, payload)
		}
	}
	for _, raw := range []string{"\n", `"`, "<", ">"} {
		if strings.Contains(payload, raw) {
			t.Errorf("payload contains raw %q\ngot: %s", raw, payload)
		}
	}

	// Decoding the five entities must reproduce the source exactly.
	decoded := strings.NewReplacer(
		"&#10;", "\n",
		"&quot;", `"`,
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
	).Replace(payload)
	if decoded != code {
		t.Errorf("decoded payload = %q, want %q", decoded, code)
	}
}

// extractDataCode pulls the data-code attribute value out of rendered HTML.
func extractDataCode(t *testing.T, html string) string {
	t.Helper()

	const marker = `data-code="`
	start := strings.Index(html, marker)
	if start < 0 {
		t.Fatalf("no data-code attribute in:\n%s", html)
	}
	rest := html[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		t.Fatalf("unterminated data-code attribute in:\n%s", html)
	}
	return rest[:end]
}

func TestDocumentRenderer_CodeBlockDefaults(t *testing.T) {
	t.Parallel()

	t.Run("missing language label becomes text", func(t *testing.T) {
		t.Parallel()

		res, err := newTestRenderer().Render(context.Background(), []byte("```\nplain code\n```\n"))
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		for _, want := range []string{
			`data-language="text"`,
			`<code class="language-text">`,
		} {
			if !strings.Contains(res.HTML, want) {
				t.Errorf("HTML missing %q\ngot: %s", want, res.HTML)
			}
		}
	})

	t.Run("unknown language renders escaped", func(t *testing.T) {
		t.Parallel()

		res, err := newTestRenderer().Render(context.Background(), []byte("```brainfuck\na < b\n```\n"))
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(res.HTML, "a &lt; b") {
			t.Errorf("HTML missing escaped code:\ngot: %s", res.HTML)
		}
		if strings.Contains(res.HTML, `<span class="hl">`) {
			t.Errorf("fallback output should not carry highlight spans:\n%s", res.HTML)
		}
	})
}

func TestDocumentRenderer_CodeAnnotations(t *testing.T) {
	t.Parallel()

	input := "```apex\n" +
		"// @tip: collections keep DML statements in bulk\n" +
		"insert accounts;\n" +
		"update contacts;\n" +
		"// @warning: past the last line\n" +
		"```\n"

	res, err := newTestRenderer().Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	wantContains := []string{
		`<div class="code-annotations">`,
		`<div class="code-annotation code-annotation-tip" data-line="0">`,
		`<span class="annotation-icon">💡</span>`,
		"collections keep DML statements in bulk",
		`<div class="code-annotation code-annotation-warning" data-line="1">`,
	}
	for _, want := range wantContains {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q\ngot: %s", want, res.HTML)
		}
	}

	// Annotation lines are removed from both display and copy payload.
	if strings.Contains(res.HTML, "@tip:") || strings.Contains(res.HTML, "@warning:") {
		t.Errorf("annotation comments leaked into output:\n%s", res.HTML)
	}
	payload := extractDataCode(t, res.HTML)
	if got, want := payload, "insert accounts;&#10;update contacts;"; got != want {
		t.Errorf("payload = %q, want %q", got, want)
	}
}

func TestDocumentRenderer_Tables(t *testing.T) {
	t.Parallel()

	input := "| Keyword | Purpose |\n|---|---|\n| insert | create |\n"

	res, err := newTestRenderer().Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		`<div class="table-scroll"><table class="content-table">`,
		"</table></div>",
		"<th>Keyword</th>",
		"<td>insert</td>",
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q\ngot: %s", want, res.HTML)
		}
	}
}

func TestDocumentRenderer_Idempotent(t *testing.T) {
	t.Parallel()

	input := "# Intro\n\n## Intro\n\n> 💡 TIP: repeatable.\n\n```apex\ninsert a;\n```\n\n| A |\n|---|\n| 1 |\n"

	r := newTestRenderer()
	first, err := r.Render(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := r.Render(context.Background(), []byte(input))
		if err != nil {
			t.Fatalf("Render() error on run %d: %v", i, err)
		}
		if got.HTML != first.HTML {
			t.Fatalf("HTML changed between runs:\nfirst: %s\ngot: %s", first.HTML, got.HTML)
		}
		if got.OutlineHTML != first.OutlineHTML {
			t.Fatalf("OutlineHTML changed between runs")
		}
		if len(got.Headings) != len(first.Headings) {
			t.Fatalf("heading count changed between runs")
		}
	}
}

func TestDocumentRenderer_NilHighlighter(t *testing.T) {
	t.Parallel()

	r := NewDocumentRenderer(nil)
	res, err := r.Render(context.Background(), []byte("```apex\na < b\n```\n"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(res.HTML, "a &lt; b") {
		t.Errorf("HTML missing escaped code:\ngot: %s", res.HTML)
	}
}

func TestDocumentRenderer_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRenderer().Render(ctx, []byte("# Heading\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}
