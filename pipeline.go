package academy

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gouthamgo/apex-academy-sub002/internal/highlight"
	"github.com/gouthamgo/apex-academy-sub002/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ Highlighter          = (*highlight.Highlighter)(nil)
	_ pipeline.Highlighter = (*highlight.Highlighter)(nil)
)

// Highlighter abstracts syntax highlighting for fenced code blocks.
// Implementations must never fail: unknown language tags fall back to
// HTML-escaped output with no token spans.
type Highlighter interface {
	Highlight(source, language string) (string, bool)
}

// RenderErrorPlaceholder replaces the HTML of a document whose rendering
// failed; the rest of the batch renders normally.
const RenderErrorPlaceholder = `<div class="render-error"><p>This content could not be rendered.</p></div>`

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWordsPerMinute sets the reading speed for reading-time estimates.
// Panics if wpm <= 0 (programmer error, similar to time.NewTicker).
func WithWordsPerMinute(wpm int) Option {
	if wpm <= 0 {
		panic("academy: WithWordsPerMinute must be positive")
	}
	return func(p *Pipeline) {
		p.wordsPerMinute = wpm
	}
}

// WithHighlighter replaces the default highlighter (the full default
// language set including the Apex and SOQL grammars).
func WithHighlighter(h Highlighter) Option {
	return func(p *Pipeline) {
		p.highlighter = h
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline turns document sources into parsed documents and rendered views.
// Rendered views are memoized by body content hash; a Pipeline is safe for
// concurrent use.
type Pipeline struct {
	wordsPerMinute int
	highlighter    Highlighter
	logger         *slog.Logger
	renderer       *pipeline.DocumentRenderer

	mu    sync.Mutex
	cache map[[sha256.Size]byte]*Rendered
}

// NewPipeline creates a Pipeline with default configuration.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		wordsPerMinute: pipeline.DefaultWordsPerMinute,
		highlighter:    highlight.New(highlight.DefaultGrammars()),
		logger:         slog.Default(),
		cache:          make(map[[sha256.Size]byte]*Rendered),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.renderer = pipeline.NewDocumentRenderer(p.highlighter)
	return p
}

// Parse builds a Document from raw file content. Fails with
// ErrMalformedDocument when the frontmatter block is missing, unparseable,
// or fails schema validation.
func (p *Pipeline) Parse(category, slug, path string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, ErrEmptyMarkdown)
	}

	meta, body, err := pipeline.SplitFrontmatter(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}

	return &Document{
		Slug:        slug,
		Category:    category,
		Path:        path,
		Frontmatter: toFrontmatter(meta),
		Body:        body,
	}, nil
}

// Render produces every derived view of the document body: HTML, outline,
// and reading time. Results are cached by content hash, so rendering the
// same body twice returns the identical value. Fails with ErrRenderFailed
// naming the document; context cancellation is returned as-is.
func (p *Pipeline) Render(ctx context.Context, doc *Document) (*Rendered, error) {
	key := sha256.Sum256([]byte(doc.Body))

	p.mu.Lock()
	cached := p.cache[key]
	p.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	res, err := p.renderer.Render(ctx, []byte(doc.Body))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, doc.Key(), err)
	}

	rendered := &Rendered{
		HTML:        res.HTML,
		TOC:         toTOC(res.Headings),
		OutlineHTML: res.OutlineHTML,
		ReadingTime: toReadingTime(pipeline.EstimateReadingTime(doc.Body, p.wordsPerMinute)),
	}

	p.mu.Lock()
	p.cache[key] = rendered
	p.mu.Unlock()

	return rendered, nil
}

// ReadingTime computes the reading estimate for a body without rendering.
// Pure and deterministic.
func (p *Pipeline) ReadingTime(body string) ReadingTime {
	return toReadingTime(pipeline.EstimateReadingTime(body, p.wordsPerMinute))
}
