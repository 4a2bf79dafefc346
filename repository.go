package academy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Issue records a per-file problem encountered during load. Problem
// documents are excluded from the index instead of aborting the batch.
type Issue struct {
	Path string
	Err  error
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithRepositoryLogger sets the structured logger. Defaults to
// slog.Default().
func WithRepositoryLogger(logger *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithRepositoryPipeline replaces the default pipeline (e.g., to inject a
// custom highlighter).
func WithRepositoryPipeline(p *Pipeline) RepositoryOption {
	return func(r *Repository) {
		r.pipeline = p
	}
}

// Repository is the in-memory, read-only index over the content directory.
// Load builds it; afterwards all queries are safe for concurrent use. The
// repository never mutates documents; rebuilds happen by loading a fresh
// Repository when source files change.
type Repository struct {
	cfg      *Config
	pipeline *Pipeline
	logger   *slog.Logger

	mu         sync.RWMutex
	loaded     bool
	docs       map[string]*Document
	byCategory map[string][]*Document
	issues     []Issue
}

// NewRepository creates an unloaded Repository. Call Load before querying.
func NewRepository(cfg *Config, opts ...RepositoryOption) *Repository {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := &Repository{
		cfg:    cfg,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.pipeline == nil {
		pipelineOpts := []Option{WithLogger(r.logger)}
		if cfg.Reading.WordsPerMinute > 0 {
			pipelineOpts = append(pipelineOpts, WithWordsPerMinute(cfg.Reading.WordsPerMinute))
		}
		r.pipeline = NewPipeline(pipelineOpts...)
	}

	return r
}

// fileRef identifies one candidate document file.
type fileRef struct {
	category string
	slug     string
	path     string
}

// Load walks <contentDir>/<category>/<slug>.md, parses every document, and
// builds the index. Documents parse in parallel; the index is assembled in
// sorted file order so duplicate-slug resolution is deterministic
// (last-write-wins). Malformed documents are logged, recorded as Issues,
// and excluded. Only directory-read failures and context cancellation abort
// the load.
func (r *Repository) Load(ctx context.Context) error {
	root := r.cfg.Content.Dir

	files, issues, err := r.listFiles(root)
	if err != nil {
		return err
	}

	workers := r.cfg.Content.Workers
	if workers <= 0 {
		workers = DefaultLoadWorkers
	}

	type outcome struct {
		doc   *Document
		issue *Issue
	}
	results := make([]outcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f.path)
			if err != nil {
				results[i].issue = &Issue{Path: f.path, Err: fmt.Errorf("reading document: %w", err)}
				return nil
			}
			doc, err := r.pipeline.Parse(f.category, f.slug, f.path, data)
			if err != nil {
				results[i].issue = &Issue{Path: f.path, Err: err}
				return nil
			}
			results[i].doc = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	docs := make(map[string]*Document, len(files))
	for _, res := range results {
		if res.issue != nil {
			r.logger.Warn("load: document skipped",
				slog.String("path", res.issue.Path),
				slog.String("error", res.issue.Err.Error()))
			issues = append(issues, *res.issue)
			continue
		}
		doc := res.doc
		if prev, ok := docs[doc.Key()]; ok {
			dup := Issue{
				Path: doc.Path,
				Err:  fmt.Errorf("%w: %s (replaces %s)", ErrDuplicateSlug, doc.Key(), prev.Path),
			}
			r.logger.Warn("load: duplicate slug",
				slog.String("path", dup.Path),
				slog.String("error", dup.Err.Error()))
			issues = append(issues, dup)
		}
		docs[doc.Key()] = doc
	}

	byCategory := make(map[string][]*Document)
	for _, doc := range docs {
		byCategory[doc.Category] = append(byCategory[doc.Category], doc)
	}
	for _, list := range byCategory {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Frontmatter.Order != list[j].Frontmatter.Order {
				return list[i].Frontmatter.Order < list[j].Frontmatter.Order
			}
			return list[i].Slug < list[j].Slug
		})
	}

	r.mu.Lock()
	r.docs = docs
	r.byCategory = byCategory
	r.issues = issues
	r.loaded = true
	r.mu.Unlock()

	r.logger.Info("load: content indexed",
		slog.Int("documents", len(docs)),
		slog.Int("issues", len(issues)))
	return nil
}

// listFiles enumerates candidate files in sorted order. Unreadable category
// directories become issues rather than load failures.
func (r *Repository) listFiles(root string) ([]fileRef, []Issue, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("reading content dir: %w", err)
	}

	var files []fileRef
	var issues []Issue
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		category := entry.Name()
		dir := filepath.Join(root, category)
		sub, err := os.ReadDir(dir)
		if err != nil {
			issues = append(issues, Issue{Path: dir, Err: fmt.Errorf("reading category dir: %w", err)})
			continue
		}
		for _, f := range sub {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
				continue
			}
			files = append(files, fileRef{
				category: category,
				slug:     strings.TrimSuffix(f.Name(), ".md"),
				path:     filepath.Join(dir, f.Name()),
			})
		}
	}
	return files, issues, nil
}

// Get returns the document with the given category and slug. The boolean is
// false when no such document exists; absence is not an error.
func (r *Repository) Get(category, slug string) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[category+"/"+slug]
	return doc, ok
}

// List returns the documents of one category sorted by declared order, then
// slug. The returned slice is a copy.
func (r *Repository) List(category string) []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byCategory[category]
	out := make([]*Document, len(list))
	copy(out, list)
	return out
}

// All returns every document, grouped by configured section order.
func (r *Repository) All() []*Document {
	var out []*Document
	for _, cat := range r.Categories() {
		out = append(out, r.List(cat.ID)...)
	}

	// Documents in unconfigured category directories come last, sorted.
	r.mu.RLock()
	defer r.mu.RUnlock()
	known := make(map[string]bool, len(r.cfg.Sections))
	for _, s := range r.cfg.Sections {
		known[s.ID] = true
	}
	var extra []string
	for cat := range r.byCategory {
		if !known[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	for _, cat := range extra {
		out = append(out, r.byCategory[cat]...)
	}
	return out
}

// Categories returns the configured curriculum sections sorted by order.
func (r *Repository) Categories() []Category {
	cats := r.cfg.categories()
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Order != cats[j].Order {
			return cats[i].Order < cats[j].Order
		}
		return cats[i].ID < cats[j].ID
	})
	return cats
}

// Category returns the metadata of one configured section.
func (r *Repository) Category(id string) (Category, bool) {
	for _, cat := range r.cfg.categories() {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Issues returns the per-file problems recorded by the last Load.
func (r *Repository) Issues() []Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Related returns up to the configured limit of suggestions for doc, ranked
// by shared category first, then tag/concept overlap count, then the
// author-declared related list. The tiers are strict: a same-category
// candidate always outranks a cross-category one no matter how many tags the
// latter shares. The document itself is excluded. Ties break by declared
// order, then slug, then category, so results are deterministic.
func (r *Repository) Related(doc *Document) []*Document {
	limit := r.cfg.Related.Limit
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	own := tagSet(doc)
	declared := make(map[string]bool, len(doc.Frontmatter.RelatedTopics))
	for _, slug := range doc.Frontmatter.RelatedTopics {
		declared[slug] = true
	}

	type candidate struct {
		doc          *Document
		sameCategory bool
		overlap      int
		declared     bool
	}

	r.mu.RLock()
	candidates := make([]candidate, 0, len(r.docs))
	for _, cand := range r.docs {
		if cand.Key() == doc.Key() {
			continue
		}
		c := candidate{doc: cand, sameCategory: cand.Category == doc.Category}
		for tag := range tagSet(cand) {
			if own[tag] {
				c.overlap++
			}
		}
		c.declared = declared[cand.Slug]
		if !c.sameCategory && c.overlap == 0 && !c.declared {
			continue
		}
		candidates = append(candidates, c)
	}
	r.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.sameCategory != b.sameCategory {
			return a.sameCategory
		}
		if a.overlap != b.overlap {
			return a.overlap > b.overlap
		}
		if a.declared != b.declared {
			return a.declared
		}
		if a.doc.Frontmatter.Order != b.doc.Frontmatter.Order {
			return a.doc.Frontmatter.Order < b.doc.Frontmatter.Order
		}
		if a.doc.Slug != b.doc.Slug {
			return a.doc.Slug < b.doc.Slug
		}
		return a.doc.Category < b.doc.Category
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]*Document, len(candidates))
	for i, c := range candidates {
		out[i] = c.doc
	}
	return out
}

// tagSet merges a document's declared tags and concepts.
func tagSet(doc *Document) map[string]bool {
	set := make(map[string]bool, len(doc.Frontmatter.Tags)+len(doc.Frontmatter.Concepts))
	for _, t := range doc.Frontmatter.Tags {
		set[t] = true
	}
	for _, c := range doc.Frontmatter.Concepts {
		set[c] = true
	}
	return set
}

// Render produces the derived views of one document.
func (r *Repository) Render(ctx context.Context, doc *Document) (*Rendered, error) {
	return r.pipeline.Render(ctx, doc)
}

// RenderAll renders every document, isolating failures per document: a
// document whose rendering fails gets the error placeholder HTML and the
// batch continues. Only context cancellation aborts.
func (r *Repository) RenderAll(ctx context.Context) ([]Page, error) {
	docs := r.All()
	pages := make([]Page, 0, len(docs))
	for _, doc := range docs {
		rendered, err := r.pipeline.Render(ctx, doc)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			r.logger.Warn("render: placeholder emitted",
				slog.String("document", doc.Key()),
				slog.String("error", err.Error()))
			rendered = &Rendered{
				HTML:        RenderErrorPlaceholder,
				ReadingTime: r.pipeline.ReadingTime(doc.Body),
			}
		}
		pages = append(pages, Page{Document: doc, Rendered: rendered})
	}
	return pages, nil
}
