package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	academy "github.com/gouthamgo/apex-academy-sub002"
	"github.com/gouthamgo/apex-academy-sub002/internal/assets"
	"github.com/gouthamgo/apex-academy-sub002/internal/dateutil"
	"github.com/gouthamgo/apex-academy-sub002/internal/fileutil"
	"github.com/gouthamgo/apex-academy-sub002/internal/hints"
)

// Output shapes written for the page-rendering layer.
type pageJSON struct {
	Slug        string          `json:"slug"`
	Category    string          `json:"category"`
	Frontmatter frontmatterJSON `json:"frontmatter"`
	HTML        string          `json:"html"`
	TOC         []tocEntryJSON  `json:"tableOfContents"`
	OutlineHTML string          `json:"outlineHtml,omitempty"`
	ReadingTime readingJSON     `json:"readingTime"`
}

type frontmatterJSON struct {
	Title              string   `json:"title"`
	Description        string   `json:"description,omitempty"`
	Overview           string   `json:"overview,omitempty"`
	Order              int      `json:"order"`
	Difficulty         string   `json:"difficulty"`
	Concepts           []string `json:"concepts,omitempty"`
	Prerequisites      []string `json:"prerequisites,omitempty"`
	RelatedTopics      []string `json:"relatedTopics,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	LastUpdated        string   `json:"lastUpdated,omitempty"`
	LastUpdatedDisplay string   `json:"lastUpdatedDisplay,omitempty"`
	ExamWeight         string   `json:"examWeight,omitempty"`
	Featured           bool     `json:"featured,omitempty"`
	Draft              bool     `json:"draft,omitempty"`
}

type tocEntryJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

type readingJSON struct {
	Words   int    `json:"words"`
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

type indexJSON struct {
	Categories []categoryJSON `json:"categories"`
	Issues     []issueJSON    `json:"issues,omitempty"`
}

type categoryJSON struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Documents   []summaryJSON `json:"documents"`
}

type summaryJSON struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Difficulty  string   `json:"difficulty"`
	Order       int      `json:"order"`
	ReadingTime string   `json:"readingTime"`
	Related     []string `json:"related,omitempty"`
	Stale       bool     `json:"stale,omitempty"`
}

type issueJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// run executes the content build: load, render all, write artifacts.
func run(ctx context.Context, flags *buildFlags, logger *slog.Logger) error {
	cfg, err := buildConfig(flags)
	if err != nil {
		if errors.Is(err, academy.ErrConfigNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForConfigNotFound(nil))
		}
		return err
	}

	repo := academy.NewRepository(cfg, academy.WithRepositoryLogger(logger))
	if err := repo.Load(ctx); err != nil {
		return fmt.Errorf("loading content: %w%s", err, hints.ForContentDir(cfg.Content.Dir))
	}

	pages, err := repo.RenderAll(ctx)
	if err != nil {
		return fmt.Errorf("rendering content: %w", err)
	}

	for _, page := range pages {
		if err := writePage(flags.outDir, page); err != nil {
			return err
		}
	}

	if err := writeIndex(flags.outDir, repo, pages); err != nil {
		return err
	}

	if err := writeStylesheet(flags.outDir, flags.style); err != nil {
		return err
	}

	logger.Info("build complete",
		slog.Int("documents", len(pages)),
		slog.Int("issues", len(repo.Issues())),
		slog.String("out", flags.outDir))
	for _, issue := range repo.Issues() {
		logger.Warn("build issue",
			slog.String("path", issue.Path),
			slog.String("error", issueMessage(issue)))
	}
	return nil
}

// issueMessage formats a load issue for the log, appending a recovery hint
// when the document's frontmatter could not be parsed.
func issueMessage(issue academy.Issue) string {
	msg := issue.Err.Error()
	if errors.Is(issue.Err, academy.ErrMalformedDocument) {
		msg += hints.ForMalformedDocument()
	}
	return msg
}

// Documents untouched for longer than this are flagged stale in the index
// so the site can prompt a content review.
const staleContentDays = 365

// isStale reports whether lastUpdated is older than the stale threshold.
// Unset or unparseable dates are never stale.
func isStale(lastUpdated string, now time.Time) bool {
	return dateutil.DaysSince(lastUpdated, now) > staleContentDays
}

// buildConfig resolves the effective configuration: file, then env, then
// flags, most specific wins.
func buildConfig(flags *buildFlags) (*academy.Config, error) {
	cfg := academy.DefaultConfig()
	if flags.configName != "" {
		loaded, err := academy.LoadConfig(flags.configName)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flags.contentDir != "" {
		cfg.Content.Dir = flags.contentDir
	}
	if flags.workers > 0 {
		cfg.Content.Workers = flags.workers
	}
	if flags.wpm > 0 {
		cfg.Reading.WordsPerMinute = flags.wpm
	}
	return cfg, nil
}

// writePage writes one rendered document to <out>/<category>/<slug>.json.
func writePage(outDir string, page academy.Page) error {
	doc, rendered := page.Document, page.Rendered

	entries := make([]tocEntryJSON, len(rendered.TOC))
	for i, e := range rendered.TOC {
		entries[i] = tocEntryJSON{ID: e.ID, Title: e.Title, Level: e.Level}
	}

	out := pageJSON{
		Slug:     doc.Slug,
		Category: doc.Category,
		Frontmatter: frontmatterJSON{
			Title:              doc.Frontmatter.Title,
			Description:        doc.Frontmatter.Description,
			Overview:           doc.Frontmatter.Overview,
			Order:              doc.Frontmatter.Order,
			Difficulty:         doc.Frontmatter.Difficulty,
			Concepts:           doc.Frontmatter.Concepts,
			Prerequisites:      doc.Frontmatter.Prerequisites,
			RelatedTopics:      doc.Frontmatter.RelatedTopics,
			Tags:               doc.Frontmatter.Tags,
			LastUpdated:        doc.Frontmatter.LastUpdated,
			LastUpdatedDisplay: dateutil.Display(doc.Frontmatter.LastUpdated),
			ExamWeight:         doc.Frontmatter.ExamWeight,
			Featured:           doc.Frontmatter.Featured,
			Draft:              doc.Frontmatter.Draft,
		},
		HTML:        rendered.HTML,
		TOC:         entries,
		OutlineHTML: rendered.OutlineHTML,
		ReadingTime: readingJSON{
			Words:   rendered.ReadingTime.Words,
			Minutes: rendered.ReadingTime.Minutes,
			Text:    rendered.ReadingTime.Text,
		},
	}

	return writeJSON(filepath.Join(outDir, doc.Category, doc.Slug+".json"), out)
}

// writeIndex writes the category index with per-document summaries and the
// load issues.
func writeIndex(outDir string, repo *academy.Repository, pages []academy.Page) error {
	reading := make(map[string]string, len(pages))
	for _, p := range pages {
		reading[p.Document.Key()] = p.Rendered.ReadingTime.Text
	}

	var index indexJSON
	for _, cat := range repo.Categories() {
		cj := categoryJSON{ID: cat.ID, Name: cat.Name, Description: cat.Description}
		for _, doc := range repo.List(cat.ID) {
			related := repo.Related(doc)
			relatedKeys := make([]string, len(related))
			for i, rel := range related {
				relatedKeys[i] = rel.Key()
			}
			cj.Documents = append(cj.Documents, summaryJSON{
				Slug:        doc.Slug,
				Title:       doc.Frontmatter.Title,
				Description: doc.Frontmatter.Description,
				Difficulty:  doc.Frontmatter.Difficulty,
				Order:       doc.Frontmatter.Order,
				ReadingTime: reading[doc.Key()],
				Related:     relatedKeys,
				Stale:       isStale(doc.Frontmatter.LastUpdated, time.Now()),
			})
		}
		index.Categories = append(index.Categories, cj)
	}
	for _, issue := range repo.Issues() {
		index.Issues = append(index.Issues, issueJSON{Path: issue.Path, Error: issue.Err.Error()})
	}

	return writeJSON(filepath.Join(outDir, "index.json"), index)
}

// writeStylesheet writes the content stylesheet next to the JSON artifacts.
// nameOrPath selects an embedded style or a custom CSS file; empty picks the
// default.
func writeStylesheet(outDir, nameOrPath string) error {
	css, err := assets.Resolve(nameOrPath)
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(filepath.Join(outDir, "styles.css"), css, 0o644)
}

// writeJSON marshals v with indentation and writes it to path atomically.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := fileutil.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w%s", path, err, hints.ForOutputDirectory())
	}
	return nil
}
