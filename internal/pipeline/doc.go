// Package pipeline implements the tutorial content transform.
//
// This package handles the per-document stages:
//   - frontmatter splitting and schema validation
//   - reading-time estimation from the markdown body
//   - heading outline extraction with stable anchor ids
//   - markdown to HTML conversion via Goldmark, with the site's custom
//     widgets: copyable code blocks with line annotations, callout
//     blockquotes, and styled tables
//
// Directory walking, indexing, and the related-content queries are handled
// by the root academy package. This separation keeps the pipeline focused on
// a single document with no knowledge of the collection it belongs to.
package pipeline
