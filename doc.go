// Package academy loads, parses, and renders the Apex Academy tutorial
// content: markdown documents with YAML frontmatter, organized on disk by
// curriculum category.
//
// The Repository walks the content directory and builds an in-memory,
// read-only index with lookup, listing, and related-content queries. The
// Pipeline turns a single document body into rendered HTML, a heading
// outline with stable anchor ids, and a reading-time estimate. Rendering is
// a pure derivation of the body and is memoized by content hash.
//
// Basic usage:
//
//	repo := academy.NewRepository(academy.DefaultConfig())
//	if err := repo.Load(ctx); err != nil { ... }
//	doc, ok := repo.Get("apex", "triggers-intro")
//	rendered, err := repo.Render(ctx, doc)
package academy
