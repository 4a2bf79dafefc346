package pipeline

import "strings"

// styleTables adds the site's styling hooks around GFM tables: a scroll
// wrapper and a class on the table element. Runs on the rendered HTML so the
// GFM extension keeps full ownership of table semantics; table markup inside
// code blocks is already entity-escaped and untouched.
func styleTables(html string) string {
	if !strings.Contains(html, "<table>") {
		return html
	}
	html = strings.ReplaceAll(html, "<table>", `<div class="table-scroll"><table class="content-table">`)
	return strings.ReplaceAll(html, "</table>", "</table></div>")
}
