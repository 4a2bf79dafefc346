// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// ForContentDir returns hints for an unreadable content directory.
func ForContentDir(dir string) string {
	return format("check that " + dir + " exists, or point --content (or ACADEMY_CONTENT_DIR) at your tutorial root")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating a config in ~/.config/apex-academy/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/apex-academy") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForMalformedDocument returns hints for frontmatter parse failures.
func ForMalformedDocument() string {
	return format("documents open with a --- delimited YAML block; title and difficulty are required")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
