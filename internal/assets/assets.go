// Package assets ships the embedded stylesheet for rendered content. The
// build step writes it next to the JSON artifacts; a custom stylesheet can
// replace it by name-or-path resolution.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gouthamgo/apex-academy-sub002/internal/fileutil"
)

//go:embed styles/*.css
var styleFS embed.FS

// DefaultStyle is the embedded stylesheet used when none is requested.
const DefaultStyle = "academy"

// ErrStyleNotFound indicates an unknown embedded style name.
var ErrStyleNotFound = errors.New("style not found")

// Styles lists the embedded style names, sorted.
func Styles() []string {
	entries, err := styleFS.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

// Resolve returns the stylesheet content for a style name or file path.
// Empty input resolves to the default embedded style; a value containing a
// path separator reads from disk; anything else looks up an embedded style.
func Resolve(nameOrPath string) ([]byte, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultStyle
	}

	if fileutil.IsFilePath(nameOrPath) {
		data, err := os.ReadFile(nameOrPath) // #nosec G304 -- style path is user-provided
		if err != nil {
			return nil, fmt.Errorf("reading stylesheet: %w", err)
		}
		return data, nil
	}

	data, err := styleFS.ReadFile("styles/" + nameOrPath + ".css")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrStyleNotFound, nameOrPath, strings.Join(Styles(), ", "))
	}
	return data, nil
}
