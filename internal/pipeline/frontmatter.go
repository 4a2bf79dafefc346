package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/gouthamgo/apex-academy-sub002/internal/dateutil"
	"github.com/gouthamgo/apex-academy-sub002/internal/yamlutil"
)

// Sentinel errors for frontmatter parsing.
var (
	ErrMissingDelimiter  = errors.New("frontmatter delimiter missing")
	ErrUnterminatedBlock = errors.New("frontmatter block not terminated")
	ErrInvalidMetadata   = errors.New("frontmatter metadata invalid")
)

// Difficulty levels accepted in frontmatter.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Exam weight levels accepted in frontmatter.
const (
	ExamWeightLow    = "low"
	ExamWeightMedium = "medium"
	ExamWeightHigh   = "high"
)

// Meta is the declared metadata schema for a tutorial document. Fields are
// author-supplied; Validate enforces the closed schema after parsing.
type Meta struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	Overview      string   `yaml:"overview"`
	Order         int      `yaml:"order"`
	Difficulty    string   `yaml:"difficulty"`
	Concepts      []string `yaml:"concepts"`
	Prerequisites []string `yaml:"prerequisites"`
	RelatedTopics []string `yaml:"relatedTopics"`
	Tags          []string `yaml:"tags"`
	LastUpdated   string   `yaml:"lastUpdated"`
	ExamWeight    string   `yaml:"examWeight"`
	Featured      bool     `yaml:"featured"`
	Draft         bool     `yaml:"draft"`
}

// Validate enforces the metadata schema: title and difficulty are required,
// enums must use known values, order must be non-negative, and lastUpdated
// must be a YYYY-MM-DD date when present.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Difficulty, validation.Required,
			validation.In(DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced)),
		validation.Field(&m.Order, validation.Min(0)),
		validation.Field(&m.ExamWeight,
			validation.In(ExamWeightLow, ExamWeightMedium, ExamWeightHigh)),
		validation.Field(&m.LastUpdated, validation.Date(dateutil.ISOLayout)),
	)
}

// frontmatter block delimiter. Must open on the first line of the file.
var delimiter = []byte("---")

// SplitFrontmatter separates the leading ----delimited YAML block from the
// markdown body and parses it into the typed schema. The metadata is
// validated before being returned. Errors wrap ErrMissingDelimiter,
// ErrUnterminatedBlock, or ErrInvalidMetadata.
func SplitFrontmatter(data []byte) (Meta, string, error) {
	var meta Meta

	rest, ok := openingBlock(data)
	if !ok {
		return meta, "", ErrMissingDelimiter
	}

	block, body, ok := closingBlock(rest)
	if !ok {
		return meta, "", ErrUnterminatedBlock
	}

	if err := yamlutil.UnmarshalStrict(block, &meta); err != nil {
		return meta, "", fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	if err := meta.Validate(); err != nil {
		return meta, "", fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}

	return meta, strings.TrimLeft(string(body), "\n"), nil
}

// openingBlock checks that data starts with the delimiter on its own line
// and returns the content after it.
func openingBlock(data []byte) ([]byte, bool) {
	if !bytes.HasPrefix(data, delimiter) {
		return nil, false
	}
	rest := data[len(delimiter):]
	if len(rest) == 0 || rest[0] == '\n' {
		if len(rest) > 0 {
			rest = rest[1:]
		}
		return rest, true
	}
	// Tolerate a trailing \r before the newline.
	if rest[0] == '\r' && len(rest) > 1 && rest[1] == '\n' {
		return rest[2:], true
	}
	return nil, false
}

// closingBlock scans for a line consisting solely of the delimiter and
// splits the input into the YAML block before it and the body after it.
func closingBlock(rest []byte) (block, body []byte, ok bool) {
	offset := 0
	for offset <= len(rest) {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		next := len(rest) + 1
		if lineEnd < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), delimiter) {
			block = rest[:offset]
			if next <= len(rest) {
				body = rest[next:]
			}
			return block, body, true
		}
		if lineEnd < 0 {
			break
		}
		offset = next
	}
	return nil, nil, false
}
