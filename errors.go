package academy

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown     = errors.New("markdown content cannot be empty")
	ErrMalformedDocument = errors.New("malformed document")
	ErrRenderFailed      = errors.New("document rendering failed")
	ErrDuplicateSlug     = errors.New("duplicate slug in category")

	// Config errors.
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid configuration")
)
