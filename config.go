package academy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/gouthamgo/apex-academy-sub002/internal/fileutil"
	"github.com/gouthamgo/apex-academy-sub002/internal/yamlutil"
)

// Defaults applied by DefaultConfig.
const (
	DefaultContentDir   = "content"
	DefaultRelatedLimit = 4
	DefaultLoadWorkers  = 4
)

// Config holds all configuration for content loading and rendering.
type Config struct {
	Content  ContentConfig   `yaml:"content"`
	Reading  ReadingConfig   `yaml:"reading"`
	Related  RelatedConfig   `yaml:"related"`
	Sections []SectionConfig `yaml:"sections"`
}

// ContentConfig defines where and how documents are loaded.
type ContentConfig struct {
	Dir     string `yaml:"dir"`     // content root, one subdirectory per category
	Workers int    `yaml:"workers"` // parallel document parses during load
}

// ReadingConfig defines reading-time estimation options.
type ReadingConfig struct {
	WordsPerMinute int `yaml:"wordsPerMinute"`
}

// RelatedConfig defines related-documents query options.
type RelatedConfig struct {
	Limit int `yaml:"limit"` // maximum suggestions per document
}

// SectionConfig declares one curriculum category.
type SectionConfig struct {
	ID          string `yaml:"id"`   // directory name under the content root
	Name        string `yaml:"name"` // display name
	Description string `yaml:"description"`
	Order       int    `yaml:"order"` // position in category listings
}

// DefaultConfig returns the built-in configuration: the standard curriculum
// sections, 200 wpm, and four related suggestions.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{Dir: DefaultContentDir, Workers: DefaultLoadWorkers},
		Reading: ReadingConfig{WordsPerMinute: 200},
		Related: RelatedConfig{Limit: DefaultRelatedLimit},
		Sections: []SectionConfig{
			{ID: "fundamentals", Name: "Salesforce Fundamentals", Description: "Platform basics: orgs, objects, fields, and the declarative toolset.", Order: 1},
			{ID: "apex", Name: "Apex Programming", Description: "The Apex language: classes, collections, SOQL integration, and governor limits.", Order: 2},
			{ID: "soql", Name: "SOQL & SOSL", Description: "Querying records: filters, relationships, aggregates, and search.", Order: 3},
			{ID: "triggers", Name: "Apex Triggers", Description: "Trigger patterns, bulkification, and order of execution.", Order: 4},
			{ID: "async", Name: "Asynchronous Apex", Description: "Future methods, queueables, batch Apex, and scheduled jobs.", Order: 5},
			{ID: "testing", Name: "Testing & Deployment", Description: "Unit tests, test data, code coverage, and deployment paths.", Order: 6},
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Content, validation.Required),
		validation.Field(&c.Sections, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := c.Content.validate(); err != nil {
		return err
	}
	if c.Reading.WordsPerMinute < 0 {
		return fmt.Errorf("%w: wordsPerMinute must not be negative", ErrConfigInvalid)
	}
	if c.Related.Limit < 0 {
		return fmt.Errorf("%w: related limit must not be negative", ErrConfigInvalid)
	}
	seen := make(map[string]bool, len(c.Sections))
	for _, s := range c.Sections {
		if err := s.validate(); err != nil {
			return err
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate section id %q", ErrConfigInvalid, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func (c ContentConfig) validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Workers, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("%w: content: %v", ErrConfigInvalid, err)
	}
	return nil
}

func (s SectionConfig) validate() error {
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Name, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: section: %v", ErrConfigInvalid, err)
	}
	return nil
}

// categories converts the declared sections to the public Category type.
func (c *Config) categories() []Category {
	out := make([]Category, len(c.Sections))
	for i, s := range c.Sections {
		out[i] = Category{ID: s.ID, Name: s.Name, Description: s.Description, Order: s.Order}
	}
	return out
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard
// locations. Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard
// locations. Tries extensions in order: .yaml, .yml.
// Tries locations in order: current directory, ~/.config/apex-academy/.
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "apex-academy", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
