package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/triesearch/internal/errors"
	"github.com/Aman-CERP/triesearch/pkg/keyfield"
	"github.com/Aman-CERP/triesearch/pkg/triesearch"
)

// File names searched for a project configuration, in order.
const (
	ProjectConfigYAML = ".triesearch.yaml"
	ProjectConfigYML  = ".triesearch.yml"
)

// Config represents the complete triesearch configuration.
type Config struct {
	Version int `yaml:"version" json:"version"`

	// Keys lists the key fields records are indexed by. Each entry is a
	// field name or a list of names forming a nested path.
	Keys []any `yaml:"keys" json:"keys"`

	Collection CollectionConfig `yaml:"collection" json:"collection"`
	Search     SearchConfig     `yaml:"search" json:"search"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// CollectionConfig configures the record store.
type CollectionConfig struct {
	IgnoreDuplicates bool `yaml:"ignore_duplicates" json:"ignore_duplicates"`
}

// SearchConfig configures tokenizing, caching and result combination.
type SearchConfig struct {
	Cache                bool   `yaml:"cache" json:"cache"`
	MaxCacheSize         int    `yaml:"max_cache_size" json:"max_cache_size"`
	IgnoreCase           bool   `yaml:"ignore_case" json:"ignore_case"`
	MinWordLength        int    `yaml:"min_word_length" json:"min_word_length"`
	SplitOnInsert        string `yaml:"split_on_insert" json:"split_on_insert"`
	SplitOnQuery         string `yaml:"split_on_query" json:"split_on_query"`
	InsertFullUnsplitKey bool   `yaml:"insert_full_unsplit_key" json:"insert_full_unsplit_key"`
	FoldDiacritics       bool   `yaml:"fold_diacritics" json:"fold_diacritics"`

	// Expansions is the character equivalence table. An empty list
	// disables expansion.
	Expansions []triesearch.ExpansionRule `yaml:"expansions" json:"expansions"`

	// DefaultLimit caps CLI results when no --limit is given. 0 = no cap.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`

	// Reducer selects the built-in reducer: or, union or all.
	Reducer string `yaml:"reducer" json:"reducer"`
}

// LoggingConfig configures file logging.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	opts := triesearch.DefaultOptions()
	return &Config{
		Version: 1,
		Keys:    []any{"name"},
		Search: SearchConfig{
			Cache:         opts.Cache,
			MaxCacheSize:  opts.MaxCacheSize,
			IgnoreCase:    opts.IgnoreCase,
			MinWordLength: opts.MinWordLength,
			SplitOnInsert: opts.SplitOnInsert,
			SplitOnQuery:  opts.SplitOnQuery,
			Expansions:    triesearch.DefaultExpansionRules(),
			DefaultLimit:  10,
			Reducer:       "or",
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/triesearch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/triesearch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "triesearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "triesearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "triesearch", "config.yaml")
}

// Load loads configuration for the given directory.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User/global config (~/.config/triesearch/config.yaml)
//  3. Project config (.triesearch.yaml in dir)
//  4. Environment variables (TRIESEARCH_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if path := projectConfigPath(dir); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	return cfg.finish()
}

// LoadFile loads an explicit configuration file on top of the defaults.
// Unlike Load, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	if !fileExists(path) {
		return nil, errors.New(errors.ErrCodeConfigNotFound, "config file not found", nil).
			WithDetail("path", path).
			WithSuggestion("run 'triesearch config init' to create one")
	}
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg.finish()
}

func (c *Config) finish() (*Config, error) {
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func projectConfigPath(dir string) string {
	for _, name := range []string{ProjectConfigYAML, ProjectConfigYML} {
		if p := filepath.Join(dir, name); fileExists(p) {
			return p
		}
	}
	return ""
}

// loadYAML decodes a YAML file onto c. Keys absent from the file keep their
// current values, so files layer over defaults and over each other.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.IOError("failed to read config file", err).WithDetail("path", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.ConfigError("failed to parse config file", err).
			WithDetail("path", path)
	}
	return nil
}

// applyEnvOverrides applies TRIESEARCH_* environment variable overrides.
// Malformed numeric and boolean values are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TRIESEARCH_KEYS"); v != "" {
		var keys []any
		for _, k := range strings.Split(v, ",") {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			if strings.Contains(k, ".") {
				var path []any
				for _, seg := range strings.Split(k, ".") {
					path = append(path, seg)
				}
				keys = append(keys, path)
				continue
			}
			keys = append(keys, k)
		}
		c.Keys = keys
	}

	envBool("TRIESEARCH_IGNORE_DUPLICATES", &c.Collection.IgnoreDuplicates)
	envBool("TRIESEARCH_CACHE", &c.Search.Cache)
	envBool("TRIESEARCH_IGNORE_CASE", &c.Search.IgnoreCase)
	envBool("TRIESEARCH_INSERT_FULL_UNSPLIT_KEY", &c.Search.InsertFullUnsplitKey)
	envBool("TRIESEARCH_FOLD_DIACRITICS", &c.Search.FoldDiacritics)
	envInt("TRIESEARCH_MAX_CACHE_SIZE", &c.Search.MaxCacheSize)
	envInt("TRIESEARCH_MIN_WORD_LENGTH", &c.Search.MinWordLength)
	envInt("TRIESEARCH_DEFAULT_LIMIT", &c.Search.DefaultLimit)

	// An empty split pattern is meaningful (disabled), so presence counts.
	if v, ok := os.LookupEnv("TRIESEARCH_SPLIT_ON_INSERT"); ok {
		c.Search.SplitOnInsert = v
	}
	if v, ok := os.LookupEnv("TRIESEARCH_SPLIT_ON_QUERY"); ok {
		c.Search.SplitOnQuery = v
	}

	if v := os.Getenv("TRIESEARCH_REDUCER"); v != "" {
		c.Search.Reducer = strings.ToLower(v)
	}
	if v := os.Getenv("TRIESEARCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TRIESEARCH_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

func envBool(name string, dst *bool) {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

// KeyFields parses Keys.
func (c *Config) KeyFields() ([]keyfield.KeyField, error) {
	return keyfield.ParseAll(c.Keys...)
}

// EngineOptions converts the collection and search sections into engine options.
func (c *Config) EngineOptions() triesearch.Options {
	return triesearch.Options{
		IgnoreDuplicates:     c.Collection.IgnoreDuplicates,
		Cache:                c.Search.Cache,
		MaxCacheSize:         c.Search.MaxCacheSize,
		IgnoreCase:           c.Search.IgnoreCase,
		MinWordLength:        c.Search.MinWordLength,
		SplitOnInsert:        c.Search.SplitOnInsert,
		SplitOnQuery:         c.Search.SplitOnQuery,
		InsertFullUnsplitKey: c.Search.InsertFullUnsplitKey,
		ExpansionRules:       append([]triesearch.ExpansionRule{}, c.Search.Expansions...),
		FoldDiacritics:       c.Search.FoldDiacritics,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return invalid("version", fmt.Sprintf("unsupported config version %d", c.Version))
	}

	if len(c.Keys) == 0 {
		return invalid("keys", "at least one key field is required")
	}
	if _, err := c.KeyFields(); err != nil {
		return errors.ConfigError("invalid key field", err).
			WithDetail("field", "keys")
	}

	if err := c.EngineOptions().Validate(); err != nil {
		return errors.ConfigError("invalid search configuration", err).
			WithDetail("field", "search")
	}

	if c.Search.DefaultLimit < 0 {
		return invalid("search.default_limit", fmt.Sprintf("must be non-negative, got %d", c.Search.DefaultLimit))
	}

	validReducers := map[string]bool{"or": true, "union": true, "all": true}
	if !validReducers[strings.ToLower(c.Search.Reducer)] {
		return invalid("search.reducer", fmt.Sprintf("must be 'or', 'union' or 'all', got %q", c.Search.Reducer))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return invalid("logging.level", fmt.Sprintf("must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level))
	}

	return nil
}

func invalid(field, msg string) error {
	return errors.New(errors.ErrCodeConfigInvalid, field+": "+msg, nil).
		WithDetail("field", field)
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
