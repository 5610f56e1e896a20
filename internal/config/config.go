package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/harrison/pathcomment/internal/header"
)

// File names searched by LoadConfigFromDir, in order.
const (
	YAMLFile      = ".path-comment.yaml"
	YAMLFileAlt   = ".path-comment.yml"
	PyprojectFile = "pyproject.toml"
	// PyprojectTable is the pyproject.toml table holding the settings.
	PyprojectTable = "path-comment-hook"
)

// Config represents path-comment configuration options
type Config struct {
	// ExcludeGlobs lists patterns for files that are never touched
	ExcludeGlobs []string `yaml:"exclude_globs" toml:"exclude_globs" validate:"dive,required,globpattern"`

	// CustomCommentMap maps an extension such as ".py" to a header template
	// containing {_path_}
	CustomCommentMap map[string]string `yaml:"custom_comment_map" toml:"custom_comment_map" validate:"dive,keys,required,startswith=.,endkeys,commenttemplate"`

	// DefaultMode is used when no mode flag is given (apply, verify)
	DefaultMode string `yaml:"default_mode" toml:"default_mode" validate:"oneof=apply verify fix check"`

	// Workers caps the worker pool (0 = one per CPU)
	Workers int `yaml:"workers" toml:"workers" validate:"gte=0,lte=1024"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level" toml:"log_level" validate:"oneof=trace debug info warn error"`

	// Source is the file the configuration was loaded from, "" for defaults
	Source string `yaml:"-" toml:"-"`
}

// fileConfig is the on-disk shape. Pointers distinguish absent keys from
// zero values so that an explicit empty list still overrides the defaults.
type fileConfig struct {
	ExcludeGlobs     *[]string          `yaml:"exclude_globs" toml:"exclude_globs"`
	CustomCommentMap *map[string]string `yaml:"custom_comment_map" toml:"custom_comment_map"`
	DefaultMode      *string            `yaml:"default_mode" toml:"default_mode"`
	Workers          *int               `yaml:"workers" toml:"workers"`
	LogLevel         *string            `yaml:"log_level" toml:"log_level"`
}

type pyproject struct {
	Tool struct {
		PathComment *fileConfig `toml:"path-comment-hook"`
	} `toml:"tool"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		ExcludeGlobs:     []string{"*.min.js", "dist/*", "node_modules/*", ".git/*"},
		CustomCommentMap: map[string]string{},
		DefaultMode:      "apply",
		Workers:          0,
		LogLevel:         "info",
	}
}

// LoadConfig loads configuration from the specified file path.
// A path ending in .toml is read as pyproject.toml, anything else as YAML.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an *Error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, &Error{Source: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	var fc *fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var doc pyproject
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, &Error{Source: path, Err: fmt.Errorf("failed to parse config file: %w", err)}
		}
		fc = doc.Tool.PathComment
		if fc == nil {
			return cfg, nil
		}
	} else {
		fc = &fileConfig{}
		if err := yaml.Unmarshal(data, fc); err != nil {
			return nil, &Error{Source: path, Err: fmt.Errorf("failed to parse config file: %w", err)}
		}
	}

	cfg.apply(fc)
	cfg.Source = path
	return cfg, nil
}

func (c *Config) apply(fc *fileConfig) {
	if fc.ExcludeGlobs != nil {
		c.ExcludeGlobs = append([]string{}, (*fc.ExcludeGlobs)...)
	}
	if fc.CustomCommentMap != nil {
		c.CustomCommentMap = make(map[string]string, len(*fc.CustomCommentMap))
		for k, v := range *fc.CustomCommentMap {
			c.CustomCommentMap[k] = v
		}
	}
	if fc.DefaultMode != nil {
		c.DefaultMode = strings.ToLower(*fc.DefaultMode)
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
	}
	if fc.LogLevel != nil {
		c.LogLevel = strings.ToLower(*fc.LogLevel)
	}
}

// LoadConfigFromDir loads .path-comment.yaml (or .yml) from dir, falling
// back to the [tool.path-comment-hook] table of pyproject.toml.
// If none of them exist, returns default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range []string{YAMLFile, YAMLFileAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	return LoadConfig(filepath.Join(dir, PyprojectFile))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(workers *int, mode *string, logLevel *string) {
	if workers != nil {
		c.Workers = *workers
	}
	if mode != nil {
		c.DefaultMode = strings.ToLower(*mode)
	}
	if logLevel != nil {
		c.LogLevel = strings.ToLower(*logLevel)
	}
}

// CommentOverrides returns the custom templates keyed by extension.
func (c *Config) CommentOverrides() map[string]string {
	return c.CustomCommentMap
}

// ToMap returns the settings in display form, keyed by their file names.
func (c *Config) ToMap() map[string]any {
	return map[string]any{
		"exclude_globs":      c.ExcludeGlobs,
		"custom_comment_map": c.CustomCommentMap,
		"default_mode":       c.DefaultMode,
		"workers":            c.Workers,
		"log_level":          c.LogLevel,
	}
}

// SortedCommentMap returns the custom map as sorted "ext = template" pairs.
func (c *Config) SortedCommentMap() [][2]string {
	keys := make([]string, 0, len(c.CustomCommentMap))
	for k := range c.CustomCommentMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, c.CustomCommentMap[k]})
	}
	return pairs
}

// validCommentTemplate reports whether s renders a usable single-line header.
func validCommentTemplate(s string) bool {
	if strings.ContainsAny(s, "\r\n") {
		return false
	}
	return strings.Contains(s, header.PathPlaceholder) && !header.Custom(s).IsZero()
}
