package config

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ShouldExclude reports whether rel, a path relative to the project root,
// matches any exclude glob.
//
// A pattern is tested against the path itself and against each of its parent
// directories, so "dist/*" excludes everything below dist. A pattern without
// a slash also matches the base name at any depth, so "*.min.js" excludes
// "web/vendor/app.min.js".
func (c *Config) ShouldExclude(rel string) bool {
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if rel == "" {
		return false
	}

	candidates := []string{rel}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		candidates = append(candidates, dir)
	}
	base := path.Base(rel)

	for _, pattern := range c.ExcludeGlobs {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		for _, candidate := range candidates {
			if ok, err := doublestar.Match(pattern, candidate); err == nil && ok {
				return true
			}
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, base); err == nil && ok {
				return true
			}
		}
	}
	return false
}
