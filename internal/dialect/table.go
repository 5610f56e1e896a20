package dialect

import (
	"path"
	"path/filepath"
	"strings"
)

// commentPrefixes maps a file type tag to its line comment prefix.
// Adding a dialect is one entry here plus a case in table_test.go.
var commentPrefixes = map[string]string{
	// hash style
	"python":     "#",
	"cython":     "#",
	"yaml":       "#",
	"toml":       "#",
	"shell":      "#",
	"makefile":   "#",
	"ruby":       "#",
	"perl":       "#",
	"r":          "#",
	"cmake":      "#",
	"dockerfile": "#",
	"terraform":  "#",

	// brace style
	"javascript": "//",
	"jsx":        "//",
	"typescript": "//",
	"ts":         "//",
	"tsx":        "//",
	"json":       "//",
	"c":          "//",
	"c++":        "//",
	"cpp":        "//",
	"go":         "//",
	"rust":       "//",
	"java":       "//",
	"kotlin":     "//",
	"swift":      "//",
	"scala":      "//",
	"c#":         "//",
	"dart":       "//",
}

// extensionTags maps a lower-case extension to the tags it implies, most
// specific first.
var extensionTags = map[string][]string{
	".py":     {"python"},
	".pyi":    {"pyi", "python"},
	".pyw":    {"python"},
	".pyx":    {"cython"},
	".pxd":    {"cython"},
	".yaml":   {"yaml"},
	".yml":    {"yaml"},
	".toml":   {"toml"},
	".sh":     {"shell"},
	".bash":   {"bash", "shell"},
	".zsh":    {"zsh", "shell"},
	".ksh":    {"ksh", "shell"},
	".mk":     {"makefile"},
	".js":     {"javascript"},
	".mjs":    {"javascript"},
	".cjs":    {"javascript"},
	".jsx":    {"jsx", "javascript"},
	".ts":     {"ts", "typescript"},
	".mts":    {"ts", "typescript"},
	".cts":    {"ts", "typescript"},
	".tsx":    {"tsx", "typescript"},
	".json":   {"json"},
	".c":      {"c"},
	".h":      {"header", "c"},
	".cpp":    {"c++"},
	".cc":     {"c++"},
	".cxx":    {"c++"},
	".hpp":    {"header", "c++"},
	".hh":     {"header", "c++"},
	".hxx":    {"header", "c++"},
	".go":     {"go"},
	".rs":     {"rust"},
	".java":   {"java"},
	".kt":     {"kotlin"},
	".kts":    {"kotlin"},
	".swift":  {"swift"},
	".scala":  {"scala"},
	".cs":     {"c#"},
	".dart":   {"dart"},
	".rb":     {"ruby"},
	".pl":     {"perl"},
	".pm":     {"perl"},
	".r":      {"r"},
	".cmake":  {"cmake"},
	".tf":     {"terraform"},
	".tfvars": {"terraform"},
}

// nameTags maps exact file names without a useful extension.
var nameTags = map[string][]string{
	"Makefile":       {"makefile"},
	"GNUmakefile":    {"makefile"},
	"makefile":       {"makefile"},
	"CMakeLists.txt": {"cmake"},
	"Dockerfile":     {"dockerfile"},
	"Containerfile":  {"dockerfile"},
	"Rakefile":       {"ruby"},
	"Gemfile":        {"ruby"},
	"Pipfile":        {"toml"},
	"BUILD":          {"python"},
	"WORKSPACE":      {"python"},
}

// directiveTags is checked in order against the base name of the directive's
// interpreter. "python" comes first, then the shells; a name matches when it
// starts with needle ("python3.11", "nodejs") or, for shells, ends with it
// ("bash", "zsh").
var directiveTags = []struct {
	needle string
	tag    string
}{
	{"python", "python"},
	{"sh", "shell"},
	{"node", "javascript"},
	{"ruby", "ruby"},
	{"perl", "perl"},
}

// PrefixFor returns the comment prefix of tag.
func PrefixFor(tag string) (string, bool) {
	p, ok := commentPrefixes[tag]
	return p, ok
}

// TagsFromName derives type tags from a file name alone.
func TagsFromName(path string) []string {
	base := filepath.Base(path)
	if tags, ok := nameTags[base]; ok {
		return tags
	}
	if strings.HasPrefix(base, "Dockerfile.") {
		return []string{"dockerfile"}
	}
	return extensionTags[strings.ToLower(filepath.Ext(base))]
}

// TagFromDirective returns the tag implied by an interpreter directive line,
// or "" when the line is not a directive or names no known interpreter.
func TagFromDirective(line string) string {
	name := interpreter(line)
	if name == "" {
		return ""
	}
	for _, d := range directiveTags {
		if strings.HasPrefix(name, d.needle) || (d.tag == "shell" && strings.HasSuffix(name, d.needle)) {
			return d.tag
		}
	}
	return ""
}

// interpreter returns the lower-cased base name of the program a directive
// runs, looking through "env" and its flags and assignments.
func interpreter(line string) string {
	rest, ok := strings.CutPrefix(strings.TrimPrefix(line, "\uFEFF"), "#!")
	if !ok {
		return ""
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	name := strings.ToLower(path.Base(filepath.ToSlash(fields[0])))
	if name != "env" {
		return name
	}
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "-") || strings.Contains(f, "=") {
			continue
		}
		return strings.ToLower(path.Base(f))
	}
	return ""
}
