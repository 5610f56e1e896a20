package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and captures both streams.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	rootCmd := NewRootCommand()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile creates rel under dir with content and returns its path.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func exitStatus(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestRunCommand_FixesFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "test.py", "print('hello')\n")

	out, _, err := executeCommand(t, "run", "--project-root", dir, file)
	require.NoError(t, err)

	assert.Equal(t, "# test.py\nprint('hello')\n", readFile(t, file))
	assert.Contains(t, out, "Updated "+file)

	// second run is a no-op
	out, _, err = executeCommand(t, "run", "--project-root", dir, file)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunCommand_CheckMode(t *testing.T) {
	dir := t.TempDir()
	stale := writeFile(t, dir, "stale.py", "x = 1\n")
	good := writeFile(t, dir, "good.py", "# good.py\nx = 1\n")

	out, _, err := executeCommand(t, "run", "--check", "--project-root", dir, stale, good)
	assert.Equal(t, 1, exitStatus(err))
	assert.Contains(t, out, "Would update "+stale)
	assert.NotContains(t, out, good)
	assert.Equal(t, "x = 1\n", readFile(t, stale), "check mode must not write")

	_, _, err = executeCommand(t, "run", "-c", "--project-root", dir, good)
	assert.NoError(t, err)
}

func TestRunCommand_NestedPath(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "src/utils/helpers/math.py", "def add(a, b): return a + b\n")

	_, _, err := executeCommand(t, "run", "--project-root", dir, file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(readFile(t, file), "# src/utils/helpers/math.py\n"))
}

func TestRunCommand_DirectiveAndCRLF(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "bin/tool", "#!/usr/bin/env python3\nprint(1)\n")
	crlf := writeFile(t, dir, "f.py", "a\r\nb\r\n")

	_, _, err := executeCommand(t, "run", "--project-root", dir, script, crlf)
	require.NoError(t, err)

	assert.Equal(t, "#!/usr/bin/env python3\n# bin/tool\nprint(1)\n", readFile(t, script))
	assert.Equal(t, "# f.py\r\na\r\nb\r\n", readFile(t, crlf))
}

func TestRunCommand_InvalidTargets(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"missing file", []string{"run", "--project-root", dir, filepath.Join(dir, "nope.py")}, "does not exist"},
		{"directory", []string{"run", "--project-root", dir, sub}, "is not a file"},
		{"missing root", []string{"run", "--project-root", filepath.Join(dir, "absent")}, "does not exist"},
		{"bad format", []string{"run", "--format", "xml", "--project-root", dir}, "invalid --format"},
		{"all with files", []string{"run", "--all", "--project-root", dir, sub}, "cannot be combined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestRunCommand_NoEligibleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "image.png", "fake image data")
	writeFile(t, dir, "README.md", "# README\n")

	out, _, err := executeCommand(t, "run", "--all", "--project-root", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No eligible files found")
}

func TestRunCommand_DiscoversProject(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.py", "x = 1\n")
	b := writeFile(t, dir, "sub/b.js", "let b;\n")
	vendored := writeFile(t, dir, "node_modules/x/index.js", "let x;\n")
	built := writeFile(t, dir, "dist/out.js", "let o;\n")
	minified := writeFile(t, dir, "web/app.min.js", "let m;\n")
	binary := filepath.Join(dir, "blob.py")
	require.NoError(t, os.WriteFile(binary, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d}, 0o644))

	out, _, err := executeCommand(t, "run", "--project-root", dir)
	require.NoError(t, err)

	assert.Equal(t, "# a.py\nx = 1\n", readFile(t, a))
	assert.Equal(t, "// sub/b.js\nlet b;\n", readFile(t, b))
	assert.Equal(t, "let x;\n", readFile(t, vendored))
	assert.Equal(t, "let o;\n", readFile(t, built))
	assert.Equal(t, "let m;\n", readFile(t, minified))
	assert.NotContains(t, readFile(t, binary), "blob.py")

	assert.Equal(t, "Updated a.py\nUpdated sub/b.js\n", out)
}

func TestRunCommand_VerboseSummary(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "test.py", "print('hello')\n")

	_, stderr, err := executeCommand(t, "run", "--verbose", "--project-root", dir, file)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Processing Summary")
	assert.Contains(t, stderr, "Total files")
}

func TestRunCommand_Quiet(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "test.py", "print('hello')\n")

	out, stderr, err := executeCommand(t, "run", "--verbose", "--quiet", "--project-root", dir, file)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "Processing Summary")
	assert.Contains(t, out, "Updated "+file)
}

func TestRunCommand_VerboseWarnsAboutSkipped(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.py", "x = 1\n")
	notes := writeFile(t, dir, "notes.txt", "hello\n")

	_, stderr, err := executeCommand(t, "run", "--verbose", "--project-root", dir, file, notes)
	require.NoError(t, err)
	assert.Contains(t, stderr, "1 file(s) skipped")
	assert.Contains(t, stderr, "1. "+notes)
	assert.Equal(t, "hello\n", readFile(t, notes))
}

func TestRunCommand_ProgressAndWorkers(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"file0.py", "file1.py", "file2.py", "file3.py", "file4.py"} {
		files = append(files, writeFile(t, dir, name, "print(0)\n"))
	}

	args := append([]string{"run", "--progress", "--workers", "2", "--project-root", dir}, files...)
	_, stderr, err := executeCommand(t, args...)
	require.NoError(t, err)

	assert.Contains(t, stderr, "5/5 (100%)")
	for i, f := range files {
		assert.True(t, strings.HasPrefix(readFile(t, f), "# "+filepath.Base(files[i])+"\n"))
	}
}

func TestRunCommand_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		config string
	}{
		{"wrong type", "pyproject.toml", "[tool.path-comment-hook]\nexclude_globs = 'not a list'\n"},
		{"malformed toml", "pyproject.toml", "invalid toml ["},
		{"invalid mode", ".path-comment.yaml", "default_mode: folder\n"},
		{"template without placeholder", ".path-comment.yaml", "custom_comment_map:\n  .py: \"# header\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.config)
			file := writeFile(t, dir, "a.py", "x = 1\n")

			_, stderr, err := executeCommand(t, "run", "--project-root", dir, file)
			assert.Equal(t, 1, exitStatus(err))
			assert.Contains(t, stderr, "Configuration Error")
			assert.Equal(t, "x = 1\n", readFile(t, file), "no file may be touched on config errors")
		})
	}
}

func TestRunCommand_CustomTemplateAndExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".path-comment.yaml", `exclude_globs:
  - "generated/**"
custom_comment_map:
  .py: "## {_path_} ##"
`)
	kept := writeFile(t, dir, "pkg/mod.py", "x = 1\n")
	skipped := writeFile(t, dir, "generated/gen.py", "x = 2\n")

	_, _, err := executeCommand(t, "run", "--project-root", dir, kept, skipped)
	require.NoError(t, err)

	assert.Equal(t, "## pkg/mod.py ##\nx = 1\n", readFile(t, kept))
	assert.Equal(t, "x = 2\n", readFile(t, skipped))
}

func TestRunCommand_ExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, t.TempDir(), "custom.yaml", "default_mode: verify\n")
	file := writeFile(t, dir, "a.py", "x = 1\n")

	out, _, err := executeCommand(t, "run", "--config", cfg, "--project-root", dir, file)
	assert.Equal(t, 1, exitStatus(err))
	assert.Contains(t, out, "Would update")

	_, stderr, err := executeCommand(t, "run", "--config", filepath.Join(dir, "missing.yaml"), "--project-root", dir, file)
	assert.Equal(t, 1, exitStatus(err))
	assert.Contains(t, stderr, "config file does not exist")
}

func TestRunCommand_Diff(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.py", "x = 1\n")

	out, _, err := executeCommand(t, "run", "-c", "--diff", "--project-root", dir, file)
	assert.Equal(t, 1, exitStatus(err))
	assert.Contains(t, out, "+# a.py")
	assert.Contains(t, out, "--- a/"+file)
}

func TestRunCommand_JSONReport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "x = 1\n")
	writeFile(t, dir, "b.py", "# b.py\n")

	out, _, err := executeCommand(t, "run", "--format", "json", "--project-root", dir)
	require.NoError(t, err)

	var doc struct {
		RunID string `json:"run_id"`
		Mode  string `json:"mode"`
		Stats struct {
			Total   int `json:"total"`
			OK      int `json:"ok"`
			Changed int `json:"changed"`
		} `json:"stats"`
		Files []struct {
			Path    string `json:"path"`
			Outcome string `json:"outcome"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, "apply", doc.Mode)
	assert.Equal(t, 2, doc.Stats.Total)
	assert.Equal(t, 1, doc.Stats.Changed)
	assert.Equal(t, 1, doc.Stats.OK)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "a.py", doc.Files[0].Path)
	assert.Equal(t, "CHANGED", doc.Files[0].Outcome)
}

func TestRunCommand_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "a.py", "x = 1\n")
	metricsPath := filepath.Join(t.TempDir(), "path_comment.prom")

	_, _, err := executeCommand(t, "run", "--metrics-file", metricsPath, "--project-root", dir, file)
	require.NoError(t, err)

	text := readFile(t, metricsPath)
	assert.Contains(t, text, `path_comment_files_total{mode="apply",outcome="CHANGED"} 1`)
	assert.Contains(t, text, "path_comment_workers 1")
}

func TestRootCommand(t *testing.T) {
	rootCmd := NewRootCommand()

	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "delete", "show-config", "watch"})

	out, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
