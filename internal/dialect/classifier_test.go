package dialect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/pathcomment/internal/fileio"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	c := New(nil)

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"python", "a.py", "import os\n", "# {_path_}"},
		{"yaml", "conf/app.yml", "key: value\n", "# {_path_}"},
		{"toml", "pyproject.toml", "[tool]\n", "# {_path_}"},
		{"makefile", "Makefile", "all:\n\techo\n", "# {_path_}"},
		{"javascript", "web/app.js", "console.log(1)\n", "// {_path_}"},
		{"typescript", "web/app.ts", "let x: number = 1\n", "// {_path_}"},
		{"json", "package.json", "{}\n", "// {_path_}"},
		{"c", "src/main.c", "int main(void) { return 0; }\n", "// {_path_}"},
		{"cpp", "src/main.cpp", "int main() {}\n", "// {_path_}"},
		{"directive overrides extension", "script.py", "#!/bin/sh\necho hi\n", "# {_path_}"},
		{"directive without extension", "bin/tool", "#!/usr/bin/env python3\nprint(1)\n", "# {_path_}"},
		{"node directive", "bin/cli", "#!/usr/bin/env node\nconsole.log(1)\n", "// {_path_}"},
		{"shell directive under a node path", "bin/admin", "#!/home/nodeadm/bin/bash\necho hi\n", "# {_path_}"},
		{"byte order mark before directive", "bin/bom-tool", "\xEF\xBB\xBF#!/bin/sh\necho hi\n", "# {_path_}"},
		{"empty file", "empty.py", "", "# {_path_}"},
		{"markdown", "README.md", "# Title\n", ""},
		{"unknown directive no extension", "bin/run", "#!/usr/bin/env lua\nprint(1)\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, dir, tt.file, []byte(tt.content))
			got, err := c.Classify(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestClassifyBinary(t *testing.T) {
	dir := t.TempDir()
	c := New(map[string]string{".py": "# {_path_}"})

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"png named as python", "image.py", pngMagic},
		{"png", "logo.png", pngMagic},
		{"pdf", "doc.js", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")},
		{"zip", "bundle.json", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")},
		{"gzip", "data.yaml", []byte{0x1f, 0x8b, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"control bytes", "blob.c", []byte{0x00, 0x01, 0x02, 0x03, 'a', 'b', 0x00, 0x10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, dir, tt.file, tt.data)
			got, err := c.Classify(path)
			require.NoError(t, err)
			assert.True(t, got.IsZero(), "binary file classified as %q", got.String())
		})
	}
}

func TestClassifyOverrides(t *testing.T) {
	dir := t.TempDir()
	c := New(map[string]string{
		"css":  "/* {_path_} */",
		".SQL": "-- {_path_}",
		".py":  "## {_path_}",
	})

	tests := []struct {
		file    string
		content string
		want    string
	}{
		{"site.css", "body {}\n", "/* {_path_} */"},
		{"q.sql", "select 1;\n", "-- {_path_}"},
		{"a.py", "x = 1\n", "## {_path_}"},
		{"b.js", "x\n", "// {_path_}"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := write(t, dir, tt.file, []byte(tt.content))
			got, err := c.Classify(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestClassifyMissingFile(t *testing.T) {
	c := New(nil)
	path := filepath.Join(t.TempDir(), "gone.py")

	_, err := c.Classify(path)
	require.Error(t, err)
	assert.True(t, fileio.IsNotFound(err))
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte("plain text\n")))
	assert.False(t, IsBinary([]byte("caf\xe9\n")))
	assert.True(t, IsBinary(pngMagic))
}
