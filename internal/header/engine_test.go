package header

import (
	"strings"
	"testing"
)

func TestEnsure(t *testing.T) {
	hash := Prefix("#")
	slashes := Prefix("//")

	tests := []struct {
		name        string
		tmpl        Template
		rel         string
		eol         string
		input       string
		wantChanged bool
		want        string
	}{
		{
			name:        "empty file",
			tmpl:        hash,
			rel:         "empty.py",
			eol:         "\n",
			input:       "",
			wantChanged: true,
			want:        "# empty.py\n",
		},
		{
			name:        "header already present",
			tmpl:        hash,
			rel:         "pkg/mod.py",
			eol:         "\n",
			input:       "# pkg/mod.py\nimport os\n",
			wantChanged: false,
			want:        "# pkg/mod.py\nimport os\n",
		},
		{
			name:        "missing header pushes first line down",
			tmpl:        hash,
			rel:         "pkg/mod.py",
			eol:         "\n",
			input:       "import os\n",
			wantChanged: true,
			want:        "# pkg/mod.py\nimport os\n",
		},
		{
			name:        "wrong header is kept below the new one",
			tmpl:        hash,
			rel:         "new/mod.py",
			eol:         "\n",
			input:       "# old/mod.py\nimport os\n",
			wantChanged: true,
			want:        "# new/mod.py\n# old/mod.py\nimport os\n",
		},
		{
			name:        "crlf file",
			tmpl:        hash,
			rel:         "f.py",
			eol:         "\r\n",
			input:       "a\r\nb\r\n",
			wantChanged: true,
			want:        "# f.py\r\na\r\nb\r\n",
		},
		{
			name:        "header without trailing newline",
			tmpl:        hash,
			rel:         "f.py",
			eol:         "\n",
			input:       "# f.py",
			wantChanged: true,
			want:        "# f.py\n",
		},
		{
			name:        "no trailing newline on content",
			tmpl:        slashes,
			rel:         "src/app.js",
			eol:         "\n",
			input:       "console.log(1)",
			wantChanged: true,
			want:        "// src/app.js\nconsole.log(1)",
		},
		{
			name:        "directive with code on line two",
			tmpl:        hash,
			rel:         "script.py",
			eol:         "\n",
			input:       "#!/bin/sh\necho hi\n",
			wantChanged: true,
			want:        "#!/bin/sh\n# script.py\necho hi\n",
		},
		{
			name:        "directive with stale header",
			tmpl:        hash,
			rel:         "bin/run.sh",
			eol:         "\n",
			input:       "#!/bin/bash\n# scripts/run.sh\nset -e\n",
			wantChanged: true,
			want:        "#!/bin/bash\n# bin/run.sh\nset -e\n",
		},
		{
			name:        "directive with URL comment on line two",
			tmpl:        hash,
			rel:         "bin/deploy.sh",
			eol:         "\n",
			input:       "#!/bin/sh\n# https://example.com/docs/deploy.html\nset -e\n",
			wantChanged: true,
			want:        "#!/bin/sh\n# bin/deploy.sh\n# https://example.com/docs/deploy.html\nset -e\n",
		},
		{
			name:        "directive with path comment naming another file",
			tmpl:        hash,
			rel:         "bin/deploy.sh",
			eol:         "\n",
			input:       "#!/bin/sh\n# lib/common.sh\n. lib/common.sh\n",
			wantChanged: true,
			want:        "#!/bin/sh\n# bin/deploy.sh\n# lib/common.sh\n. lib/common.sh\n",
		},
		{
			name:        "directive with comment that is not a header",
			tmpl:        hash,
			rel:         "tool.py",
			eol:         "\n",
			input:       "#!/usr/bin/env python\n# -*- coding: utf-8 -*-\nprint(1)\n",
			wantChanged: true,
			want:        "#!/usr/bin/env python\n# tool.py\n# -*- coding: utf-8 -*-\nprint(1)\n",
		},
		{
			name:        "directive with header present",
			tmpl:        hash,
			rel:         "tool.py",
			eol:         "\n",
			input:       "#!/usr/bin/env python\n# tool.py\nprint(1)\n",
			wantChanged: false,
			want:        "#!/usr/bin/env python\n# tool.py\nprint(1)\n",
		},
		{
			name:        "directive only",
			tmpl:        hash,
			rel:         "run.sh",
			eol:         "\n",
			input:       "#!/bin/sh",
			wantChanged: true,
			want:        "#!/bin/sh\n# run.sh\n",
		},
		{
			name:        "directive crlf",
			tmpl:        hash,
			rel:         "run.sh",
			eol:         "\r\n",
			input:       "#!/bin/sh\r\necho hi\r\n",
			wantChanged: true,
			want:        "#!/bin/sh\r\n# run.sh\r\necho hi\r\n",
		},
		{
			name:        "custom template",
			tmpl:        Custom("/* {_path_} */"),
			rel:         "lib/a.css",
			eol:         "\n",
			input:       "body {}\n",
			wantChanged: true,
			want:        "/* lib/a.css */\nbody {}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.tmpl.For(tt.rel)
			changed, got := Ensure(tt.input, h, tt.eol)
			if changed != tt.wantChanged {
				t.Errorf("Ensure() changed = %v, want %v", changed, tt.wantChanged)
			}
			if got != tt.want {
				t.Errorf("Ensure() = %q, want %q", got, tt.want)
			}
			if Check(tt.input, h, tt.eol) != tt.wantChanged {
				t.Errorf("Check() = %v, want %v", !tt.wantChanged, tt.wantChanged)
			}
		})
	}
}

func TestEnsureIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"x = 1\n",
		"# other.py\n",
		"#!/bin/sh\n",
		"#!/bin/sh\necho hi\n",
		"#!/bin/sh\n# stale/path.sh\necho hi\n",
		"line one\r\nline two\r\n",
		"no newline at all",
		"\n\n\n",
	}
	h := Prefix("#").For("dir/file.py")

	for _, input := range inputs {
		eol := "\n"
		if strings.Contains(input, "\r\n") {
			eol = "\r\n"
		}
		_, once := Ensure(input, h, eol)
		changed, twice := Ensure(once, h, eol)
		if changed {
			t.Errorf("second Ensure(%q) reported a change: %q -> %q", input, once, twice)
		}
		if Check(once, h, eol) {
			t.Errorf("Check after Ensure(%q) still wants a change", input)
		}
	}
}

func TestEnsurePreservesContent(t *testing.T) {
	h := Prefix("//").For("src/main.c")
	inputs := []string{
		"int main(void) {\n\treturn 0;\n}\n",
		"mixed\r\nendings\nhere\r\n",
		"   leading spaces\n",
	}

	for _, input := range inputs {
		changed, got := Ensure(input, h, "\n")
		if !changed {
			t.Fatalf("Ensure(%q) reported no change", input)
		}
		if !strings.HasSuffix(got, input) {
			t.Errorf("Ensure(%q) = %q, original content not preserved", input, got)
		}
		if got[:len(got)-len(input)] != "// src/main.c\n" {
			t.Errorf("Ensure(%q) prefix = %q", input, got[:len(got)-len(input)])
		}
	}
}

func TestRemove(t *testing.T) {
	h := Prefix("#").For("a/b.py")

	tests := []struct {
		name        string
		input       string
		wantChanged bool
		want        string
	}{
		{"expected header", "# a/b.py\nx = 1\n", true, "x = 1\n"},
		{"stale header", "# old/b.py\nx = 1\n", true, "x = 1\n"},
		{"no header", "x = 1\n", false, "x = 1\n"},
		{"ordinary comment", "# just a note\nx = 1\n", false, "# just a note\nx = 1\n"},
		{"url comment", "# https://example.com/LICENSE.txt\nx = 1\n", false, "# https://example.com/LICENSE.txt\nx = 1\n"},
		{"url after directive", "#!/bin/sh\n# https://example.com/b.py\nx = 1\n", false, "#!/bin/sh\n# https://example.com/b.py\nx = 1\n"},
		{"absolute path", "# /etc/b.py\nx = 1\n", false, "# /etc/b.py\nx = 1\n"},
		{"parent path", "# ../b.py\nx = 1\n", false, "# ../b.py\nx = 1\n"},
		{"other file name", "# lib/util.py\nx = 1\n", false, "# lib/util.py\nx = 1\n"},
		{"after directive", "#!/usr/bin/env python\n# a/b.py\nx = 1\n", true, "#!/usr/bin/env python\nx = 1\n"},
		{"directive without header", "#!/usr/bin/env python\nx = 1\n", false, "#!/usr/bin/env python\nx = 1\n"},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, got := Remove(tt.input, h)
			if changed != tt.wantChanged {
				t.Errorf("Remove() changed = %v, want %v", changed, tt.wantChanged)
			}
			if got != tt.want {
				t.Errorf("Remove() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveUndoesEnsure(t *testing.T) {
	h := Prefix("#").For("pkg/x.py")
	original := "import sys\nprint(sys.argv)\n"

	_, withHeader := Ensure(original, h, "\n")
	changed, got := Remove(withHeader, h)
	if !changed {
		t.Fatal("Remove() reported no change")
	}
	if got != original {
		t.Errorf("Remove(Ensure(x)) = %q, want %q", got, original)
	}
}
