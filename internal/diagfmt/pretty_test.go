package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"forma/internal/diag"
	"forma/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("{\"a\": \"unterminated\n}\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.json", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 6, End: 19},
		"Unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.json:1:7"},
		{"Relative path", PathModeRelative, "src/test.json:1:7"},
		{"Basename only", PathModeBasename, "test.json:1:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1002: Unterminated string literal") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "test.json", "test.json:"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.json", "\nfile.json:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			fileID := fs.AddVirtual(tt.path, []byte("[1, 2 3]\n"))

			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.SynMissingComma, source.Span{File: fileID, Start: 6, End: 7}, "missing comma"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := "\n" + buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("{\n\t\"a\": tru\n}\n")
	fileID := fs.AddVirtual("x.json", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.SynExpectValue, source.Span{File: fileID, Start: 8, End: 11}, "expected a value"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := "x.json:2:7: ERROR SYN2005: expected a value\n" +
		"1 | {\n" +
		"2 | \t\"a\": tru\n" +
		"  | \t     ^~~\n" +
		"3 | }\n"
	if got := buf.String(); got != want {
		t.Fatalf("want:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("[1, 2,]\n")
	fileID := fs.AddVirtual("test.json", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 5, End: 6}
	d := diag.New(diag.SevError, diag.SynTrailingComma, primary, "trailing comma is not allowed")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 1}, "array starts here")
	d = d.WithFix("remove comma", diag.FixEdit{Span: primary, NewText: ""})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	for _, want := range []string{
		"note: test.json:1:1: array starts here",
		"fix #1: remove comma",
		"edit 1:6-1:7 apply=\"\"",
		"      - [1, 2,]",
		"      + [1, 2]",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyReportsDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.json", []byte("xxxx"))
	bag := diag.NewBag(2)
	for i := range 4 {
		bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "unknown character"))
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "... 2 more diagnostics not shown") {
		t.Fatalf("expected dropped summary, got:\n%s", buf.String())
	}
}
