package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"forma/internal/diag"
	"forma/internal/source"
)

func decode(t *testing.T, buf *bytes.Buffer) DiagnosticsOutput {
	t.Helper()
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	return output
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("{\n\t\"a\": \"unterminated\n}")
	fileID := fs.AddVirtual("test.json", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 21},
		"Unterminated string literal",
	))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "LEX1002",
			Message:  "Unterminated string literal",
			Location: LocationJSON{
				File:      "test.json",
				StartByte: 8,
				EndByte:   21,
				StartLine: 2,
				StartCol:  7,
				EndLine:   2,
				EndCol:    20,
			},
		}},
	}
	if diff := cmp.Diff(want, decode(t, &buf)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestJSONWithNotesAndFixes проверяет JSON с заметками и исправлениями
func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.json", []byte(`[1, 2,]`))

	bag := diag.NewBag(10)
	comma := source.Span{File: fileID, Start: 5, End: 6}
	d := diag.New(diag.SevError, diag.SynTrailingComma, comma, "trailing comma is not allowed")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 1}, "array starts here")
	d = d.WithFix("remove comma", diag.FixEdit{Span: comma, NewText: ""})
	bag.Add(d)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	got := decode(t, &buf).Diagnostics[0]
	wantNotes := []NoteJSON{{Message: "array starts here", Location: LocationJSON{File: "test.json", StartByte: 0, EndByte: 1}}}
	if diff := cmp.Diff(wantNotes, got.Notes); diff != "" {
		t.Fatalf("notes mismatch (-want +got):\n%s", diff)
	}
	wantFixes := []FixJSON{{
		Title: "remove comma",
		Edits: []FixEditJSON{{
			Location: LocationJSON{File: "test.json", StartByte: 5, EndByte: 6},
			NewText:  "",
			OldText:  ",",
		}},
	}}
	if diff := cmp.Diff(wantFixes, got.Fixes); diff != "" {
		t.Fatalf("fixes mismatch (-want +got):\n%s", diff)
	}
}

// TestJSONWithoutPositions проверяет JSON без позиций строк/колонок
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.json", []byte("[1, 2]"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevInfo, diag.FmtVerbatim, source.Span{File: fileID, Start: 4, End: 5}, "region kept as written"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	loc := decode(t, &buf).Diagnostics[0].Location
	if loc.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", loc.StartLine)
	}
	if loc.StartByte != 4 {
		t.Errorf("Expected start_byte=4, got %d", loc.StartByte)
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.json", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "unknown character"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, Max: 3}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	output := decode(t, &buf)
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got count=%d len=%d", output.Count, len(output.Diagnostics))
	}
	if output.Dropped != 2 {
		t.Errorf("Expected dropped=2, got %d", output.Dropped)
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/src/main.json", []byte("test"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnknownChar, source.Span{File: fileID, Start: 0, End: 1}, "Error"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/main.json"},
		{"Relative", PathModeRelative, "src/main.json"},
		{"Basename", PathModeBasename, "main.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := JSON(&buf, bag, fs, JSONOpts{PathMode: tt.pathMode}); err != nil {
				t.Fatalf("JSON() error: %v", err)
			}
			if got := decode(t, &buf).Diagnostics[0].Location.File; got != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, got)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.json", []byte("{\"a\": 1 \"b\": 2}"))

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 7, End: 7}
	d := diag.New(diag.SevError, diag.SynMissingComma, insertSpan, "missing comma")
	d = d.WithFix("insert comma", diag.FixEdit{Span: insertSpan, NewText: ","})
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	edit := decode(t, &buf).Diagnostics[0].Fixes[0].Edits[0]
	if diff := cmp.Diff([]string{"{\"a\": 1 \"b\": 2}"}, edit.BeforeLines); diff != "" {
		t.Errorf("before lines (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"{\"a\": 1, \"b\": 2}"}, edit.AfterLines); diff != "" {
		t.Errorf("after lines (-want +got):\n%s", diff)
	}
}
