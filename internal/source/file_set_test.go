package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.json", []byte("{}"), 0)
	id2 := fs.Add("test.json", []byte("[]"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d %d", id1, id2)
	}
	latest, ok := fs.GetLatest("test.json")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v", latest, ok)
	}
	// старая версия остаётся доступной
	if string(fs.Get(id1).Content) != "{}" {
		t.Fatalf("first version lost")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.json", []byte("ab\ncd\n\nx"))
	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
	}
	for _, c := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: c.off, End: c.off})
		if start != c.want {
			t.Errorf("offset %d: want %+v got %+v", c.off, c.want, start)
		}
	}
}

func TestLineStartAndGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.json", []byte("{\n    \"a\": 1\n}")))
	if got := f.LineStart(8); got != 2 {
		t.Fatalf("LineStart want 2 got %d", got)
	}
	if got := f.GetLine(2); got != `    "a": 1` {
		t.Fatalf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Fatalf("GetLine past end = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		in    []byte
		want  string
		flags FileFlags
	}{
		{"plain", []byte("x\n"), "x\n", 0},
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n", FileNormalizedCRLF},
		{"lone cr kept", []byte("a\rb"), "a\rb", 0},
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'x'}, "x", FileHadBOM},
		{"utf16le", []byte{0xFF, 0xFE, '{', 0, '}', 0}, "{}", FileHadBOM | FileDecodedUTF16},
		{"utf16be", []byte{0xFE, 0xFF, 0, '[', 0, ']'}, "[]", FileHadBOM | FileDecodedUTF16},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, flags, err := Normalize(c.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != c.want || flags != c.flags {
				t.Fatalf("want %q/%b got %q/%b", c.want, c.flags, got, flags)
			}
		})
	}
}

func TestLoadNormalizesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	if err := os.WriteFile(path, []byte("{\r\n}\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "{\n}\n" || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("unexpected content %q flags %b", f.Content, f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
