package diag

import (
	"testing"

	"forma/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	userFile := fs.Add("/workspace/testdata/sample.json", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
				{Span: source.Span{File: 42}, Msg: "unknown file is skipped"},
			},
		},
		{
			Severity: SevWarning,
			Code:     FmtVerbatim,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
	}

	expected := "error SYN2001 testdata/sample.json:1:1 first line second\n" +
		"note SYN2001 testdata/sample.json:2:1 note line\n" +
		"warning FMT3001 testdata/sample.json:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	sp := source.Span{File: 0, Start: 5, End: 6}
	b.Add(New(SevWarning, FmtVerbatim, sp, "w"))
	b.Add(New(SevError, SynUnexpectedToken, source.Span{Start: 1, End: 2}, "e"))
	b.Add(New(SevWarning, FmtVerbatim, sp, "w again"))
	if b.Add(New(SevInfo, FmtInfo, sp, "over limit")) {
		t.Fatalf("bag must reject diagnostics above the limit")
	}
	if b.Dropped() != 1 {
		t.Fatalf("want 1 dropped got %d", b.Dropped())
	}
	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 || items[0].Code != SynUnexpectedToken {
		t.Fatalf("unexpected items %+v", items)
	}
	if !b.HasErrors() {
		t.Fatalf("expected errors")
	}
	b.Filter(SevError)
	if b.Len() != 1 {
		t.Fatalf("Filter kept %d", b.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		LexBadNumber:    "LEX1004",
		SynExpectColon:  "SYN2004",
		FmtNotFormatted: "FMT3003",
		IOReadFailed:    "IO4001",
		CfgOutOfRange:   "CFG5003",
		UnknownCode:     "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d: want %s got %s", code, want, got)
		}
	}
	if got := FmtNotFormatted.String(); got != "[FMT3003]: File is not formatted" {
		t.Fatalf("String() = %q", got)
	}
}
