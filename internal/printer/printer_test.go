package printer

import (
	"errors"
	"strings"
	"testing"

	"forma/internal/doc"
)

func render(t *testing.T, el doc.Element, opt Options) string {
	t.Helper()
	out, err := Print(doc.New(el), opt)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	return out.Code
}

func spaces(width int) Options {
	return Options{LineWidth: width, IndentStyle: IndentSpace, IndentWidth: 2}
}

// numbers builds an array the way lowering does: the comma belongs to the
// item before it, the last item carries the trailing comma.
func numbers(items ...string) doc.Element {
	const id doc.GroupID = 1
	elems := make([]doc.Element, len(items))
	for i, s := range items {
		comma := doc.Str(",")
		if i == len(items)-1 {
			comma = doc.IfBreaks(id, doc.Str(","))
		}
		elems[i] = doc.Concat(doc.Str(s), comma)
	}
	return doc.GroupWithID(id,
		doc.Str("["),
		doc.Indented(
			doc.SoftLine,
			doc.NewFill(doc.SoftLineOrSpace, elems...),
		),
		doc.SoftLine,
		doc.Str("]"),
	)
}

func TestFillFitsFlat(t *testing.T) {
	if got := render(t, numbers("1", "2", "3"), spaces(80)); got != "[1, 2, 3]" {
		t.Fatalf("want %q got %q", "[1, 2, 3]", got)
	}
}

func TestFillBreaksEveryItemWhenNarrow(t *testing.T) {
	want := "[\n  1,\n  2,\n  3,\n]"
	if got := render(t, numbers("1", "2", "3"), spaces(5)); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestFillPacksGreedily(t *testing.T) {
	want := "[\n  1, 2, 3,\n  4, 5, 6,\n  7, 8, 9,\n]"
	got := render(t, numbers("1", "2", "3", "4", "5", "6", "7", "8", "9"), spaces(10))
	if got != want {
		t.Fatalf("want %q got %q", want, got)
	}
	for _, line := range strings.Split(got, "\n") {
		if ColumnWidth(line, 2) > 10 {
			t.Fatalf("line %q exceeds width", line)
		}
	}
}

func TestFillNeverOverflows(t *testing.T) {
	var items []string
	for i := 1; i <= 40; i++ {
		items = append(items, strings.Repeat("7", 1+i%4))
	}
	for width := 7; width <= 40; width++ {
		got := render(t, numbers(items...), spaces(width))
		for _, line := range strings.Split(got, "\n") {
			if ColumnWidth(line, 2) > width {
				t.Fatalf("width %d: line %q is %d columns", width, line, ColumnWidth(line, 2))
			}
		}
	}
}

func TestFillCommaCountsTowardsWidth(t *testing.T) {
	want := "[\n  1, 2,\n  3, 4,\n  5, 6,\n]"
	if got := render(t, numbers("1", "2", "3", "4", "5", "6"), spaces(9)); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestLineSuffixFlushedBeforeHardLine(t *testing.T) {
	el := doc.Concat(
		doc.Str("x"),
		doc.Suffix(doc.Space{}, doc.Str("// comment")),
		doc.Str(";"),
		doc.Str("z"),
		doc.HardLine,
		doc.Str("w"),
	)
	want := "x;z // comment\nw"
	if got := render(t, el, spaces(80)); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}

func TestLineSuffixAtEndOfDocument(t *testing.T) {
	el := doc.Concat(doc.Str("x"), doc.Suffix(doc.Space{}, doc.Str("// c")))
	if got := render(t, el, spaces(80)); got != "x // c" {
		t.Fatalf("got %q", got)
	}
}

func TestLineSuffixBoundaryForcesNewline(t *testing.T) {
	el := doc.Concat(doc.Str("a"), doc.Suffix(doc.Str(" // c")), doc.LineSuffixBoundary{}, doc.Str("b"))
	if got := render(t, el, spaces(80)); got != "a // c\nb" {
		t.Fatalf("got %q", got)
	}
	// без отложенного суффикса граница ничего не печатает
	if got := render(t, doc.Concat(doc.Str("a"), doc.LineSuffixBoundary{}, doc.Str("b")), spaces(80)); got != "ab" {
		t.Fatalf("got %q", got)
	}
}

func TestVerbatimIsCopiedUnchanged(t *testing.T) {
	el := doc.NewGroup(doc.Str("("), doc.Verbatim{Text: "a  +   b"}, doc.Str(")"))
	out, err := Print(doc.New(el), spaces(3))
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if out.Code != "(a  +   b)" {
		t.Fatalf("got %q", out.Code)
	}
	if len(out.Verbatim) != 1 {
		t.Fatalf("verbatim ranges not recorded: %v", out.Verbatim)
	}
}

func TestEmptyLinesCollapse(t *testing.T) {
	el := doc.Concat(doc.Str("a"), doc.EmptyLine, doc.EmptyLine, doc.Str("b"))
	if got := render(t, el, spaces(80)); got != "a\n\nb" {
		t.Fatalf("want %q got %q", "a\n\nb", got)
	}
	el = doc.Concat(doc.Str("a"), doc.HardLine, doc.EmptyLine, doc.HardLine, doc.EmptyLine, doc.Str("b"))
	if got := render(t, el, spaces(80)); got != "a\n\n\nb" {
		t.Fatalf("hard lines are kept, got %q", got)
	}
	if got := render(t, doc.Concat(doc.EmptyLine, doc.Str("a")), spaces(80)); got != "a" {
		t.Fatalf("leading empty line must be dropped, got %q", got)
	}
}

func TestGroupExclusivity(t *testing.T) {
	el := doc.NewGroup(doc.Str("a"), doc.SoftLineOrSpace, doc.Str("b"), doc.SoftLineOrSpace, doc.Str("c"))
	if got := render(t, el, spaces(80)); got != "a b c" {
		t.Fatalf("flat: got %q", got)
	}
	if got := render(t, el, spaces(3)); got != "a\nb\nc" {
		t.Fatalf("broken: got %q", got)
	}
}

func TestMustBreakPropagates(t *testing.T) {
	inner := doc.NewGroup(doc.Str("x"), doc.HardLine, doc.Str("y"))
	outer := doc.NewGroup(doc.Str("["), doc.SoftLine, inner, doc.SoftLine, doc.Str("]"))
	d := doc.New(outer)
	if !d.MustBreak(inner) || !d.MustBreak(outer) {
		t.Fatalf("hard line must force both groups to break")
	}
	if got := render(t, outer, spaces(80)); got != "[\nx\ny\n]" {
		t.Fatalf("got %q", got)
	}

	// best fitting is a boundary
	bf := doc.NewBestFitting(doc.Str("a"), doc.Concat(doc.Str("b"), doc.ExpandParent{}))
	g := doc.NewGroup(bf)
	if doc.New(g).MustBreak(g) {
		t.Fatalf("expand inside best fitting must not reach the parent")
	}
}

func TestTrailingSpaceDropped(t *testing.T) {
	el := doc.Concat(doc.Str("a"), doc.Space{}, doc.HardLine, doc.Str("b"))
	if got := render(t, el, spaces(80)); got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestConditionalAndIndentIfGroupBreaks(t *testing.T) {
	ids := doc.NewIDs()
	id := ids.Next()
	el := doc.Concat(
		doc.GroupWithID(id, doc.Str("("), doc.SoftLine, doc.Str("x"), doc.Str(")")),
		doc.IfBreaks(id, doc.Str("!")),
		doc.IfFits(id, doc.Str("?")),
		doc.IndentIfBreaks(id, doc.HardLine, doc.Str("y")),
	)
	if got := render(t, el, spaces(80)); got != "(x)?\ny" {
		t.Fatalf("flat: got %q", got)
	}
	if got := render(t, el, spaces(2)); got != "(\nx)!\n  y" {
		t.Fatalf("broken: got %q", got)
	}
}

func TestBestFittingPicksFirstFittingVariant(t *testing.T) {
	build := func(middle string) doc.Element {
		return doc.NewBestFitting(
			doc.Str("flat-variant-long"),
			doc.Concat(doc.Str(middle), doc.HardLine, doc.Str("xxxxxxxxxxxxxxxxxxxxxxxx")),
			doc.Str("last"),
		)
	}
	cases := []struct {
		name   string
		middle string
		width  int
		want   string
	}{
		{"first fits", "mid", 20, "flat-variant-long"},
		{"middle fits its first line", "mid", 10, "mid\nxxxxxxxxxxxxxxxxxxxxxxxx"},
		{"fallback to last", "middle-too-wide", 10, "last"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := render(t, build(c.middle), spaces(c.width)); got != c.want {
				t.Fatalf("want %q got %q", c.want, got)
			}
		})
	}
}

func TestMalformedDocumentsAreRejected(t *testing.T) {
	cases := map[string]doc.Element{
		"single variant":  doc.NewBestFitting(doc.Str("a")),
		"unknown group":   doc.IfBreaks(7, doc.Str("a")),
		"negative align":  doc.Aligned(-1, doc.Str("a")),
		"fill without sep": &doc.Fill{Items: []doc.Element{doc.Str("a"), doc.Str("b")}},
	}
	for name, el := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Print(doc.New(el), spaces(80))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("want ErrMalformed, got %v", err)
			}
			if out.Code != "" {
				t.Fatalf("no partial output expected, got %q", out.Code)
			}
		})
	}
	shared := doc.NewGroup(doc.Str("a"))
	if _, err := Print(doc.New(doc.Concat(shared, shared)), spaces(80)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("shared group must be rejected, got %v", err)
	}
}

func TestDeepNestingDoesNotOverflow(t *testing.T) {
	const depth = 50000
	var el doc.Element = doc.Str("x")
	for range depth {
		el = doc.NewGroup(doc.Str("("), el, doc.Str(")"))
	}
	want := strings.Repeat("(", depth) + "x" + strings.Repeat(")", depth)
	if got := render(t, el, spaces(80)); got != want {
		t.Fatalf("unexpected output of length %d", len(got))
	}
}

func TestWideCharactersCountAsTwoColumns(t *testing.T) {
	el := doc.NewGroup(doc.Str("日本"), doc.SoftLineOrSpace, doc.Str("x"))
	if got := render(t, el, spaces(5)); got != "日本\nx" {
		t.Fatalf("width 5: got %q", got)
	}
	if got := render(t, el, spaces(6)); got != "日本 x" {
		t.Fatalf("width 6: got %q", got)
	}
}

func TestIndentStyleAndLineEnding(t *testing.T) {
	el := doc.Concat(doc.Str("{"), doc.Indented(doc.HardLine, doc.Str("a")), doc.HardLine, doc.Str("}"))
	if got := render(t, el, Options{}); got != "{\n\ta\n}" {
		t.Fatalf("tabs: got %q", got)
	}
	opt := spaces(80)
	opt.LineEnding = LineEndingCRLF
	if got := render(t, el, opt); got != "{\r\n  a\r\n}" {
		t.Fatalf("crlf: got %q", got)
	}
	aligned := doc.Concat(doc.Str("-"), doc.Aligned(2, doc.HardLine, doc.Str("b")))
	if got := render(t, aligned, Options{}); got != "-\n  b" {
		t.Fatalf("align: got %q", got)
	}
	dedented := doc.Indented(doc.Str("a"), doc.HardLine, doc.DedentToRoot(doc.Str("b"), doc.HardLine, doc.Str("c")))
	if got := render(t, dedented, spaces(80)); got != "a\n  b\nc" {
		t.Fatalf("dedent: got %q", got)
	}
}

func TestLeadPrecedesIndentation(t *testing.T) {
	el := doc.Concat(doc.Str("{"), doc.Indented(doc.HardLine, doc.Str("a")), doc.EmptyLine, doc.Str("}"))
	tests := []struct {
		lead string
		want string
	}{
		{"  ", "{\n    a\n\n  }"},
		{"\t", "{\n\t  a\n\n\t}"},
	}
	for _, tt := range tests {
		opt := spaces(80)
		opt.Lead = tt.lead
		opt.StartColumn = ColumnWidth(tt.lead, 2)
		if got := render(t, el, opt); got != tt.want {
			t.Fatalf("lead %q: want %q got %q", tt.lead, tt.want, got)
		}
	}
}

func TestTraceAnnotatesResolvedModes(t *testing.T) {
	opt := spaces(80)
	opt.Trace = true
	out, err := Print(doc.New(doc.NewGroup(doc.Str("a"), doc.SoftLine)), opt)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if want := `group(mode: flat, ["a", soft_line_break])`; out.IR != want {
		t.Fatalf("want %q got %q", want, out.IR)
	}
}

func TestPrintIsRepeatable(t *testing.T) {
	d := doc.New(numbers("1", "2", "3", "4"))
	first, err := Print(d, spaces(6))
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	second, _ := Print(d, spaces(6))
	if first.Code != second.Code {
		t.Fatalf("printing the same document twice differs: %q vs %q", first.Code, second.Code)
	}
}
