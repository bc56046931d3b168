package jsonc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"forma/internal/diag"
	"forma/internal/source"
)

func parse(t *testing.T, input string, opts Options) (*Document, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.jsonc", []byte(input)))
	bag := diag.NewBag(64)
	opts.Reporter = &diag.BagReporter{Bag: bag}
	return Parse(file, opts).Doc, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// shape renders the tree compactly: objects as {k:v}, arrays as [..],
// bogus regions as !text!.
func shape(n Node) string {
	switch v := n.(type) {
	case nil:
		return "<nil>"
	case *Scalar:
		return v.Text()
	case *Object:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = shape(m)
		}
		return "{" + strings.Join(parts, ",") + "}"
	case *Member:
		return v.Name.Text() + ":" + shape(v.Value)
	case *Array:
		parts := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			parts[i] = shape(el)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *Bogus:
		texts := make([]string, len(v.Tokens))
		for i, tok := range v.Tokens {
			texts[i] = tok.Text
		}
		return "!" + strings.Join(texts, "") + "!"
	}
	return "?"
}

func TestParseValid(t *testing.T) {
	doc, bag := parse(t, `{"a": [1, {"b": null}], "c": "x"}`, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	want := `{"a":[1,{"b":null}],"c":"x"}`
	if got := shape(doc.Root); got != want {
		t.Fatalf("want %s got %s", want, got)
	}
}

func TestEmptyDocument(t *testing.T) {
	doc, bag := parse(t, "  // nothing\n", Options{AllowComments: true})
	if doc.Root != nil || bag.Len() != 0 {
		t.Fatalf("want empty document, got %s (%s)", shape(doc.Root), diagnosticsSummary(bag))
	}
	if len(doc.EOF.Comments()) != 1 {
		t.Fatalf("comment must stay on EOF")
	}
}

func TestTrailingCommas(t *testing.T) {
	doc, bag := parse(t, `[1, 2,]`, Options{AllowTrailingCommas: true})
	arr := doc.Root.(*Array)
	if !arr.TrailingComma || len(arr.Commas) != 2 || bag.Len() != 0 {
		t.Fatalf("trailing comma: %+v %s", arr, diagnosticsSummary(bag))
	}

	_, bag = parse(t, `{"a": 1,}`, Options{})
	if got := diagnosticsSummary(bag); !strings.Contains(got, "SYN2010") {
		t.Fatalf("want SYN2010, got %s", got)
	}
	fixes := bag.Items()[0].Fixes
	if len(fixes) != 1 || len(fixes[0].Edits) != 1 {
		t.Fatalf("want one removal fix, got %+v", fixes)
	}
	if e := fixes[0].Edits[0]; e.NewText != "" || e.Span.Start != 7 || e.Span.End != 8 {
		t.Fatalf("fix must delete the comma, got %+v", e)
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		input string
		want  string
		codes []diag.Code
	}{
		{`{"a": undefined}`, `{"a":!undefined!}`, []diag.Code{diag.SynExpectValue}},
		{`[1 2]`, `![12]!`, []diag.Code{diag.SynMissingComma}},
		{`[1,,2]`, `![1,,2]!`, []diag.Code{diag.SynExpectValue}},
		{`{"a" 1}`, `!{"a"1}!`, []diag.Code{diag.SynExpectColon}},
		{`{a: 1}`, `!{a:1}!`, []diag.Code{diag.SynExpectPropertyName}},
		{`[{"a": 1]`, `[!{"a":1!]`, []diag.Code{diag.SynUnclosedBrace}},
		{`[1, [2, {"x": bad}]]`, `[1,[2,{"x":!bad!}]]`, []diag.Code{diag.SynExpectValue}},
		{`{"a": 1} 2`, `{"a":1}`, []diag.Code{diag.SynTrailingContent}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			doc, bag := parse(t, tt.input, Options{})
			if got := shape(doc.Root); got != tt.want {
				t.Fatalf("want %s got %s", tt.want, got)
			}
			var codes []diag.Code
			for _, d := range bag.Items() {
				codes = append(codes, d.Code)
			}
			if diff := cmp.Diff(tt.codes, codes); diff != "" {
				t.Fatalf("codes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnclosedRoot(t *testing.T) {
	doc, bag := parse(t, `{"a": [1, 2`, Options{})
	if _, ok := doc.Root.(*Bogus); !ok {
		t.Fatalf("want bogus root, got %s", shape(doc.Root))
	}
	if !bag.HasErrors() {
		t.Fatalf("want errors")
	}
	if got := doc.Root.Span(); got.Start != 0 || got.End != 11 {
		t.Fatalf("bogus must cover the whole input, got %v", got)
	}
}

func TestNestingLimit(t *testing.T) {
	input := strings.Repeat("[", 5) + strings.Repeat("]", 5)
	doc, bag := parse(t, input, Options{MaxDepth: 3})
	if got := shape(doc.Root); got != "[[[![[]]!]]]" {
		t.Fatalf("got %s", got)
	}
	if got := diagnosticsSummary(bag); !strings.HasPrefix(got, "[SYN2009]") {
		t.Fatalf("want SYN2009, got %s", got)
	}
}

func TestDeepNestingWithinDefaultLimit(t *testing.T) {
	input := strings.Repeat("[", DefaultMaxDepth) + strings.Repeat("]", DefaultMaxDepth)
	doc, bag := parse(t, input, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	depth := 0
	for v := doc.Root; v != nil; depth++ {
		arr, ok := v.(*Array)
		if !ok {
			t.Fatalf("depth %d: want array", depth)
		}
		if len(arr.Elements) == 0 {
			v = nil
		} else {
			v = arr.Elements[0]
		}
	}
	if depth != DefaultMaxDepth {
		t.Fatalf("want depth %d got %d", DefaultMaxDepth, depth)
	}
}

func TestLinesBeforeAndNewlineAfterOpen(t *testing.T) {
	doc, _ := parse(t, "{\n  \"a\": 1,\n\n\n  // c\n  \"b\": 2 }", Options{AllowComments: true})
	obj := doc.Root.(*Object)
	if !obj.NewlineAfterOpen() {
		t.Fatalf("want newline after open")
	}
	if got := LinesBefore(obj.Members[1]); got != 3 {
		t.Fatalf("want 3 lines before \"b\" comments, got %d", got)
	}

	doc, _ = parse(t, "[1, // one\n\n  2]", Options{AllowComments: true})
	if got := LinesBefore(doc.Root.(*Array).Elements[1]); got != 2 {
		t.Fatalf("want 2 lines after a same-line comment, got %d", got)
	}

	doc, _ = parse(t, `{"a": 1}`, Options{})
	if doc.Root.(*Object).NewlineAfterOpen() {
		t.Fatalf("single-line object must not report a newline")
	}
}

func TestCovering(t *testing.T) {
	input := `{"a": [1, {"b": true}]}`
	doc, _ := parse(t, input, Options{})
	at := strings.Index(input, "true")
	span := source.Span{File: doc.File.ID, Start: uint32(at), End: uint32(at + 2)}
	node, path := Covering(doc, span)
	if got := shape(node); got != "true" {
		t.Fatalf("want true got %s", got)
	}
	if len(path) != 5 {
		t.Fatalf("want 5 ancestors got %d", len(path))
	}
}

func TestForPath(t *testing.T) {
	if o := ForPath("tsconfig.jsonc"); !o.AllowComments || !o.AllowTrailingCommas {
		t.Fatalf(".jsonc must allow comments and trailing commas")
	}
	if o := ForPath("package.json"); o.AllowComments || o.AllowTrailingCommas {
		t.Fatalf(".json must be strict")
	}
}
