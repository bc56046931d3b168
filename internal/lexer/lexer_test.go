package lexer_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"forma/internal/diag"
	"forma/internal/lexer"
	"forma/internal/source"
	"forma/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, len(r.diagnostics))
	for i, d := range r.diagnostics {
		out[i] = d.Code
	}
	return out
}

func makeTestLexer(input string, comments bool) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.jsonc", []byte(input)))
	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter, AllowComments: comments}), reporter
}

func collect(lx *lexer.Lexer) []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func kindsAndTexts(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = fmt.Sprintf("%v %s", tok.Kind, tok.Text)
	}
	return out
}

func TestLexStructure(t *testing.T) {
	lx, rep := makeTestLexer(`{"a": [1, -2.5e3, true, false, null]}`, false)
	want := []string{
		"'{' {", `String "a"`, "':' :", "'[' [",
		"Number 1", "',' ,", "Number -2.5e3", "',' ,",
		"true true", "',' ,", "false false", "',' ,", "null null",
		"']' ]", "'}' }", "EOF ",
	}
	if diff := cmp.Diff(want, kindsAndTexts(collect(lx))); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
}

func TestSpansCoverText(t *testing.T) {
	input := "[ \"x\" ,\n\t42 ]"
	lx, _ := makeTestLexer(input, false)
	for _, tok := range collect(lx) {
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span %v covers %q, text is %q", tok.Span, got, tok.Text)
		}
	}
}

func TestTriviaIsAttachedToNextToken(t *testing.T) {
	lx, rep := makeTestLexer("[1, // one\n\n  /* two */ 2]\n// tail\n", true)
	tokens := collect(lx)
	var two token.Token
	for _, tok := range tokens {
		if tok.Text == "2" {
			two = tok
		}
	}
	var kinds []token.TriviaKind
	for _, tv := range two.Leading {
		kinds = append(kinds, tv.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline,
		token.TriviaSpace, token.TriviaBlockComment, token.TriviaSpace,
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("trivia (-want +got):\n%s", diff)
	}
	eof := tokens[len(tokens)-1]
	if c := eof.Comments(); len(c) != 1 || c[0].Text != "// tail" {
		t.Fatalf("trailing comment must ride on EOF, got %+v", eof.Leading)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("comments are allowed, got %v", rep.codes())
	}
}

func TestCommentsRejectedInStrictJSON(t *testing.T) {
	lx, rep := makeTestLexer("/* c */ 1", false)
	if tok := lx.Next(); tok.Kind != token.Number {
		t.Fatalf("want Number got %v", tok.Kind)
	}
	if diff := cmp.Diff([]diag.Code{diag.LexCommentNotAllowed}, rep.codes()); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		code  diag.Code
	}{
		{`"abc`, token.Invalid, diag.LexUnterminatedString},
		{"\"a\nb\"", token.Invalid, diag.LexUnterminatedString},
		{`"\q"`, token.String, diag.LexBadEscape},
		{`"\u12g4"`, token.String, diag.LexBadEscape},
		{"\"a\x01\"", token.String, diag.LexControlCharInString},
		{"012", token.Number, diag.LexBadNumber},
		{"1.", token.Number, diag.LexBadNumber},
		{"1e+", token.Number, diag.LexBadNumber},
		{"-", token.Number, diag.LexBadNumber},
		{"12ab", token.Number, diag.LexBadNumber},
		{"@", token.Invalid, diag.LexUnknownChar},
		{"/* open", token.EOF, diag.LexUnterminatedBlockComment},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, rep := makeTestLexer(tt.input, true)
			if tok := lx.Next(); tok.Kind != tt.kind {
				t.Fatalf("want %v got %v", tt.kind, tok.Kind)
			}
			codes := rep.codes()
			if len(codes) == 0 || codes[0] != tt.code {
				t.Fatalf("want %v got %v", tt.code.ID(), codes)
			}
		})
	}
}

func TestBareWordsAreIdents(t *testing.T) {
	lx, _ := makeTestLexer("True nulls $ref", false)
	for _, want := range []string{"True", "nulls", "$ref"} {
		tok := lx.Next()
		if tok.Kind != token.Ident || tok.Text != want {
			t.Fatalf("want Ident %q got %v %q", want, tok.Kind, tok.Text)
		}
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("[]", false)
	if lx.Peek().Kind != token.LBracket || lx.Peek().Kind != token.LBracket {
		t.Fatalf("Peek must be stable")
	}
	if lx.Next().Kind != token.LBracket || lx.Next().Kind != token.RBracket {
		t.Fatalf("Next after Peek must return the buffered token")
	}
}
