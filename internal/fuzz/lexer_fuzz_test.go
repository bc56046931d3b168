package fuzztests

import (
	"testing"

	"forma/internal/diag"
	"forma/internal/lexer"
	"forma/internal/source"
	"forma/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.jsonc", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}, AllowComments: true})
		var prevEnd uint32
		for range len(input) + 2 {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start {
				t.Fatalf("token %v out of order (previous ended at %d)", tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
		t.Fatalf("lexer did not reach EOF on %d bytes", len(input))
	})
}
