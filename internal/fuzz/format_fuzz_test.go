package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"forma/internal/format"
	"forma/internal/jsonc"
	"forma/internal/project"
	"forma/internal/source"
	"forma/internal/testkit"
)

// formatTimeout is the maximum time allowed for one input; longer means a
// loop that does not make progress.
const formatTimeout = 5 * time.Second

func FuzzParserKeepsSpans(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.jsonc", input))
		res := jsonc.Parse(file, jsonc.ForPath(file.Path))
		if err := testkit.CheckSpanInvariants(res.Doc, file); err != nil {
			t.Fatalf("span invariants: %v\ninput: %q", err, input)
		}
	})
}

// FuzzFormatProperties checks that formatting terminates, keeps every
// significant piece of the input and is idempotent.
func FuzzFormatProperties(f *testing.F) {
	addCorpusSeeds(f)
	cfg := project.Default()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), formatTimeout)
		defer cancel()

		type outcome struct {
			code string
			err  error
			file *source.File
		}
		done := make(chan outcome, 1)
		go func() {
			fs := source.NewFileSet()
			file := fs.Get(fs.AddVirtual("fuzz.jsonc", input))
			out, _, err := format.FormatFile(file, format.Options{Config: cfg})
			done <- outcome{code: out.Code, err: err, file: file}
		}()

		var res outcome
		select {
		case res = <-done:
		case <-ctx.Done():
			t.Fatalf("format hang detected: took longer than %v\ninput (%d bytes): %q",
				formatTimeout, len(input), truncateForLog(input, 200))
		}
		if res.err != nil {
			if errors.Is(res.err, format.ErrParse) {
				return
			}
			t.Fatalf("format failed: %v\ninput: %q", res.err, input)
		}

		fs := source.NewFileSet()
		out := fs.Get(fs.AddVirtual("fuzz.jsonc", []byte(res.code)))
		if err := testkit.CheckContentPreserved(res.file, out); err != nil {
			t.Fatalf("%v\ninput: %q\noutput: %q", err, input, res.code)
		}
		again := func(code string) (string, error) {
			fs := source.NewFileSet()
			p, _, err := format.FormatFile(fs.Get(fs.AddVirtual("fuzz.jsonc", []byte(code))), format.Options{Config: cfg})
			return p.Code, err
		}
		if err := testkit.CheckIdempotent(res.code, again); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
