package lexer

import (
	"forma/internal/diag"
	"forma/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// AllowComments turns comment trivia into an error when false, as plain
	// JSON requires. Comments are still kept as trivia either way.
	AllowComments bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
