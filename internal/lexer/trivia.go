package lexer

import (
	"forma/internal/diag"
	"forma/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ', '\t', '\r' коалесцируются в один TriviaSpace
// - последовательные '\n' коалесцируются в один TriviaNewline
// - //... до \n -> TriviaLineComment
// - /* ... */ -> TriviaBlockComment (без вложенности; если не закрыт - репорт и обрезаем на EOF)
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		switch b := lx.cursor.Peek(); {
		case isBlank(b):
			lx.cursor.BumpWhile(isBlank)
			lx.pushTrivia(token.TriviaSpace, start)
		case b == '\n':
			lx.cursor.BumpWhile(func(b byte) bool { return b == '\n' })
			lx.pushTrivia(token.TriviaNewline, start)
		case b == '/' && lx.scanComment():
		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// //... , /*...*/
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	kind := token.TriviaLineComment
	switch lx.cursor.PeekAt(1) {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.cursor.BumpWhile(func(b byte) bool { return b != '\n' })
	case '*':
		kind = token.TriviaBlockComment
		lx.cursor.Bump()
		lx.cursor.Bump()
		closed := false
		for !lx.cursor.EOF() {
			if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '*' && b1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
	default:
		// одиночный '/' не trivia - пусть сканируется как неизвестный символ
		return false
	}
	lx.pushTrivia(kind, start)
	if !lx.opts.AllowComments {
		lx.errLex(diag.LexCommentNotAllowed, lx.cursor.SpanFrom(start), "JSON standard does not allow comments")
	}
	return true
}
