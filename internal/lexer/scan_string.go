package lexer

import (
	"forma/internal/diag"
	"forma/internal/token"
)

// "..." с escape \" \\ \/ \b \f \n \r \t \uXXXX. Ошибки репортим, но токен
// остаётся String, чтобы форматтер сохранил текст как есть. Перевод строки
// или EOF до закрывающей кавычки дают Invalid.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			return lx.emit(token.String, start)
		case b == '\\':
			lx.scanEscape()
		case b == '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedString, tok.Span, "missing closing quote")
			return tok
		case b < 0x20:
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.errLex(diag.LexControlCharInString, lx.cursor.SpanFrom(esc), "control character must be escaped")
		default:
			lx.bumpRune()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func (lx *Lexer) scanEscape() {
	esc := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	switch lx.cursor.Peek() {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		lx.cursor.Bump()
	case 'u':
		lx.cursor.Bump()
		for range 4 {
			if !isHex(lx.cursor.Peek()) {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), "invalid unicode escape")
				return
			}
			lx.cursor.Bump()
		}
	case '\n', 0:
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), "invalid escape sequence")
	default:
		lx.bumpRune()
		lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), "invalid escape sequence")
	}
}
