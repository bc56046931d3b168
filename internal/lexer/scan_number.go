package lexer

import (
	"forma/internal/diag"
	"forma/internal/token"
)

// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
// Неверные формы репортим и всё равно выдаём Number, чтобы текст сохранился.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	bad := ""

	lx.cursor.Eat('-')
	switch {
	case lx.cursor.Peek() == '0':
		lx.cursor.Bump()
		if isDec(lx.cursor.Peek()) {
			bad = "leading zeros are not allowed"
			lx.cursor.BumpWhile(isDec)
		}
	case isDec(lx.cursor.Peek()):
		lx.cursor.BumpWhile(isDec)
	default:
		bad = "expected digit after '-'"
	}

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		if lx.cursor.BumpWhile(isDec) == 0 && bad == "" {
			bad = "expected digit after '.'"
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if lx.cursor.BumpWhile(isDec) == 0 && bad == "" {
			bad = "expected digit in exponent"
		}
	}

	// хвост вроде 12abc съедаем целиком, чтобы не плодить ошибки
	if isWordContinueByte(lx.cursor.Peek()) {
		lx.cursor.BumpWhile(isWordContinueByte)
		if bad == "" {
			bad = "invalid number literal"
		}
	}

	tok := lx.emit(token.Number, start)
	if bad != "" {
		lx.errLex(diag.LexBadNumber, tok.Span, bad)
	}
	return tok
}
