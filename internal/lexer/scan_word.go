package lexer

import (
	"forma/internal/token"
)

const utf8RuneSelf = 0x80

// scanWord сканирует голое слово и проверяет через LookupKeyword.
// Всё, кроме true/false/null, становится Ident; ошибку выдаёт парсер.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isWordContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.peekRune()
		if !isWordRune(r) {
			break
		}
		lx.bumpRune()
	}
	if lx.cursor.Off == uint32(start) {
		return lx.scanPunct()
	}
	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
