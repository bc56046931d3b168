package lexer

import (
	"forma/internal/diag"
	"forma/internal/source"
	"forma/internal/token"
)

// maxTokenLength bounds a single token; longer input is reported once and
// the rest of the file is skipped.
const maxTokenLength = 1 << 20

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being lexed.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF; trivia в конце файла достаётся EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	var tok token.Token
	switch ch := lx.cursor.Peek(); {
	case lx.cursor.EOF():
		tok = token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	case ch == '"':
		tok = lx.scanString()
	case ch == '-' || isDec(ch):
		tok = lx.scanNumber()
	case isWordStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanWord()
	default:
		tok = lx.scanPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + maxTokenLength}, "token is too long")
		lx.cursor.Off = lx.cursor.Limit
		tok.Kind = token.Invalid
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is the zero-length span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	switch lx.cursor.Peek() {
	case '{':
		lx.cursor.Bump()
		return lx.emit(token.LBrace, start)
	case '}':
		lx.cursor.Bump()
		return lx.emit(token.RBrace, start)
	case '[':
		lx.cursor.Bump()
		return lx.emit(token.LBracket, start)
	case ']':
		lx.cursor.Bump()
		return lx.emit(token.RBracket, start)
	case ':':
		lx.cursor.Bump()
		return lx.emit(token.Colon, start)
	case ',':
		lx.cursor.Bump()
		return lx.emit(token.Comma, start)
	}
	lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteChar(tok.Text))
	return tok
}
