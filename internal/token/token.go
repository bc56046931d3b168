package token

import (
	"forma/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a scalar value.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case String, Number, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is structural punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Colon, Comma, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsValueStart reports whether a value can begin with this token.
func (t Token) IsValueStart() bool {
	return t.IsLiteral() || t.Kind == LBrace || t.Kind == LBracket
}

// Comments returns the comment trivia among Leading.
func (t Token) Comments() []Trivia {
	var out []Trivia
	for _, tv := range t.Leading {
		if tv.IsComment() {
			out = append(out, tv)
		}
	}
	return out
}

// NewlinesBefore counts the line breaks in the trivia right before the
// token, after its last comment.
func (t Token) NewlinesBefore() int {
	n := 0
	for i := len(t.Leading) - 1; i >= 0; i-- {
		tv := t.Leading[i]
		if tv.IsComment() {
			break
		}
		if tv.Kind == TriviaNewline {
			n += len(tv.Text)
		}
	}
	return n
}
