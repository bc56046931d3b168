package jsonc

import (
	"forma/internal/source"
	"forma/internal/token"
)

// Node is implemented by every syntax node.
type Node interface {
	Span() source.Span
	node()
}

// Value is a node that can stand where a JSON value is expected.
type Value interface {
	Node
	value()
}

// Document is the root of one file.
type Document struct {
	File *source.File
	Root Value // nil for an empty file
	// Extra holds whatever followed the root value.
	Extra []*Bogus
	// EOF carries the trivia after the last token.
	EOF token.Token
}

func (d *Document) Span() source.Span { return d.File.Span() }

// Scalar is a string, number, true, false or null.
type Scalar struct {
	Tok token.Token
}

func (s *Scalar) Span() source.Span { return s.Tok.Span }

// Text is the literal exactly as written.
func (s *Scalar) Text() string { return s.Tok.Text }

// Kind is the token kind of the literal.
func (s *Scalar) Kind() token.Kind { return s.Tok.Kind }

// Object is `{ members }`.
type Object struct {
	Open, Close token.Token
	Members     []Node // *Member or *Bogus
	// Commas are the separators in source order.
	Commas []token.Token
	// TrailingComma is set when a comma follows the last member.
	TrailingComma bool
}

func (o *Object) Span() source.Span { return o.Open.Span.Cover(o.Close.Span) }

// NewlineAfterOpen reports whether the source broke the line between `{`
// and the first member.
func (o *Object) NewlineAfterOpen() bool {
	first := o.Close
	if len(o.Members) > 0 {
		first = firstToken(o.Members[0])
	}
	for _, tv := range first.Leading {
		if tv.Kind == token.TriviaNewline {
			return true
		}
	}
	return false
}

// Member is `"name": value`.
type Member struct {
	Name  *Scalar
	Colon token.Token
	Value Value
}

func (m *Member) Span() source.Span { return m.Name.Span().Cover(m.Value.Span()) }

// Array is `[ elements ]`.
type Array struct {
	Open, Close   token.Token
	Elements      []Value
	Commas        []token.Token
	TrailingComma bool
}

func (a *Array) Span() source.Span { return a.Open.Span.Cover(a.Close.Span) }

// Bogus is a region the parser could not make sense of: an unknown word in
// value position, a container with structural errors, a value nested too
// deep. Tokens lists what it swallowed, so comments inside stay reachable.
type Bogus struct {
	Tokens []token.Token
}

func (b *Bogus) Span() source.Span {
	if len(b.Tokens) == 0 {
		return source.Span{}
	}
	return b.Tokens[0].Span.Cover(b.Tokens[len(b.Tokens)-1].Span)
}

func (*Document) node() {}
func (*Scalar) node()   {}
func (*Object) node()   {}
func (*Member) node()   {}
func (*Array) node()    {}
func (*Bogus) node()    {}

func (*Scalar) value() {}
func (*Object) value() {}
func (*Array) value()  {}
func (*Bogus) value()  {}

// firstToken returns the first token of n; its Leading trivia is what
// precedes the node in the source.
func firstToken(n Node) token.Token {
	switch v := n.(type) {
	case *Scalar:
		return v.Tok
	case *Object:
		return v.Open
	case *Array:
		return v.Open
	case *Member:
		return v.Name.Tok
	case *Bogus:
		if len(v.Tokens) > 0 {
			return v.Tokens[0]
		}
	}
	return token.Token{}
}

// FirstToken is the token that starts n.
func FirstToken(n Node) token.Token { return firstToken(n) }

// LinesBefore counts the newlines between the previous token and n, up to
// n's first own-line comment. Comments still on the previous token's line
// are skipped: they belong to what came before.
func LinesBefore(n Node) int {
	lines := 0
	for _, tv := range firstToken(n).Leading {
		if tv.IsComment() && lines > 0 {
			break
		}
		if tv.Kind == token.TriviaNewline {
			lines += len(tv.Text)
		}
	}
	return lines
}
