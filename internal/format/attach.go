package format

import (
	"forma/internal/comments"
	"forma/internal/jsonc"
	"forma/internal/source"
	"forma/internal/token"
)

type attacher struct {
	file *source.File
	b    *comments.Builder
}

// attach walks the document in source order and places every comment the
// lexer kept as trivia.
func attach(d *jsonc.Document) *comments.Table {
	a := attacher{file: d.File, b: comments.NewBuilder()}
	whole := d.Span()
	var prev source.Span
	if d.Root != nil {
		a.region(jsonc.FirstToken(d.Root), comments.Neighbours{Following: d.Root.Span(), Enclosing: whole}, false)
		a.walk(d.Root)
		prev = d.Root.Span()
	}
	for _, extra := range d.Extra {
		a.region(jsonc.FirstToken(extra), comments.Neighbours{Preceding: prev, Following: extra.Span(), Enclosing: whole}, true)
		a.walk(extra)
		prev = extra.Span()
	}
	a.region(d.EOF, comments.Neighbours{Preceding: prev, Enclosing: whole}, false)
	return a.b.Finish()
}

func commentKind(k token.TriviaKind) comments.Kind {
	if k == token.TriviaLineComment {
		return comments.KindLine
	}
	return comments.KindBlock
}

// region places the comments in the leading trivia of tok. After a
// separator, a block comment with code on both sides on the same line
// belongs to the node that follows it.
func (a *attacher) region(tok token.Token, n comments.Neighbours, afterSep bool) {
	for _, tv := range tok.Leading {
		if !tv.IsComment() {
			continue
		}
		c := comments.FromSource(a.file, tv.Span, commentKind(tv.Kind))
		nn := n
		if afterSep && c.LinesBefore == 0 && c.LinesAfter == 0 && !c.IsLine() {
			nn.Preceding = source.Span{}
		}
		a.b.Place(c, nn)
	}
}

func (a *attacher) walk(n jsonc.Node) {
	switch v := n.(type) {
	case *jsonc.Object:
		a.list(v.Span(), v.Members, v.Commas, v.Close)
	case *jsonc.Array:
		items := make([]jsonc.Node, len(v.Elements))
		for i, el := range v.Elements {
			items[i] = el
		}
		a.list(v.Span(), items, v.Commas, v.Close)
	case *jsonc.Member:
		enc := v.Span()
		a.region(v.Colon, comments.Neighbours{Preceding: v.Name.Span(), Following: v.Value.Span(), Enclosing: enc}, false)
		a.region(jsonc.FirstToken(v.Value), comments.Neighbours{Following: v.Value.Span(), Enclosing: enc}, false)
		a.walk(v.Value)
	case *jsonc.Bogus:
		// внутри bogus всё уходит как есть
		span := v.Span()
		for _, tok := range v.Tokens[min(1, len(v.Tokens)):] {
			for _, tv := range tok.Leading {
				if tv.IsComment() {
					a.b.Attach(comments.FromSource(a.file, tv.Span, commentKind(tv.Kind)), comments.Dangling, span)
				}
			}
		}
	}
}

// list handles the members of an object or the elements of an array,
// interleaving items and commas so placements stay in source order.
func (a *attacher) list(enc source.Span, items []jsonc.Node, commas []token.Token, closing token.Token) {
	var prev source.Span
	for i, it := range items {
		a.region(jsonc.FirstToken(it), comments.Neighbours{Preceding: prev, Following: it.Span(), Enclosing: enc}, i > 0)
		a.walk(it)
		prev = it.Span()
		if i < len(commas) {
			a.region(commas[i], comments.Neighbours{Preceding: prev, Enclosing: enc}, false)
		}
	}
	a.region(closing, comments.Neighbours{Preceding: prev, Enclosing: enc}, false)
}
