package comments

import (
	"strings"

	"forma/internal/doc"
	"forma/internal/source"
)

func (c Comment) element() doc.Element {
	return doc.Str(c.Text)
}

// FormatLeading emits the leading comments of anchor, each followed by the
// separator the source had: a space for an inline block comment, a newline,
// or one blank line for longer runs.
func FormatLeading(t *Table, anchor source.Span) doc.Element {
	ps := t.get(anchor, Leading)
	if len(ps) == 0 {
		return nil
	}
	parts := make([]doc.Element, 0, 2*len(ps))
	for _, p := range ps {
		parts = append(parts, p.element())
		switch {
		case p.LinesAfter > 1:
			parts = append(parts, doc.EmptyLine)
		case p.LinesAfter == 1 || p.IsLine():
			parts = append(parts, doc.HardLine)
		default:
			parts = append(parts, doc.Space{})
		}
		p.formatted = true
	}
	return doc.Concat(parts...)
}

// FormatTrailing emits the trailing comments of anchor. A comment that
// started on its own line, and any line comment, goes through a line suffix
// and expands the enclosing group; an inline block comment stays in place.
func FormatTrailing(t *Table, anchor source.Span) doc.Element {
	ps := t.get(anchor, Trailing)
	if len(ps) == 0 {
		return nil
	}
	parts := make([]doc.Element, 0, 2*len(ps))
	linesBefore := 0
	var prev *placed
	for _, p := range ps {
		linesBefore += p.LinesBefore
		switch {
		case linesBefore > 0:
			var sep doc.Element
			switch {
			case p.LinesBefore > 1:
				sep = doc.EmptyLine
			case p.LinesBefore == 1 || (prev != nil && prev.IsLine()):
				sep = doc.HardLine
			default:
				sep = doc.Space{}
			}
			parts = append(parts, doc.Suffix(sep, p.element()), doc.ExpandParent{})
		case p.IsLine():
			parts = append(parts, doc.Suffix(doc.Space{}, p.element()), doc.ExpandParent{})
		default:
			parts = append(parts, doc.Space{}, p.element())
		}
		p.formatted = true
		prev = p
	}
	return doc.Concat(parts...)
}

// DanglingIndent selects how FormatDangling lays out its comments.
type DanglingIndent uint8

const (
	// DanglingNone emits the comments as they are.
	DanglingNone DanglingIndent = iota
	// DanglingBlock puts them on their own indented lines.
	DanglingBlock
	// DanglingSoft indents them only when they do not fit on one line.
	DanglingSoft
)

// FormatDangling emits the comments of a node without children, for
// example `{ /* empty */ }`.
func FormatDangling(t *Table, anchor source.Span, indent DanglingIndent) doc.Element {
	ps := t.get(anchor, Dangling)
	if len(ps) == 0 {
		return nil
	}
	parts := make([]doc.Element, 0, 2*len(ps))
	for i, p := range ps {
		if i > 0 {
			if p.LinesBefore > 1 {
				parts = append(parts, doc.EmptyLine)
			} else if p.LinesBefore == 1 || ps[i-1].IsLine() {
				parts = append(parts, doc.HardLine)
			} else {
				parts = append(parts, doc.Space{})
			}
		}
		parts = append(parts, p.element())
		p.formatted = true
	}
	last := ps[len(ps)-1]
	hasLine := false
	for _, p := range ps {
		hasLine = hasLine || p.IsLine() || strings.Contains(p.Text, "\n")
	}
	body := doc.Concat(parts...)
	switch indent {
	case DanglingBlock:
		return doc.BlockIndent(body)
	case DanglingSoft:
		g := doc.NewGroup(doc.SoftBlockIndent(body))
		g.ShouldBreak = hasLine
		return g
	}
	if last.IsLine() {
		return doc.Concat(body, doc.HardLine)
	}
	return body
}

// FormatNode wraps body with the leading and trailing comments of anchor.
func FormatNode(t *Table, anchor source.Span, body doc.Element) doc.Element {
	return doc.Concat(FormatLeading(t, anchor), body, FormatTrailing(t, anchor))
}
