package comments

import (
	"slices"

	"forma/internal/source"
)

// Placement is the position of a comment relative to its anchor node.
type Placement uint8

const (
	Leading Placement = iota
	Trailing
	Dangling
)

func (p Placement) String() string {
	switch p {
	case Leading:
		return "leading"
	case Trailing:
		return "trailing"
	case Dangling:
		return "dangling"
	}
	return "unknown"
}

// Neighbours describes where a comment sits in the tree. Preceding and
// Following are the closest sibling nodes, Enclosing is the innermost node
// containing the comment. A zero span means "no such node".
type Neighbours struct {
	Preceding source.Span
	Following source.Span
	Enclosing source.Span
}

type placed struct {
	Comment
	at        Placement
	anchor    source.Span
	formatted bool
}

type entry struct {
	leading  []*placed
	trailing []*placed
	dangling []*placed
}

func (e *entry) list(at Placement) []*placed {
	switch at {
	case Leading:
		return e.leading
	case Trailing:
		return e.trailing
	}
	return e.dangling
}

// Table maps anchor spans to their comments.
type Table struct {
	entries map[source.Span]*entry
	all     []*placed
}

// Builder accumulates placements. The zero value is not usable; call
// NewBuilder.
type Builder struct {
	t *Table
}

func NewBuilder() *Builder {
	return &Builder{t: &Table{entries: make(map[source.Span]*entry)}}
}

func present(s source.Span) bool {
	return s != (source.Span{})
}

// Place applies the default placement rule and returns where the comment
// landed.
func (b *Builder) Place(c Comment, n Neighbours) Placement {
	switch {
	case present(n.Preceding) && c.LinesBefore == 0:
		b.Attach(c, Trailing, n.Preceding)
		return Trailing
	case present(n.Following):
		b.Attach(c, Leading, n.Following)
		return Leading
	case present(n.Preceding):
		b.Attach(c, Trailing, n.Preceding)
		return Trailing
	default:
		b.Attach(c, Dangling, n.Enclosing)
		return Dangling
	}
}

// Attach records c at an explicit position, bypassing the default rule.
func (b *Builder) Attach(c Comment, at Placement, anchor source.Span) {
	e := b.t.entries[anchor]
	if e == nil {
		e = &entry{}
		b.t.entries[anchor] = e
	}
	p := &placed{Comment: c, at: at, anchor: anchor}
	switch at {
	case Leading:
		e.leading = append(e.leading, p)
	case Trailing:
		e.trailing = append(e.trailing, p)
	default:
		p.at = Dangling
		e.dangling = append(e.dangling, p)
	}
	b.t.all = append(b.t.all, p)
}

// Finish returns the table. The builder must not be used afterwards.
func (b *Builder) Finish() *Table {
	t := b.t
	b.t = nil
	slices.SortStableFunc(t.all, func(x, y *placed) int {
		return int(x.Span.Start) - int(y.Span.Start)
	})
	return t
}

// Empty returns a table without comments.
func Empty() *Table {
	return &Table{entries: map[source.Span]*entry{}}
}

// Len is the number of comments in the table.
func (t *Table) Len() int {
	return len(t.all)
}

func (t *Table) get(anchor source.Span, at Placement) []*placed {
	if t == nil {
		return nil
	}
	e := t.entries[anchor]
	if e == nil {
		return nil
	}
	return e.list(at)
}

func unwrap(ps []*placed) []Comment {
	if len(ps) == 0 {
		return nil
	}
	out := make([]Comment, len(ps))
	for i, p := range ps {
		out[i] = p.Comment
	}
	return out
}

func (t *Table) Leading(anchor source.Span) []Comment {
	return unwrap(t.get(anchor, Leading))
}

func (t *Table) Trailing(anchor source.Span) []Comment {
	return unwrap(t.get(anchor, Trailing))
}

func (t *Table) Dangling(anchor source.Span) []Comment {
	return unwrap(t.get(anchor, Dangling))
}

// HasComments reports whether anchor has any comment in any position.
func (t *Table) HasComments(anchor source.Span) bool {
	return len(t.get(anchor, Leading))+len(t.get(anchor, Trailing))+len(t.get(anchor, Dangling)) > 0
}

// IsSuppressed reports whether one of the leading comments of anchor is a
// suppression comment.
func (t *Table) IsSuppressed(anchor source.Span) bool {
	for _, p := range t.get(anchor, Leading) {
		if p.IsSuppression() {
			return true
		}
	}
	return false
}

// MarkFormatted records that the comments of anchor at the given position
// were emitted, for example as part of a verbatim range.
func (t *Table) MarkFormatted(anchor source.Span, at Placement) {
	for _, p := range t.get(anchor, at) {
		p.formatted = true
	}
}

// MarkInside marks every comment lying within span as emitted.
func (t *Table) MarkInside(span source.Span) {
	if t == nil {
		return
	}
	for _, p := range t.all {
		if span.Contains(p.Span) {
			p.formatted = true
		}
	}
}

// Unformatted lists, in source order, the comments nobody emitted.
func (t *Table) Unformatted() []Comment {
	if t == nil {
		return nil
	}
	var out []Comment
	for _, p := range t.all {
		if !p.formatted {
			out = append(out, p.Comment)
		}
	}
	return out
}

// Placement returns where c was placed and on which anchor.
func (t *Table) Placement(c Comment) (Placement, source.Span, bool) {
	if t == nil {
		return 0, source.Span{}, false
	}
	for _, p := range t.all {
		if p.Span == c.Span {
			return p.at, p.anchor, true
		}
	}
	return 0, source.Span{}, false
}
