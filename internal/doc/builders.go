package doc

import (
	"fmt"

	"forma/internal/source"
)

var (
	SoftLine        Element = Line{Mode: LineSoft}
	SoftLineOrSpace Element = Line{Mode: LineSoftOrSpace}
	HardLine        Element = Line{Mode: LineHard}
	EmptyLine       Element = Line{Mode: LineEmpty}
)

// Str wraps a literal.
func Str(s string) Element { return Text{Value: s} }

// Textf formats a literal.
func Textf(format string, args ...any) Element {
	return Text{Value: fmt.Sprintf(format, args...)}
}

// Concat joins elements, dropping nils and flattening nested lists.
func Concat(parts ...Element) Element {
	out := make(List, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case nil:
		case List:
			out = append(out, v...)
		default:
			out = append(out, p)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Join puts sep between items.
func Join(sep Element, items []Element) Element {
	out := make(List, 0, 2*len(items))
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}

// JoinLines puts each item on its own line. blank[i] asks for an empty
// line before item i; a short or nil blank means hard lines only.
func JoinLines(items []Element, blank []bool) Element {
	out := make(List, 0, 2*len(items))
	for i, it := range items {
		if i > 0 {
			if i < len(blank) && blank[i] {
				out = append(out, EmptyLine)
			} else {
				out = append(out, HardLine)
			}
		}
		out = append(out, it)
	}
	return out
}

// NewGroup groups contents without an id.
func NewGroup(contents ...Element) *Group {
	return &Group{Contents: Concat(contents...)}
}

// GroupWithID groups contents under id.
func GroupWithID(id GroupID, contents ...Element) *Group {
	return &Group{ID: id, Contents: Concat(contents...)}
}

// BreakGroup is a group that always breaks.
func BreakGroup(contents ...Element) *Group {
	return &Group{Contents: Concat(contents...), ShouldBreak: true}
}

// Indented indents contents by one level.
func Indented(contents ...Element) Element {
	return Indent{Contents: Concat(contents...)}
}

// Aligned aligns contents by n spaces.
func Aligned(n int, contents ...Element) Element {
	return Align{Columns: n, Contents: Concat(contents...)}
}

// Dedented removes one indentation level.
func Dedented(contents ...Element) Element {
	return Dedent{Contents: Concat(contents...)}
}

// DedentToRoot removes all indentation.
func DedentToRoot(contents ...Element) Element {
	return Dedent{ToRoot: true, Contents: Concat(contents...)}
}

// BlockIndent puts contents on their own indented lines.
func BlockIndent(contents ...Element) Element {
	return Concat(Indent{Contents: Concat(HardLine, Concat(contents...))}, HardLine)
}

// SoftBlockIndent indents contents on their own lines when the enclosing
// group breaks and keeps them inline otherwise.
func SoftBlockIndent(contents ...Element) Element {
	return Concat(Indent{Contents: Concat(SoftLine, Concat(contents...))}, SoftLine)
}

// SoftSpaceBlockIndent is SoftBlockIndent with spaces in flat mode,
// `{ a }` instead of `{a}`.
func SoftSpaceBlockIndent(contents ...Element) Element {
	return Concat(Indent{Contents: Concat(SoftLineOrSpace, Concat(contents...))}, SoftLineOrSpace)
}

// NewFill builds a fill.
func NewFill(sep Element, items ...Element) *Fill {
	return &Fill{Separator: sep, Items: items}
}

// NewBestFitting builds a best fitting element, most flat variant first.
func NewBestFitting(variants ...Element) *BestFitting {
	return &BestFitting{Variants: variants}
}

// Suffix defers contents to the end of the line.
func Suffix(contents ...Element) Element {
	return LineSuffix{Contents: Concat(contents...)}
}

// IfBreaks prints contents when group id breaks (0: enclosing group).
func IfBreaks(id GroupID, contents ...Element) Element {
	return Conditional{When: WhenBreaks, Group: id, Contents: Concat(contents...)}
}

// IfFits prints contents when group id stays flat (0: enclosing group).
func IfFits(id GroupID, contents ...Element) Element {
	return Conditional{When: WhenFits, Group: id, Contents: Concat(contents...)}
}

// IndentIfBreaks indents contents when group id breaks.
func IndentIfBreaks(id GroupID, contents ...Element) Element {
	return IndentIfGroupBreaks{Group: id, Contents: Concat(contents...)}
}

// VerbatimFrom copies the bytes of span out of file.
func VerbatimFrom(file *source.File, span source.Span) Element {
	return Verbatim{Span: span, Text: string(file.Slice(span))}
}

// IDs hands out group ids for one document.
type IDs struct {
	next GroupID
}

// NewIDs returns a fresh allocator.
func NewIDs() *IDs {
	return &IDs{}
}

// Next returns an unused id.
func (ids *IDs) Next() GroupID {
	ids.next++
	return ids.next
}
