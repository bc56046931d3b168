package format

import (
	"strings"

	"forma/internal/comments"
	"forma/internal/doc"
	"forma/internal/jsonc"
	"forma/internal/project"
	"forma/internal/source"
	"forma/internal/token"
)

// lowerer turns syntax nodes into IR. It owns the comment table, so every
// node is lowered through withComments exactly once per layout variant.
type lowerer struct {
	file *source.File
	json project.JSONConfig
	tab  *comments.Table
	ids  *doc.IDs

	// suppressed collects the nodes kept verbatim by a suppression comment
	suppressed []source.Span

	// variants > 0 while lowering inside a BestFitting; nested arrays then
	// lower to a plain group, keeping the IR linear in the input
	variants int
}

func newLowerer(file *source.File, cfg project.Config, tab *comments.Table) *lowerer {
	return &lowerer{file: file, json: cfg.JSON, tab: tab, ids: doc.NewIDs()}
}

func (l *lowerer) document(d *jsonc.Document) doc.Element {
	var values []doc.Element
	var blank []bool
	if d.Root != nil {
		values = append(values, l.withComments(d.Root))
		blank = append(blank, false)
	}
	for _, extra := range d.Extra {
		values = append(values, l.withComments(extra))
		blank = append(blank, jsonc.LinesBefore(extra) > 1)
	}
	parts := make([]doc.Element, 0, 3)
	if len(values) > 0 {
		parts = append(parts, doc.JoinLines(values, blank))
	}
	// файл из одних комментариев
	if ds := l.tab.Dangling(d.Span()); len(ds) > 0 {
		parts = append(parts, comments.FormatDangling(l.tab, d.Span(), comments.DanglingNone))
		if ds[len(ds)-1].IsLine() {
			return doc.Concat(parts...)
		}
	}
	if len(parts) == 0 {
		return doc.Concat()
	}
	return doc.Concat(append(parts, doc.HardLine)...)
}

// withComments lowers n together with its leading and trailing comments.
func (l *lowerer) withComments(n jsonc.Node) doc.Element {
	return comments.FormatNode(l.tab, n.Span(), l.inner(n))
}

// inner lowers n alone. A node led by a suppression comment is copied from
// the source.
func (l *lowerer) inner(n jsonc.Node) doc.Element {
	span := n.Span()
	if l.tab.IsSuppressed(span) {
		l.tab.MarkInside(span)
		l.suppressed = append(l.suppressed, span)
		return doc.VerbatimFrom(l.file, span)
	}
	return l.body(n)
}

// body lowers n without the comments around it.
func (l *lowerer) body(n jsonc.Node) doc.Element {
	switch v := n.(type) {
	case *jsonc.Scalar:
		return doc.Str(scalarText(v))
	case *jsonc.Member:
		return doc.Concat(l.withComments(v.Name), doc.Str(":"), doc.Space{}, l.withComments(v.Value))
	case *jsonc.Object:
		return l.object(v)
	case *jsonc.Array:
		return l.array(v)
	case *jsonc.Bogus:
		span := v.Span()
		l.tab.MarkInside(span)
		return doc.VerbatimFrom(l.file, span)
	}
	return nil
}

func scalarText(s *jsonc.Scalar) string {
	if s.Kind() == token.Number {
		return normalizeNumber(s.Text())
	}
	return s.Text()
}

// normalizeNumber lower-cases the exponent marker and drops an explicit
// plus sign after it: 1E+5 becomes 1e5.
func normalizeNumber(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return s
	}
	exp := s[i+1:]
	exp = strings.TrimPrefix(exp, "+")
	return s[:i] + "e" + exp
}

func (l *lowerer) separator(next jsonc.Node) doc.Element {
	if jsonc.LinesBefore(next) > 1 {
		return doc.EmptyLine
	}
	return doc.SoftLineOrSpace
}

func (l *lowerer) trailingComma(id doc.GroupID) doc.Element {
	if l.json.TrailingCommas == project.TrailingCommasAll {
		return doc.IfBreaks(id, doc.Str(","))
	}
	return nil
}

func (l *lowerer) items(nodes []jsonc.Node) []doc.Element {
	parts := make([]doc.Element, 0, 3*len(nodes))
	for i, n := range nodes {
		if i > 0 {
			parts = append(parts, doc.Str(","), l.separator(n))
		}
		parts = append(parts, l.withComments(n))
	}
	return parts
}

func (l *lowerer) object(o *jsonc.Object) doc.Element {
	if len(o.Members) == 0 {
		return l.empty("{", "}", o.Span())
	}
	id := l.ids.Next()
	parts := append(l.items(o.Members), l.trailingComma(id))
	var inner doc.Element
	if l.json.BracketSpacing {
		inner = doc.SoftSpaceBlockIndent(parts...)
	} else {
		inner = doc.SoftBlockIndent(parts...)
	}
	g := doc.GroupWithID(id, doc.Str("{"), inner, doc.Str("}"))
	switch l.json.Expand {
	case project.ExpandAlways:
		g.ShouldBreak = true
	case project.ExpandAuto:
		g.ShouldBreak = o.NewlineAfterOpen()
	}
	return g
}

func (l *lowerer) empty(open, closing string, span source.Span) doc.Element {
	return doc.Concat(doc.Str(open), comments.FormatDangling(l.tab, span, comments.DanglingBlock), doc.Str(closing))
}

func (l *lowerer) array(a *jsonc.Array) doc.Element {
	if len(a.Elements) == 0 {
		return l.empty("[", "]", a.Span())
	}
	if l.variants == 0 && l.huggable(a) {
		l.variants++
		defer func() { l.variants-- }()
		return doc.NewBestFitting(l.arrayGroup(a), l.hugged(a), l.expanded(a))
	}
	return l.arrayGroup(a)
}

func (l *lowerer) arrayGroup(a *jsonc.Array) *doc.Group {
	id := l.ids.Next()
	var body doc.Element
	if l.fillable(a) {
		last := len(a.Elements) - 1
		items := make([]doc.Element, len(a.Elements))
		for i, el := range a.Elements {
			comma := doc.Str(",")
			if i == last {
				comma = l.trailingComma(id)
			}
			items[i] = doc.Concat(l.withComments(el), comma)
		}
		body = doc.NewFill(doc.SoftLineOrSpace, items...)
	} else {
		nodes := make([]jsonc.Node, len(a.Elements))
		for i, el := range a.Elements {
			nodes[i] = el
		}
		body = doc.Concat(append(l.items(nodes), l.trailingComma(id))...)
	}
	g := doc.GroupWithID(id, doc.Str("["), doc.SoftBlockIndent(body), doc.Str("]"))
	g.ShouldBreak = l.json.Expand == project.ExpandAlways
	return g
}

// fillable: two or more plain numbers with nothing between them but
// commas and single line breaks.
func (l *lowerer) fillable(a *jsonc.Array) bool {
	if len(a.Elements) < 2 {
		return false
	}
	for i, el := range a.Elements {
		s, ok := el.(*jsonc.Scalar)
		if !ok || s.Kind() != token.Number || l.tab.HasComments(el.Span()) {
			return false
		}
		if i > 0 && jsonc.LinesBefore(el) > 1 {
			return false
		}
	}
	return true
}

// huggable: a single non-empty object or array element with no comments
// around it, which may share the brackets of its parent.
func (l *lowerer) huggable(a *jsonc.Array) bool {
	if len(a.Elements) != 1 || l.json.Expand == project.ExpandAlways {
		return false
	}
	el := a.Elements[0]
	if l.tab.HasComments(el.Span()) {
		return false
	}
	switch v := el.(type) {
	case *jsonc.Object:
		return len(v.Members) > 0
	case *jsonc.Array:
		return len(v.Elements) > 0
	}
	return false
}

// hugged prints `[{` ... `}]` with the element broken.
func (l *lowerer) hugged(a *jsonc.Array) doc.Element {
	inner := l.body(a.Elements[0])
	if g, ok := inner.(*doc.Group); ok {
		g.ShouldBreak = true
	}
	return doc.Concat(doc.Str("["), inner, doc.Str("]"))
}

// expanded puts the element on its own line.
func (l *lowerer) expanded(a *jsonc.Array) doc.Element {
	id := l.ids.Next()
	g := doc.GroupWithID(id, doc.Str("["), doc.BlockIndent(l.body(a.Elements[0]), l.trailingComma(id)), doc.Str("]"))
	g.ShouldBreak = true
	return g
}
