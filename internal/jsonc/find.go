package jsonc

import "forma/internal/source"

// Covering returns the deepest member or value whose span contains span,
// together with its ancestors from the root down. It returns nil when span
// lies outside the root value.
func Covering(doc *Document, span source.Span) (Node, []Node) {
	if doc == nil || doc.Root == nil || !doc.Root.Span().Contains(span) {
		return nil, nil
	}
	var path []Node
	var cur Node = doc.Root
	for {
		next := childCovering(cur, span)
		if next == nil {
			return cur, path
		}
		path = append(path, cur)
		cur = next
	}
}

func childCovering(n Node, span source.Span) Node {
	switch v := n.(type) {
	case *Object:
		for _, m := range v.Members {
			if m.Span().Contains(span) {
				return m
			}
		}
	case *Member:
		if v.Value.Span().Contains(span) {
			return v.Value
		}
	case *Array:
		for _, el := range v.Elements {
			if el.Span().Contains(span) {
				return el
			}
		}
	}
	return nil
}
