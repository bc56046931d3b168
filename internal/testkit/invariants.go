package testkit

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"forma/internal/jsonc"
	"forma/internal/lexer"
	"forma/internal/printer"
	"forma/internal/source"
	"forma/internal/token"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed document:
// 1) every node span is non-empty, points at sf and lies within its content
// 2) every child span is contained in its parent span
// 3) siblings appear in source order without overlapping
func CheckSpanInvariants(d *jsonc.Document, sf *source.File) error {
	if d == nil || sf == nil {
		return errors.New("nil document or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: sf.ID, Start: 0, End: lenContent}

	var prev source.Span
	top := make([]jsonc.Node, 0, 1+len(d.Extra))
	if d.Root != nil {
		top = append(top, d.Root)
	}
	for _, b := range d.Extra {
		top = append(top, b)
	}
	for _, n := range top {
		if err := checkNode(n, whole, sf.ID); err != nil {
			return err
		}
		if sp := n.Span(); prev != (source.Span{}) && sp.Start < prev.End {
			return fmt.Errorf("top-level span %v overlaps %v", sp, prev)
		}
		prev = n.Span()
	}
	return nil
}

func checkNode(n jsonc.Node, parent source.Span, id source.FileID) error {
	sp := n.Span()
	if sp.End <= sp.Start {
		return fmt.Errorf("empty span %v for %T", sp, n)
	}
	if sp.File != id {
		return fmt.Errorf("span file mismatch for %T: got=%d want=%d", n, sp.File, id)
	}
	if !parent.Contains(sp) {
		return fmt.Errorf("%T span %v is outside parent span %v", n, sp, parent)
	}

	var children []jsonc.Node
	switch v := n.(type) {
	case *jsonc.Object:
		children = v.Members
	case *jsonc.Array:
		for _, el := range v.Elements {
			children = append(children, el)
		}
	case *jsonc.Member:
		children = []jsonc.Node{v.Name, v.Value}
	}

	var prev source.Span
	for i, c := range children {
		if err := checkNode(c, sp, id); err != nil {
			return err
		}
		if i > 0 && c.Span().Start < prev.End {
			return fmt.Errorf("child span %v overlaps previous sibling %v", c.Span(), prev)
		}
		prev = c.Span()
	}
	return nil
}

// Significant lists what formatting must keep: every token except commas,
// with numbers in canonical spelling, and every comment in source order.
func Significant(sf *source.File) []string {
	lx := lexer.New(sf, lexer.Options{AllowComments: true})
	var out []string
	for {
		tok := lx.Next()
		for _, tv := range tok.Leading {
			switch tv.Kind {
			case token.TriviaLineComment:
				out = append(out, strings.TrimRight(tv.Text, " \t"))
			case token.TriviaBlockComment:
				out = append(out, tv.Text)
			}
		}
		switch tok.Kind {
		case token.EOF:
			return out
		case token.Comma:
			continue
		case token.Number:
			out = append(out, canonicalNumber(tok.Text))
		default:
			out = append(out, tok.Text)
		}
	}
}

func canonicalNumber(s string) string {
	s = strings.ToLower(s)
	return strings.Replace(s, "e+", "e", 1)
}

// CheckContentPreserved reports the first significant piece that differs
// between before and after.
func CheckContentPreserved(before, after *source.File) error {
	a, b := Significant(before), Significant(after)
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			return fmt.Errorf("content differs at piece %d: %q became %q", i, a[i], b[i])
		}
	}
	switch {
	case len(a) > len(b):
		return fmt.Errorf("output lost %d pieces, first %q", len(a)-len(b), a[len(b)])
	case len(b) > len(a):
		return fmt.Errorf("output gained %d pieces, first %q", len(b)-len(a), b[len(a)])
	}
	return nil
}

// OverWidth returns the 1-based numbers of the lines of code wider than
// width; tabs count as tabWidth columns.
func OverWidth(code string, width, tabWidth int) []int {
	var lines []int
	for i, line := range strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n") {
		if printer.ColumnWidth(line, tabWidth) > width {
			lines = append(lines, i+1)
		}
	}
	return lines
}

// CheckIdempotent formats code once more and reports a difference.
func CheckIdempotent(code string, format func(string) (string, error)) error {
	again, err := format(code)
	if err != nil {
		return fmt.Errorf("second pass failed: %w", err)
	}
	if again != code {
		return fmt.Errorf("second pass changed the output:\n--- first\n%s\n--- second\n%s", code, again)
	}
	return nil
}
