package comments

import (
	"strings"

	"forma/internal/source"
)

// Kind distinguishes `// ...` from `/* ... */`.
type Kind uint8

const (
	KindLine Kind = iota
	KindBlock
)

func (k Kind) String() string {
	if k == KindBlock {
		return "block"
	}
	return "line"
}

// Comment is one source comment. LinesBefore and LinesAfter count the
// newlines in the whitespace that separates it from the previous and the
// next token.
type Comment struct {
	Span        source.Span
	Text        string
	Kind        Kind
	LinesBefore int
	LinesAfter  int
}

// IsLine reports whether the comment runs to the end of its line.
func (c Comment) IsLine() bool { return c.Kind == KindLine }

// SuppressionMarker turns off formatting of the node that follows it.
const SuppressionMarker = "forma-ignore"

// IsSuppression reports whether the comment is `// forma-ignore` (or the block
// form), optionally followed by an explanation after a colon.
func (c Comment) IsSuppression() bool {
	body := c.Text
	switch {
	case strings.HasPrefix(body, "//"):
		body = body[2:]
	case strings.HasPrefix(body, "/*"):
		body = strings.TrimSuffix(body[2:], "*/")
	default:
		return false
	}
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, SuppressionMarker) {
		return false
	}
	rest := body[len(SuppressionMarker):]
	return rest == "" || rest[0] == ':' || rest[0] == ' '
}

// FromSource reads the comment at span out of file and counts the blank
// lines around it.
func FromSource(file *source.File, span source.Span, kind Kind) Comment {
	text := string(file.Slice(span))
	if kind == KindLine {
		text = strings.TrimRight(text, " \t")
	}
	return Comment{
		Span:        span,
		Text:        text,
		Kind:        kind,
		LinesBefore: newlinesBefore(file.Content, int(span.Start)),
		LinesAfter:  newlinesAfter(file.Content, int(span.End)),
	}
}

func newlinesBefore(src []byte, off int) int {
	n := 0
	for i := min(off, len(src)) - 1; i >= 0; i-- {
		switch src[i] {
		case '\n':
			n++
		case ' ', '\t', '\r':
		default:
			return n
		}
	}
	return n
}

func newlinesAfter(src []byte, off int) int {
	n := 0
	for i := max(off, 0); i < len(src); i++ {
		switch src[i] {
		case '\n':
			n++
		case ' ', '\t', '\r':
		default:
			return n
		}
	}
	return n
}
