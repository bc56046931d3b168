package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"forma/internal/diag"
	"forma/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts, pal)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", n)
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	f := fs.Get(span.File)
	pos := f.Position(span.Start)
	return fmt.Sprintf("%s:%d:%d", displayPath(f, fs, mode), pos.Line, pos.Col)
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)
	snippet(w, fs, d.Primary, int(opts.Context), pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s: %s\n", location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if !opts.ShowFixes {
		return
	}
	for i, fix := range d.Fixes {
		fmt.Fprintf(w, "  fix #%d: %s\n", i+1, fix.Title)
		for _, edit := range fix.Edits {
			start, end := fs.Resolve(edit.Span)
			fmt.Fprintf(w, "    edit %d:%d-%d:%d apply=%q\n", start.Line, start.Col, end.Line, end.Col, edit.NewText)
			if !opts.ShowPreview {
				continue
			}
			preview, err := buildFixEditPreview(fs, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.before {
				fmt.Fprintln(w, pal.removed.Sprint("      - "+line))
			}
			for _, line := range preview.after {
				fmt.Fprintln(w, pal.added.Sprint("      + "+line))
			}
		}
	}
}

// snippet печатает строку span с context строками вокруг и подчёркивает span.
func snippet(w io.Writer, fs *source.FileSet, span source.Span, context int, pal palette) {
	f := fs.Get(span.File)
	if len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(span)
	first := max(int(start.Line)-context, 1)
	last := int(start.Line) + context
	lines := len(f.LineIdx)
	if f.Content[len(f.Content)-1] != '\n' {
		lines++
	}
	last = max(min(last, lines), int(start.Line))
	numWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln)) // #nosec G115 -- bounded by the line index
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", numWidth, ln), text)
		if ln != int(start.Line) {
			continue
		}
		startCol := int(start.Col) - 1
		endCol := len(text)
		if end.Line == start.Line {
			endCol = int(end.Col) - 1
		}
		startCol = min(startCol, len(text))
		endCol = min(max(endCol, startCol), len(text))
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprint(strings.Repeat(" ", numWidth)+" |"),
			padTo(text[:startCol]),
			pal.caret.Sprint(underline(text[startCol:endCol])))
	}
}

// padTo повторяет отступ строки, сохраняя табы, чтобы ^ попал под начало span.
func padTo(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(s string) string {
	n := runewidth.StringWidth(s)
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}
