package printer

import (
	"strings"
)

// Writer accumulates printed output. Indentation is written lazily at the
// first content of a line, so blank lines never carry indentation, and a
// pending space is dropped when a newline follows it.
type Writer struct {
	opt          Options
	buf          strings.Builder
	indent       Indentation
	lead         int // ширина opt.Lead
	atLineStart  bool
	pendingSpace bool
	column       int
	newlines     int // сколько '\n' подряд в конце буфера
}

// NewWriter creates a writer positioned at opt.StartColumn.
func NewWriter(opt Options) *Writer {
	w := &Writer{
		opt:         opt,
		lead:        ColumnWidth(opt.Lead, opt.IndentWidth),
		atLineStart: opt.StartColumn == 0,
		column:      opt.StartColumn,
	}
	return w
}

// String returns the output with LF newlines.
func (w *Writer) String() string {
	return w.buf.String()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Column is the display column of the next byte, pending indentation included.
func (w *Writer) Column() int {
	if w.atLineStart {
		return w.lead + w.indent.width(w.opt)
	}
	return w.column
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	w.buf.WriteString(w.opt.Lead)
	if w.opt.IndentStyle == IndentTab {
		for range w.indent.Level {
			w.buf.WriteByte('\t')
		}
		for range w.indent.Align {
			w.buf.WriteByte(' ')
		}
	} else {
		for range w.indent.width(w.opt) {
			w.buf.WriteByte(' ')
		}
	}
	w.column = w.lead + w.indent.width(w.opt)
	w.atLineStart = false
}

// Space requests a single space before the next content.
func (w *Writer) Space() {
	w.pendingSpace = true
}

// WriteString writes content, handling indentation and pending space.
// Embedded newlines are copied as is, continuation lines get no indent.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	if w.pendingSpace {
		w.buf.WriteByte(' ')
		w.column++
		w.pendingSpace = false
	}
	w.buf.WriteString(s)

	_, last, multiline := textWidth(s, w.opt.IndentWidth)
	if multiline {
		w.column = last
	} else {
		w.column += last
	}
	trailing := len(s) - len(strings.TrimRight(s, "\n"))
	switch {
	case trailing == len(s):
		w.newlines += trailing
	default:
		w.newlines = trailing
	}
	if trailing > 0 {
		// строка закончилась переводом: отступ следующей строки пишем лениво
		w.atLineStart = true
	}
}

// Newline ends the current line; the next line is indented by ind.
func (w *Writer) Newline(ind Indentation) {
	w.pendingSpace = false
	w.buf.WriteByte('\n')
	w.newlines++
	w.column = 0
	w.indent = ind
	w.atLineStart = true
}

// EmptyLine ends the current line leaving exactly one blank line, however
// many newlines precede it. At the start of the output it writes nothing.
func (w *Writer) EmptyLine(ind Indentation) {
	w.pendingSpace = false
	if w.buf.Len() > 0 {
		for w.newlines < 2 {
			w.buf.WriteByte('\n')
			w.newlines++
		}
	}
	w.column = 0
	w.indent = ind
	w.atLineStart = true
}

// Finish returns the output with the configured line ending.
func (w *Writer) Finish() string {
	out := w.buf.String()
	if seq := w.opt.LineEnding.Sequence(); seq != "\n" {
		out = strings.ReplaceAll(out, "\n", seq)
	}
	return out
}
