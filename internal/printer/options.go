package printer

import (
	"fmt"
	"strings"
)

const (
	DefaultLineWidth   = 80
	MaxLineWidth       = 320
	DefaultIndentWidth = 2
	MaxIndentWidth     = 24
)

// IndentStyle selects the indentation character.
type IndentStyle uint8

const (
	IndentTab IndentStyle = iota
	IndentSpace
)

func (s IndentStyle) String() string {
	if s == IndentSpace {
		return "space"
	}
	return "tab"
}

// ParseIndentStyle parses "tab" or "space".
func ParseIndentStyle(s string) (IndentStyle, error) {
	switch strings.ToLower(s) {
	case "tab":
		return IndentTab, nil
	case "space":
		return IndentSpace, nil
	}
	return IndentTab, fmt.Errorf("invalid indent style %q (expected: tab|space)", s)
}

func (s IndentStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *IndentStyle) UnmarshalText(b []byte) error {
	v, err := ParseIndentStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// LineEnding is written for every newline of the output.
type LineEnding uint8

const (
	LineEndingLF LineEnding = iota
	LineEndingCRLF
	LineEndingCR
)

func (e LineEnding) String() string {
	switch e {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	}
	return "lf"
}

// Sequence returns the bytes of one newline.
func (e LineEnding) Sequence() string {
	switch e {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	}
	return "\n"
}

// ParseLineEnding parses "lf", "crlf" or "cr".
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "lf":
		return LineEndingLF, nil
	case "crlf":
		return LineEndingCRLF, nil
	case "cr":
		return LineEndingCR, nil
	}
	return LineEndingLF, fmt.Errorf("invalid line ending %q (expected: lf|crlf|cr)", s)
}

func (e LineEnding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *LineEnding) UnmarshalText(b []byte) error {
	v, err := ParseLineEnding(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Indentation is an indent level plus extra alignment spaces.
type Indentation struct {
	Level int
	Align int
}

func (i Indentation) indent() Indentation {
	return Indentation{Level: i.Level + 1, Align: i.Align}
}

func (i Indentation) align(n int) Indentation {
	return Indentation{Level: i.Level, Align: i.Align + n}
}

// выравнивание снимается первым, потом уровень
func (i Indentation) dedent() Indentation {
	if i.Align > 0 {
		return Indentation{Level: i.Level}
	}
	return Indentation{Level: max(i.Level-1, 0)}
}

func (i Indentation) width(o Options) int {
	return i.Level*o.IndentWidth + i.Align
}

// Options is the layout-universal part of the configuration.
type Options struct {
	LineWidth   int
	IndentStyle IndentStyle
	IndentWidth int
	LineEnding  LineEnding

	// Lead is copied to the start of every new line ahead of the
	// indentation; StartColumn is the column the first line starts at.
	// Both are empty for whole files.
	Lead        string
	StartColumn int

	// Trace requests the resolved IR dump in Printed.IR.
	Trace bool
}

func (o Options) withDefaults() Options {
	if o.LineWidth <= 0 {
		o.LineWidth = DefaultLineWidth
	}
	o.LineWidth = min(o.LineWidth, MaxLineWidth)
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	o.IndentWidth = min(o.IndentWidth, MaxIndentWidth)
	o.StartColumn = max(o.StartColumn, 0)
	return o
}
