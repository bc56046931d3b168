package doc

import (
	"forma/internal/source"
)

// Element is one node of the layout tree. The set is closed: only the
// types of this package implement it.
type Element interface {
	element()
}

// GroupID identifies a group for IndentIfGroupBreaks and conditional
// content. Zero means "no id".
type GroupID uint32

// LineMode selects how a Line renders.
type LineMode uint8

const (
	// LineSoft renders as nothing when flat, newline when broken.
	LineSoft LineMode = iota
	// LineSoftOrSpace renders as a space when flat, newline when broken.
	LineSoftOrSpace
	// LineHard is always a newline.
	LineHard
	// LineEmpty is a newline that leaves exactly one blank line.
	LineEmpty
)

func (m LineMode) String() string {
	switch m {
	case LineSoft:
		return "soft_line_break"
	case LineSoftOrSpace:
		return "soft_line_break_or_space"
	case LineHard:
		return "hard_line_break"
	case LineEmpty:
		return "empty_line"
	}
	return "line"
}

// Condition selects when Conditional content is printed.
type Condition uint8

const (
	// WhenBreaks prints the content when the referenced group breaks.
	WhenBreaks Condition = iota
	// WhenFits prints the content when the referenced group stays flat.
	WhenFits
)

type (
	// Text is unbreakable literal content.
	Text struct{ Value string }

	// Space is a single space. Consecutive spaces collapse into one and a
	// space right before a newline is dropped.
	Space struct{}

	// Line is a break opportunity.
	Line struct{ Mode LineMode }

	// List concatenates elements.
	List []Element

	// Group is the unit of the break decision: all its lines render flat or
	// all render broken.
	Group struct {
		ID          GroupID
		Contents    Element
		ShouldBreak bool
	}

	// Indent adds one indentation level to newlines inside Contents.
	Indent struct{ Contents Element }

	// Align adds Columns spaces to newlines inside Contents.
	Align struct {
		Columns  int
		Contents Element
	}

	// Dedent removes one level (or everything, with ToRoot) from newlines
	// inside Contents.
	Dedent struct {
		ToRoot   bool
		Contents Element
	}

	// IndentIfGroupBreaks indents Contents only when group Group broke.
	IndentIfGroupBreaks struct {
		Group    GroupID
		Contents Element
	}

	// Conditional prints Contents depending on the mode of Group. A zero
	// Group refers to the innermost enclosing group.
	Conditional struct {
		When     Condition
		Group    GroupID
		Contents Element
	}

	// Fill lays out Items left to right, deciding each Separator on its own.
	Fill struct {
		Separator Element
		Items     []Element
	}

	// BestFitting prints the first variant that fits, else the last one.
	BestFitting struct {
		Variants []Element
	}

	// LineSuffix defers Contents to right before the next newline.
	LineSuffix struct{ Contents Element }

	// LineSuffixBoundary forces pending line suffixes out with a newline.
	LineSuffixBoundary struct{}

	// ExpandParent forces all enclosing groups to break.
	ExpandParent struct{}

	// Verbatim is original source copied byte for byte.
	Verbatim struct {
		Span source.Span
		Text string
	}
)

func (Text) element()                {}
func (Space) element()               {}
func (Line) element()                {}
func (List) element()                {}
func (*Group) element()              {}
func (Indent) element()              {}
func (Align) element()               {}
func (Dedent) element()              {}
func (IndentIfGroupBreaks) element() {}
func (Conditional) element()         {}
func (*Fill) element()               {}
func (*BestFitting) element()        {}
func (LineSuffix) element()          {}
func (LineSuffixBoundary) element()  {}
func (ExpandParent) element()        {}
func (Verbatim) element()            {}
