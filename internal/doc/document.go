package doc

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every validation error of New.
var ErrMalformed = errors.New("malformed document")

// Document is a validated layout tree plus the break information computed
// once at construction.
type Document struct {
	Root Element

	mustBreak map[*Group]struct{}
	groups    int
	err       error
}

// New validates root and computes which groups must break.
//
// A group must break if it holds, directly or through non-group
// descendants, a hard or empty line, an ExpandParent, text with a newline,
// or a group that must break. BestFitting variants and line suffixes stop
// the propagation.
func New(root Element) *Document {
	d := &Document{Root: root, mustBreak: make(map[*Group]struct{})}
	d.err = d.analyze()
	return d
}

// Err reports the problems found by New, nil for a well-formed document.
func (d *Document) Err() error {
	return d.err
}

// MustBreak reports whether g is forced to break.
func (d *Document) MustBreak(g *Group) bool {
	if g.ShouldBreak {
		return true
	}
	_, ok := d.mustBreak[g]
	return ok
}

// Groups returns the number of groups in the tree.
func (d *Document) Groups() int {
	return d.groups
}

type walkItem struct {
	el   Element
	exit bool
}

// enclosing: *Group для групп, nil для границы (BestFitting, LineSuffix)
type walker struct {
	doc       *Document
	enclosing []*Group
	declared  map[GroupID]struct{}
	seen      map[any]struct{}
	problems  []error
}

func (w *walker) problem(format string, args ...any) {
	if len(w.problems) < 16 {
		w.problems = append(w.problems, fmt.Errorf(format, args...))
	}
}

func (w *walker) expand() {
	if n := len(w.enclosing); n > 0 && w.enclosing[n-1] != nil {
		w.doc.mustBreak[w.enclosing[n-1]] = struct{}{}
	}
}

func (w *walker) reference(id GroupID, what string) {
	if id == 0 {
		return
	}
	if _, ok := w.declared[id]; !ok {
		w.problem("%s references group %d before it is declared", what, id)
	}
}

// shared pointers would alias subtrees and may hide cycles
func (w *walker) once(key any, what string) bool {
	if _, dup := w.seen[key]; dup {
		w.problem("%s appears more than once in the tree", what)
		return false
	}
	w.seen[key] = struct{}{}
	return true
}

func (d *Document) analyze() error {
	w := &walker{
		doc:      d,
		declared: make(map[GroupID]struct{}),
		seen:     make(map[any]struct{}),
	}
	stack := []walkItem{{el: d.Root}}
	push := func(el Element) {
		if el != nil {
			stack = append(stack, walkItem{el: el})
		}
	}
	pushExit := func(el Element) {
		stack = append(stack, walkItem{el: el, exit: true})
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if it.exit {
			w.enclosing = w.enclosing[:len(w.enclosing)-1]
			if g, ok := it.el.(*Group); ok && d.MustBreak(g) {
				w.expand()
			}
			continue
		}

		switch el := it.el.(type) {
		case Text:
			if containsNewline(el.Value) {
				w.expand()
			}
		case Verbatim:
			if containsNewline(el.Text) {
				w.expand()
			}
		case Space, LineSuffixBoundary:
		case Line:
			if el.Mode == LineHard || el.Mode == LineEmpty {
				w.expand()
			}
		case ExpandParent:
			w.expand()
		case List:
			for i := len(el) - 1; i >= 0; i-- {
				push(el[i])
			}
		case *Group:
			if el == nil || !w.once(el, "group") {
				continue
			}
			d.groups++
			if el.ID != 0 {
				if _, dup := w.declared[el.ID]; dup {
					w.problem("group id %d declared twice", el.ID)
				}
				w.declared[el.ID] = struct{}{}
			}
			w.enclosing = append(w.enclosing, el)
			pushExit(el)
			push(el.Contents)
		case Indent:
			push(el.Contents)
		case Align:
			if el.Columns < 0 {
				w.problem("align by %d columns", el.Columns)
			}
			push(el.Contents)
		case Dedent:
			push(el.Contents)
		case IndentIfGroupBreaks:
			if el.Group == 0 {
				w.problem("indent_if_group_breaks without a group id")
			}
			w.reference(el.Group, "indent_if_group_breaks")
			push(el.Contents)
		case Conditional:
			w.reference(el.Group, "conditional content")
			push(el.Contents)
		case *Fill:
			if el == nil || !w.once(el, "fill") {
				continue
			}
			if el.Separator == nil && len(el.Items) > 1 {
				w.problem("fill without a separator")
			}
			push(el.Separator)
			for i := len(el.Items) - 1; i >= 0; i-- {
				push(el.Items[i])
			}
		case *BestFitting:
			if el == nil || !w.once(el, "best_fitting") {
				continue
			}
			if len(el.Variants) < 2 {
				w.problem("best_fitting with %d variants, need at least two", len(el.Variants))
			}
			w.enclosing = append(w.enclosing, nil)
			pushExit(el)
			for i := len(el.Variants) - 1; i >= 0; i-- {
				if el.Variants[i] == nil {
					w.problem("best_fitting variant %d is nil", i)
					continue
				}
				push(el.Variants[i])
			}
		case LineSuffix:
			w.enclosing = append(w.enclosing, nil)
			pushExit(el)
			push(el.Contents)
		default:
			w.problem("unknown element %T", it.el)
		}
	}

	if len(w.problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrMalformed, errors.Join(w.problems...))
}

func containsNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}
