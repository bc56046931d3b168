package printer

import (
	"fmt"
	"strconv"
	"strings"

	"forma/internal/doc"
)

// dump renders the document in the IR display syntax, every group and best
// fitting annotated with what this print resolved. The dump is itself a
// document printed by this package.
func (p *printer) dump() string {
	out, err := Print(doc.New(p.describe(p.doc.Root)), Options{
		LineWidth:   DefaultLineWidth,
		IndentStyle: IndentSpace,
		IndentWidth: 2,
	})
	if err != nil {
		return fmt.Sprintf("<ir dump failed: %v>", err)
	}
	return out.Code
}

// Dump renders d without resolved modes.
func Dump(d *doc.Document) string {
	p := &printer{doc: d}
	return p.dump()
}

type describeTask struct {
	el   doc.Element
	n    int
	done bool
}

// describe строит описание итеративно (post-order), глубина не ограничена стеком.
func (p *printer) describe(root doc.Element) doc.Element {
	stack := []describeTask{{el: root}}
	var results []doc.Element
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !t.done {
			ks := children(t.el)
			stack = append(stack, describeTask{el: t.el, n: len(ks), done: true})
			for i := len(ks) - 1; i >= 0; i-- {
				stack = append(stack, describeTask{el: ks[i]})
			}
			continue
		}
		args := make([]doc.Element, t.n)
		copy(args, results[len(results)-t.n:])
		results = results[:len(results)-t.n]
		results = append(results, p.combine(t.el, args))
	}
	if len(results) == 0 {
		return doc.Str("[]")
	}
	return results[0]
}

func listOf(el doc.Element) []doc.Element {
	var in []doc.Element
	if l, ok := el.(doc.List); ok {
		in = l
	} else if el != nil {
		in = []doc.Element{el}
	}
	out := make([]doc.Element, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func children(el doc.Element) []doc.Element {
	switch v := el.(type) {
	case doc.List:
		return listOf(v)
	case *doc.Group:
		return listOf(v.Contents)
	case doc.Indent:
		return listOf(v.Contents)
	case doc.Align:
		return listOf(v.Contents)
	case doc.Dedent:
		return listOf(v.Contents)
	case doc.IndentIfGroupBreaks:
		return listOf(v.Contents)
	case doc.Conditional:
		return listOf(v.Contents)
	case doc.LineSuffix:
		return listOf(v.Contents)
	case *doc.Fill:
		return append(listOf(v.Separator), listOf(doc.List(v.Items))...)
	case *doc.BestFitting:
		return listOf(doc.List(v.Variants))
	}
	return nil
}

func bracket(items []doc.Element) doc.Element {
	if len(items) == 0 {
		return doc.Str("[]")
	}
	return doc.NewGroup(
		doc.Str("["),
		doc.SoftBlockIndent(doc.Join(doc.Concat(doc.Str(","), doc.SoftLineOrSpace), items)),
		doc.Str("]"),
	)
}

func call(name string, attrs []string, body doc.Element) doc.Element {
	head := name + "("
	if len(attrs) > 0 {
		head += strings.Join(attrs, ", ") + ", "
	}
	return doc.Concat(doc.Str(head), body, doc.Str(")"))
}

func (p *printer) combine(el doc.Element, args []doc.Element) doc.Element {
	switch v := el.(type) {
	case doc.Text:
		return doc.Str(strconv.Quote(v.Value))
	case doc.Space:
		return doc.Str("space")
	case doc.Line:
		return doc.Str(v.Mode.String())
	case doc.List:
		return bracket(args)
	case *doc.Group:
		var attrs []string
		if v.ID != 0 {
			attrs = append(attrs, fmt.Sprintf("id: %d", v.ID))
		}
		switch {
		case v.ShouldBreak:
			attrs = append(attrs, "expand: true")
		case p.doc.MustBreak(v):
			attrs = append(attrs, "expand: propagated")
		}
		if mode, ok := p.resolved[v]; ok {
			attrs = append(attrs, "mode: "+mode.String())
		}
		return call("group", attrs, bracket(args))
	case doc.Indent:
		return call("indent", nil, bracket(args))
	case doc.Align:
		return call("align", []string{strconv.Itoa(v.Columns)}, bracket(args))
	case doc.Dedent:
		if v.ToRoot {
			return call("dedent_to_root", nil, bracket(args))
		}
		return call("dedent", nil, bracket(args))
	case doc.IndentIfGroupBreaks:
		return call("indent_if_group_breaks", []string{fmt.Sprintf("group: %d", v.Group)}, bracket(args))
	case doc.Conditional:
		name := "if_group_breaks"
		if v.When == doc.WhenFits {
			name = "if_group_fits_on_line"
		}
		var attrs []string
		if v.Group != 0 {
			attrs = append(attrs, fmt.Sprintf("group: %d", v.Group))
		}
		return call(name, attrs, bracket(args))
	case *doc.Fill:
		if v.Separator == nil {
			return call("fill", nil, bracket(args))
		}
		return call("fill", nil, doc.Concat(doc.Str("separator: "), args[0], doc.Str(", "), bracket(args[1:])))
	case *doc.BestFitting:
		var attrs []string
		if i, ok := p.variants[v]; ok {
			attrs = append(attrs, fmt.Sprintf("chosen: %d", i))
		}
		return call("best_fitting", attrs, bracket(args))
	case doc.LineSuffix:
		return call("line_suffix", nil, bracket(args))
	case doc.LineSuffixBoundary:
		return doc.Str("line_suffix_boundary")
	case doc.ExpandParent:
		return doc.Str("expand_parent")
	case doc.Verbatim:
		return doc.Str("verbatim(" + strconv.Quote(v.Text) + ")")
	}
	return doc.Textf("<%T>", el)
}
