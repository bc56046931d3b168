package printer

import (
	"errors"
	"fmt"

	"forma/internal/doc"
	"forma/internal/source"
)

// ErrMalformed is returned for documents that fail validation.
var ErrMalformed = doc.ErrMalformed

// Mode is the resolved layout of a group.
type Mode uint8

const (
	ModeBreak Mode = iota
	ModeFlat
)

func (m Mode) String() string {
	if m == ModeFlat {
		return "flat"
	}
	return "break"
}

// Printed is the result of printing one document.
type Printed struct {
	Code string
	// Range is the source range Code replaces; zero for whole documents.
	Range source.Span
	// Verbatim lists the source ranges copied unchanged, in output order.
	Verbatim []source.Span
	// IR is the resolved document dump, set when Options.Trace is on.
	IR string
}

type frame struct {
	el   doc.Element
	ind  Indentation
	mode Mode
	// frame-продолжение заливки: печатать fill.Items[next:]
	fill *doc.Fill
	next int
}

type printer struct {
	doc      *doc.Document
	opt      Options
	w        *Writer
	stack    []frame
	suffixes []frame
	modes    map[doc.GroupID]Mode
	verbatim []source.Span
	measure  measurer

	// заполняется только при Options.Trace
	resolved map[*doc.Group]Mode
	variants map[*doc.BestFitting]int
}

// Print renders d. Malformed documents are rejected before anything is
// printed; well-formed ones always print, however narrow the width.
func Print(d *doc.Document, opt Options) (Printed, error) {
	if d == nil {
		return Printed{}, errors.New("printer: nil document")
	}
	if err := d.Err(); err != nil {
		return Printed{}, fmt.Errorf("printer: %w", err)
	}
	opt = opt.withDefaults()
	p := &printer{
		doc:   d,
		opt:   opt,
		w:     NewWriter(opt),
		modes: make(map[doc.GroupID]Mode, d.Groups()),
		stack: make([]frame, 0, 64),
	}
	if opt.Trace {
		p.resolved = make(map[*doc.Group]Mode, d.Groups())
		p.variants = make(map[*doc.BestFitting]int)
	}
	p.run(d.Root)

	out := Printed{Code: p.w.Finish(), Verbatim: p.verbatim}
	if opt.Trace {
		out.IR = p.dump()
	}
	return out, nil
}

func (p *printer) run(root doc.Element) {
	p.push(root, Indentation{}, ModeBreak)
	for {
		for len(p.stack) > 0 {
			f := p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			if f.fill != nil {
				p.printFill(f)
				continue
			}
			p.printElement(f)
		}
		// хвостовые суффиксы в конце документа
		if len(p.suffixes) == 0 {
			return
		}
		p.flushSuffixes()
	}
}

func (p *printer) push(el doc.Element, ind Indentation, mode Mode) {
	if el != nil {
		p.stack = append(p.stack, frame{el: el, ind: ind, mode: mode})
	}
}

func (p *printer) groupMode(id doc.GroupID) Mode {
	if mode, ok := p.modes[id]; ok {
		return mode
	}
	return ModeFlat
}

func (p *printer) flushSuffixes() {
	for i := len(p.suffixes) - 1; i >= 0; i-- {
		p.stack = append(p.stack, p.suffixes[i])
	}
	p.suffixes = p.suffixes[:0]
}

func (p *printer) printElement(f frame) {
	switch el := f.el.(type) {
	case doc.Text:
		p.w.WriteString(el.Value)
	case doc.Verbatim:
		p.w.WriteString(el.Text)
		p.verbatim = append(p.verbatim, el.Span)
	case doc.Space:
		p.w.Space()
	case doc.Line:
		if f.mode == ModeFlat && (el.Mode == doc.LineSoft || el.Mode == doc.LineSoftOrSpace) {
			if el.Mode == doc.LineSoftOrSpace {
				p.w.Space()
			}
			return
		}
		if len(p.suffixes) > 0 {
			// сначала суффиксы, потом сам перевод строки
			p.stack = append(p.stack, f)
			p.flushSuffixes()
			return
		}
		if el.Mode == doc.LineEmpty {
			p.w.EmptyLine(f.ind)
		} else {
			p.w.Newline(f.ind)
		}
	case doc.List:
		for i := len(el) - 1; i >= 0; i-- {
			p.push(el[i], f.ind, f.mode)
		}
	case *doc.Group:
		mode := p.resolveGroup(el, f)
		if el.ID != 0 {
			p.modes[el.ID] = mode
		}
		if p.resolved != nil {
			p.resolved[el] = mode
		}
		p.push(el.Contents, f.ind, mode)
	case doc.Indent:
		p.push(el.Contents, f.ind.indent(), f.mode)
	case doc.Align:
		p.push(el.Contents, f.ind.align(el.Columns), f.mode)
	case doc.Dedent:
		ind := f.ind.dedent()
		if el.ToRoot {
			ind = Indentation{}
		}
		p.push(el.Contents, ind, f.mode)
	case doc.IndentIfGroupBreaks:
		ind := f.ind
		if p.groupMode(el.Group) == ModeBreak {
			ind = ind.indent()
		}
		p.push(el.Contents, ind, f.mode)
	case doc.Conditional:
		mode := f.mode
		if el.Group != 0 {
			mode = p.groupMode(el.Group)
		}
		if (el.When == doc.WhenBreaks) == (mode == ModeBreak) {
			p.push(el.Contents, f.ind, f.mode)
		}
	case *doc.Fill:
		if len(el.Items) > 0 {
			p.stack = append(p.stack, frame{ind: f.ind, mode: f.mode, fill: el})
		}
	case *doc.BestFitting:
		p.printBestFitting(el, f)
	case doc.LineSuffix:
		if el.Contents != nil {
			p.suffixes = append(p.suffixes, frame{el: el.Contents, ind: f.ind, mode: f.mode})
		}
	case doc.LineSuffixBoundary:
		if len(p.suffixes) > 0 {
			p.push(doc.HardLine, f.ind, ModeBreak)
		}
	case doc.ExpandParent:
		// уже учтено при построении документа
	}
}

func (p *printer) resolveGroup(g *doc.Group, f frame) Mode {
	switch {
	case p.doc.MustBreak(g):
		return ModeBreak
	case f.mode == ModeFlat:
		return ModeFlat
	case p.fits([]frame{{el: g.Contents, ind: f.ind, mode: ModeFlat}}, true, false):
		return ModeFlat
	default:
		return ModeBreak
	}
}

// printFill prints item f.next and decides the separator after it: flat
// when the item, the separator and the following item fit together.
// Earlier items are never revisited.
func (p *printer) printFill(f frame) {
	items := f.fill.Items
	i := f.next
	if i >= len(items) {
		return
	}
	item := items[i]
	itemFits := p.fits([]frame{{el: item, ind: f.ind, mode: ModeFlat}}, false, true)
	itemMode := ModeBreak
	if itemFits {
		itemMode = ModeFlat
	}
	if i == len(items)-1 {
		p.push(item, f.ind, itemMode)
		return
	}

	pair := doc.List{item, f.fill.Separator, items[i+1]}
	sepMode := ModeBreak
	if itemFits && p.fits([]frame{{el: pair, ind: f.ind, mode: ModeFlat}}, false, true) {
		sepMode = ModeFlat
	}
	p.stack = append(p.stack, frame{ind: f.ind, mode: f.mode, fill: f.fill, next: i + 1})
	p.push(f.fill.Separator, f.ind, sepMode)
	p.push(item, f.ind, itemMode)
}

// printBestFitting picks the first variant that fits: the first one must
// fit entirely flat, the middle ones up to their first line break. The
// last variant is the fallback.
func (p *printer) printBestFitting(bf *doc.BestFitting, f frame) {
	last := len(bf.Variants) - 1
	if f.mode == ModeFlat {
		p.chooseVariant(bf, 0, f.ind, ModeFlat)
		return
	}
	for i, v := range bf.Variants[:last] {
		mode := ModeBreak
		if i == 0 {
			mode = ModeFlat
		}
		if p.fits([]frame{{el: v, ind: f.ind, mode: mode}}, true, i == 0) {
			p.chooseVariant(bf, i, f.ind, mode)
			return
		}
	}
	p.chooseVariant(bf, last, f.ind, ModeBreak)
}

func (p *printer) chooseVariant(bf *doc.BestFitting, i int, ind Indentation, mode Mode) {
	if p.variants != nil {
		p.variants[bf] = i
	}
	p.push(bf.Variants[i], ind, mode)
}
