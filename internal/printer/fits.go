package printer

import (
	"forma/internal/doc"
)

type fitsFrame struct {
	el   doc.Element
	mode Mode
	fill *doc.Fill // остаток заливки начиная с next
	next int
}

// measurer answers whether content stays within the line width up to the
// next line break. It never mutates the printer: group modes it decides
// go into a local overlay.
type measurer struct {
	p          *printer
	width      int
	used       int
	space      bool
	hasSuffix  bool
	mustBeFlat bool
	inRest     bool
	overlay    map[doc.GroupID]Mode
	stack      []fitsFrame
	restIdx    int
}

// fits measures next, then (when withRest) the printer's pending frames in
// their own modes.
func (p *printer) fits(next []frame, withRest, mustBeFlat bool) bool {
	m := &p.measure
	*m = measurer{
		p:          p,
		width:      p.opt.LineWidth,
		used:       p.w.Column(),
		space:      p.w.pendingSpace,
		hasSuffix:  len(p.suffixes) > 0,
		mustBeFlat: mustBeFlat,
		stack:      m.stack[:0],
		overlay:    m.overlay,
		restIdx:    -1,
	}
	clear(m.overlay)
	if withRest {
		m.restIdx = len(p.stack) - 1
	}
	for i := len(next) - 1; i >= 0; i-- {
		m.stack = append(m.stack, fitsFrame{el: next[i].el, mode: next[i].mode, fill: next[i].fill, next: next[i].next})
	}
	return m.run()
}

func (m *measurer) push(el doc.Element, mode Mode) {
	if el != nil {
		m.stack = append(m.stack, fitsFrame{el: el, mode: mode})
	}
}

func (m *measurer) pushFill(f *doc.Fill, from int, mode Mode) {
	for i := len(f.Items) - 1; i >= from; i-- {
		m.push(f.Items[i], mode)
		if i > from {
			m.push(f.Separator, mode)
		}
	}
}

func (m *measurer) groupMode(id doc.GroupID, current Mode) Mode {
	if id == 0 {
		return current
	}
	if mode, ok := m.overlay[id]; ok {
		return mode
	}
	return m.p.groupMode(id)
}

func (m *measurer) text(s string) bool {
	if s == "" {
		return true
	}
	if m.space {
		m.used++
		m.space = false
	}
	first, _, multiline := textWidth(s, m.p.opt.IndentWidth)
	m.used += first
	if multiline {
		return !m.mustBeFlat && m.used <= m.width
	}
	return m.used <= m.width
}

const (
	fitsNo = iota
	fitsYes
	fitsMaybe
)

func (m *measurer) run() bool {
	for {
		var f fitsFrame
		switch n := len(m.stack); {
		case n > 0:
			f = m.stack[n-1]
			m.stack = m.stack[:n-1]
		case m.restIdx >= 0:
			r := m.p.stack[m.restIdx]
			m.restIdx--
			m.inRest = true
			f = fitsFrame{el: r.el, mode: r.mode, fill: r.fill, next: r.next}
		default:
			return true
		}

		if f.fill != nil {
			m.pushFill(f.fill, f.next, f.mode)
			continue
		}
		switch r := m.element(f); r {
		case fitsNo:
			return false
		case fitsYes:
			return true
		}
	}
}

func (m *measurer) element(f fitsFrame) int {
	switch el := f.el.(type) {
	case doc.Text:
		if !m.text(el.Value) {
			return fitsNo
		}
		if textHasNewline(el.Value) {
			return fitsYes
		}
	case doc.Verbatim:
		if !m.text(el.Text) {
			return fitsNo
		}
		if textHasNewline(el.Text) {
			return fitsYes
		}
	case doc.Space:
		m.space = true
	case doc.Line:
		switch {
		case el.Mode == doc.LineHard || el.Mode == doc.LineEmpty:
			if m.mustBeFlat && f.mode == ModeFlat {
				return fitsNo
			}
			return fitsYes
		case f.mode == ModeBreak:
			return fitsYes
		case el.Mode == doc.LineSoftOrSpace:
			m.space = true
		}
	case doc.List:
		for i := len(el) - 1; i >= 0; i-- {
			m.push(el[i], f.mode)
		}
	case *doc.Group:
		mode := f.mode
		if m.p.doc.MustBreak(el) {
			if m.mustBeFlat || (f.mode == ModeFlat && !m.inRest) {
				return fitsNo
			}
			mode = ModeBreak
		}
		if el.ID != 0 {
			if m.overlay == nil {
				m.overlay = make(map[doc.GroupID]Mode)
			}
			m.overlay[el.ID] = mode
		}
		m.push(el.Contents, mode)
	case doc.Indent:
		m.push(el.Contents, f.mode)
	case doc.Align:
		m.push(el.Contents, f.mode)
	case doc.Dedent:
		m.push(el.Contents, f.mode)
	case doc.IndentIfGroupBreaks:
		m.push(el.Contents, f.mode)
	case doc.Conditional:
		mode := m.groupMode(el.Group, f.mode)
		if (el.When == doc.WhenBreaks) == (mode == ModeBreak) {
			m.push(el.Contents, f.mode)
		}
	case *doc.Fill:
		m.pushFill(el, 0, f.mode)
	case *doc.BestFitting:
		if f.mode == ModeFlat {
			m.push(el.Variants[0], ModeFlat)
		} else {
			m.push(el.Variants[len(el.Variants)-1], ModeBreak)
		}
	case doc.LineSuffix:
		m.hasSuffix = true
	case doc.LineSuffixBoundary:
		if m.hasSuffix {
			return fitsNo
		}
	case doc.ExpandParent:
		if m.mustBeFlat {
			return fitsNo
		}
	}
	return fitsMaybe
}

func textHasNewline(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return true
		}
	}
	return false
}
