package format

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"forma/internal/comments"
	"forma/internal/diag"
	"forma/internal/doc"
	"forma/internal/jsonc"
	"forma/internal/observ"
	"forma/internal/printer"
	"forma/internal/project"
	"forma/internal/source"
	"forma/internal/trace"
)

var (
	// ErrParse is returned for files with syntax errors unless
	// formatter.formatWithErrors is set.
	ErrParse = errors.New("file has syntax errors")
	// ErrComments is returned when a comment did not reach the output.
	ErrComments = errors.New("comments were dropped")
	// ErrRange is returned when a range does not select a node.
	ErrRange = errors.New("range does not select a value")
)

const defaultMaxDiagnostics = 256

// Options controls one formatting call.
type Options struct {
	Config project.Config
	// Trace requests the resolved IR in Printed.IR.
	Trace bool
	// MaxDiagnostics bounds the bag; zero means 256.
	MaxDiagnostics int

	// Tracer receives parse, lower and print pass spans under Parent.
	Tracer trace.Tracer
	Parent uint64
	// Timer, when set, sums the pass durations over files.
	Timer *observ.Timer
}

type passSpan struct {
	sp    *trace.Span
	timer *observ.Timer
	name  string
	file  string
	start time.Time
}

// End closes the trace span; the timer is fed even when tracing is off.
func (p passSpan) End(detail string) {
	p.sp.End(detail)
	p.timer.Pass(p.name, p.file, time.Since(p.start))
}

func (o Options) pass(name, file string) passSpan {
	t := o.Tracer
	if t == nil {
		t = trace.Nop
	}
	return passSpan{sp: trace.Begin(t, trace.ScopePass, name, o.Parent), timer: o.Timer, name: name, file: file, start: time.Now()}
}

func (o Options) bag() *diag.Bag {
	if o.MaxDiagnostics <= 0 {
		return diag.NewBag(defaultMaxDiagnostics)
	}
	return diag.NewBag(o.MaxDiagnostics)
}

func (o Options) printer() printer.Options {
	p := o.Config.Printer()
	p.Trace = o.Trace
	return p
}

// ParseOptions combines the grammar implied by the file name with the
// relaxations of the [json.parser] section.
func ParseOptions(sf *source.File, cfg project.Config) jsonc.Options {
	po := jsonc.ForPath(sf.Path)
	po.AllowComments = po.AllowComments || cfg.JSON.Parser.AllowComments
	po.AllowTrailingCommas = po.AllowTrailingCommas || cfg.JSON.Parser.AllowTrailingCommas
	return po
}

func parse(sf *source.File, opt Options, r diag.Reporter) jsonc.Result {
	po := ParseOptions(sf, opt.Config)
	po.Reporter = r
	return jsonc.Parse(sf, po)
}

// FormatFile formats a whole file. The bag collects syntax diagnostics and
// notes about regions kept verbatim; it is returned even on error.
func FormatFile(sf *source.File, opt Options) (printer.Printed, *diag.Bag, error) {
	if sf == nil {
		return printer.Printed{}, nil, errors.New("format: nil source file")
	}
	bag := opt.bag()
	r := diag.BagReporter{Bag: bag}
	sp := opt.pass("parse", sf.Path)
	res := parse(sf, opt, r)
	sp.End(fmt.Sprintf("errors=%d", res.Errors))
	if res.Errors > 0 && !opt.Config.Formatter.FormatWithErrors {
		return printer.Printed{}, bag, fmt.Errorf("format %s: %w", sf.Path, ErrParse)
	}

	sp = opt.pass("lower", sf.Path)
	l := newLowerer(sf, opt.Config, attach(res.Doc))
	root := l.document(res.Doc)
	sp.End("")

	sp = opt.pass("print", sf.Path)
	out, err := l.finish(root, opt.printer(), sf.Span(), r)
	sp.End(fmt.Sprintf("verbatim=%d", len(out.Verbatim)))
	if err != nil {
		return printer.Printed{}, bag, fmt.Errorf("format %s: %w", sf.Path, err)
	}
	return out, bag, nil
}

// FormatRange formats the smallest member or value covering span. Printed
// holds the replacement text for Printed.Range, indented to sit where the
// node starts.
func FormatRange(sf *source.File, span source.Span, opt Options) (printer.Printed, *diag.Bag, error) {
	if sf == nil {
		return printer.Printed{}, nil, errors.New("format: nil source file")
	}
	bag := opt.bag()
	r := diag.BagReporter{Bag: bag}
	if span.End > sf.Span().End || span.Start > span.End {
		diag.ReportError(r, diag.FmtRangeInvalid, sf.Span(), fmt.Sprintf("range %d..%d is outside the file", span.Start, span.End)).Emit()
		return printer.Printed{}, bag, fmt.Errorf("format %s: %w", sf.Path, ErrRange)
	}
	span.File = sf.ID
	res := parse(sf, opt, r)
	if res.Errors > 0 && !opt.Config.Formatter.FormatWithErrors {
		return printer.Printed{}, bag, fmt.Errorf("format %s: %w", sf.Path, ErrParse)
	}
	node, _ := jsonc.Covering(res.Doc, span)
	if node == nil {
		diag.ReportError(r, diag.FmtRangeInvalid, span, "range does not lie inside the root value").Emit()
		return printer.Printed{}, bag, fmt.Errorf("format %s: %w", sf.Path, ErrRange)
	}

	target := node.Span()
	popts := opt.printer()
	lineStart := sf.LineStart(target.Start)
	prefix := string(sf.Content[lineStart:target.Start])
	lead := prefix[:len(prefix)-len(trimIndent(prefix))]
	popts.Lead = lead
	popts.StartColumn = printer.ColumnWidth(prefix, popts.IndentWidth)

	l := newLowerer(sf, opt.Config, attach(res.Doc))
	out, err := l.finish(l.inner(node), popts, target, r)
	if err != nil {
		return printer.Printed{}, bag, fmt.Errorf("format %s: %w", sf.Path, err)
	}
	out.Range = target
	return out, bag, nil
}

func trimIndent(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i:]
		}
	}
	return ""
}

// finish checks that every comment inside within was emitted, prints root
// and reports the regions the printer copied from the source.
func (l *lowerer) finish(root doc.Element, popts printer.Options, within source.Span, r diag.Reporter) (printer.Printed, error) {
	lost := 0
	for _, c := range l.tab.Unformatted() {
		if !within.Contains(c.Span) {
			continue
		}
		lost++
		diag.ReportError(r, diag.FmtUnformattedComment, c.Span, "comment was not emitted by the formatter").Emit()
	}
	if lost > 0 {
		return printer.Printed{}, fmt.Errorf("%d %s: %w", lost, plural(lost, "comment", "comments"), ErrComments)
	}

	out, err := printer.Print(doc.New(root), popts)
	if err != nil {
		diag.ReportError(r, diag.FmtMalformedIR, within, err.Error()).Emit()
		return printer.Printed{}, err
	}
	for _, sp := range out.Verbatim {
		if slices.Contains(l.suppressed, sp) {
			diag.ReportInfo(r, diag.FmtSuppressed, sp, "formatting suppressed by "+comments.SuppressionMarker).Emit()
			continue
		}
		diag.ReportInfo(r, diag.FmtVerbatim, sp, "region kept as written").Emit()
	}
	return out, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// CheckRoundTrip formats sf, formats the result again and compares. It
// reports whether both passes agree, with a human-readable summary.
func CheckRoundTrip(sf *source.File, opt Options) (ok bool, msg string) {
	first, _, err := FormatFile(sf, opt)
	if err != nil {
		return false, "fmt-check: " + err.Error()
	}
	fs := source.NewFileSet()
	again := fs.Get(fs.AddVirtual(sf.Path, []byte(first.Code)))
	second, bag, err := FormatFile(again, opt)
	if err != nil {
		if bag != nil && bag.Len() > 0 {
			d := bag.Items()[0]
			return false, fmt.Sprintf("fmt-check: formatted output does not format: %s: %s", d.Code.ID(), d.Message)
		}
		return false, "fmt-check: formatted output does not format: " + err.Error()
	}
	if second.Code != first.Code {
		return false, "fmt-check: second pass changed the output"
	}
	return true, "fmt-check: OK"
}
