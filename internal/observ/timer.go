package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of one step of a run.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// passTotal aggregates a per-file pass over all files of a run.
type passTotal struct {
	count int
	dur   time.Duration
	worst time.Duration
	file  string
}

// Timer tracks run phases (collect, read, format) and per-file passes
// (parse, lower, print). Passes are recorded from worker goroutines.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
	passes map[string]*passTotal
	order  []string
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer {
	return &Timer{phases: make([]Phase, 0, 8), passes: make(map[string]*passTotal)}
}

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Pass adds one file's time spent in pass name.
func (t *Timer) Pass(name, file string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	pt := t.passes[name]
	if pt == nil {
		pt = &passTotal{}
		t.passes[name] = pt
		t.order = append(t.order, name)
	}
	pt.count++
	pt.dur += d
	if d > pt.worst {
		pt.worst = d
		pt.file = file
	}
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	if len(report.Passes) > 0 {
		b.WriteString("passes (summed over files):\n")
		for _, p := range report.Passes {
			fmt.Fprintf(&b, "  %-20s %7.2f ms  files=%d  slowest=%s (%.2f ms)\n",
				p.Name, p.DurationMS, p.Files, p.SlowestFile, p.SlowestMS)
		}
	}
	return b.String()
}

// PhaseReport is the serializable form of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// PassReport is the serializable form of one aggregated pass.
type PassReport struct {
	Name        string  `json:"name"`
	DurationMS  float64 `json:"duration_ms"`
	Files       int     `json:"files"`
	SlowestFile string  `json:"slowest_file,omitempty"`
	SlowestMS   float64 `json:"slowest_ms"`
}

// Report describes the aggregated timer data.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
	Passes  []PassReport  `json:"passes,omitempty"`
}

// Report builds the phase list, the per-pass totals (slowest first) and the
// total duration in milliseconds.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.phases) == 0 && len(t.passes) == 0 {
		return Report{}
	}
	report := Report{
		Phases: make([]PhaseReport, len(t.phases)),
	}
	var total time.Duration
	for i, phase := range t.phases {
		total += phase.Dur
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	for _, name := range t.order {
		pt := t.passes[name]
		report.Passes = append(report.Passes, PassReport{
			Name:        name,
			DurationMS:  durationToMillis(pt.dur),
			Files:       pt.count,
			SlowestFile: pt.file,
			SlowestMS:   durationToMillis(pt.worst),
		})
	}
	sort.SliceStable(report.Passes, func(i, j int) bool {
		return report.Passes[i].DurationMS > report.Passes[j].DurationMS
	})
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
