package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopePass, false},
		{LevelDetail, ScopePass, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%s/%s: want %v got %v", c.level, c.scope, c.want, got)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
}

func TestStreamTracerSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopeDriver, "fmt", 0)
	file := Begin(tr, ScopeFile, "file:a.json", root.ID())
	file.WithExtra("bytes", "12").End("ok")
	Begin(tr, ScopeNode, "hidden", file.ID()).End("")
	root.End("")

	out := buf.String()
	if !strings.Contains(out, "→ fmt") || !strings.Contains(out, "← file:a.json (ok) {bytes=12}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("node scope must be filtered at detail level:\n%s", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(r, ScopeNode, name, 0, "")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 2 || !strings.Contains(buf.String(), `"name":"c"`) {
		t.Fatalf("unexpected dump %s", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop from empty context")
	}
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer lost in context")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatalf("span context lost")
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("expected disabled tracer, got %v %v", tr, err)
	}
	tr, err = New(Config{Level: LevelPhase, Mode: ModeRing, RingSize: 8})
	if err != nil {
		t.Fatalf("New ring: %v", err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Fatalf("expected RingTracer, got %T", tr)
	}
}

func TestRingDumpFiles(t *testing.T) {
	ring := NewRingTracer(64, LevelDetail)
	multi := NewMultiTracer(LevelDetail, Nop, ring)
	if RingOf(multi) != ring || RingOf(Nop) != nil {
		t.Fatalf("RingOf must find the ring behind a multi tracer")
	}

	run := Begin(multi, ScopeDriver, "fmt", 0)
	for _, name := range []string{"a.json", "b.json"} {
		file := Begin(multi, ScopeFile, name, run.ID())
		Begin(multi, ScopePass, "parse", file.ID()).End("pass of " + name)
		file.End("")
	}
	run.End("")

	var buf bytes.Buffer
	if err := ring.DumpFiles(&buf, FormatText, "b.json"); err != nil {
		t.Fatalf("DumpFiles: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "b.json") || !strings.Contains(out, "pass of b.json") {
		t.Fatalf("b.json spans missing:\n%s", out)
	}
	if strings.Contains(out, "a.json") || strings.Contains(out, "fmt") {
		t.Fatalf("unrelated spans dumped:\n%s", out)
	}
}
