package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{"shift normal span left by 5", Span{File: 1, Start: 10, End: 20}, 5, Span{File: 1, Start: 5, End: 15}},
		{"shift by 0", Span{File: 1, Start: 10, End: 20}, 0, Span{File: 1, Start: 10, End: 20}},
		{"shift equals start", Span{File: 1, Start: 10, End: 20}, 10, Span{File: 1, Start: 0, End: 10}},
		{"shift larger than start returns original", Span{File: 1, Start: 10, End: 20}, 15, Span{File: 1, Start: 10, End: 20}},
		{"zero-length span", Span{File: 1, Start: 10, End: 10}, 3, Span{File: 1, Start: 7, End: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.ShiftLeft(tt.shift); got != tt.expected {
				t.Errorf("ShiftLeft() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestSpan_CoverContainsOverlaps(t *testing.T) {
	a := Span{File: 1, Start: 2, End: 5}
	b := Span{File: 1, Start: 4, End: 9}
	if got := a.Cover(b); got != (Span{File: 1, Start: 2, End: 9}) {
		t.Fatalf("Cover = %v", got)
	}
	if !a.Cover(b).Contains(a) || a.Contains(b) {
		t.Fatalf("Contains mismatch")
	}
	if !a.Overlaps(b) {
		t.Fatalf("expected overlap")
	}
	if a.Overlaps(Span{File: 1, Start: 5, End: 7}) {
		t.Fatalf("adjacent spans must not overlap")
	}
	if !a.Overlaps(Span{File: 1, Start: 3, End: 3}) {
		t.Fatalf("empty span inside must overlap")
	}
	if a.Overlaps(Span{File: 2, Start: 2, End: 5}) {
		t.Fatalf("different files must not overlap")
	}
}
