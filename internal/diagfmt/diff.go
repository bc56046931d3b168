package diagfmt

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffContext is the number of unchanged lines shown around each hunk.
const DiffContext = 3

type lineOp struct {
	op   byte // ' ', '-', '+'
	text string
}

// Unified renders a line diff between the file on disk and its formatted
// form. Equal inputs produce an empty string.
func Unified(path, before, after string, useColor bool) string {
	if before == after {
		return ""
	}
	ops := diffLines(before, after)

	hdr := color.New(color.Bold)
	hunk := color.New(color.FgCyan)
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, c := range []*color.Color{hdr, hunk, removed, added} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	oldNo := make([]int, len(ops)+1)
	newNo := make([]int, len(ops)+1)
	for i, o := range ops {
		oldNo[i+1], newNo[i+1] = oldNo[i], newNo[i]
		if o.op != '+' {
			oldNo[i+1]++
		}
		if o.op != '-' {
			newNo[i+1]++
		}
	}

	var sb strings.Builder
	sb.WriteString(hdr.Sprint("--- a/"+path) + "\n")
	sb.WriteString(hdr.Sprint("+++ b/"+path) + "\n")
	for _, h := range hunks(ops, DiffContext) {
		oldCount := oldNo[h[1]] - oldNo[h[0]]
		newCount := newNo[h[1]] - newNo[h[0]]
		sb.WriteString(hunk.Sprintf("@@ -%s +%s @@", hunkRange(oldNo[h[0]], oldCount), hunkRange(newNo[h[0]], newCount)) + "\n")
		for _, o := range ops[h[0]:h[1]] {
			line := string(o.op) + strings.TrimSuffix(o.text, "\n")
			switch o.op {
			case '-':
				line = removed.Sprint(line)
			case '+':
				line = added.Sprint(line)
			}
			sb.WriteString(line + "\n")
			if !strings.HasSuffix(o.text, "\n") {
				sb.WriteString("\\ No newline at end of file\n")
			}
		}
	}
	return sb.String()
}

func hunkRange(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}

func diffLines(before, after string) []lineOp {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var ops []lineOp
	for _, d := range diffs {
		op := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = '-'
		case diffmatchpatch.DiffInsert:
			op = '+'
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				ops = append(ops, lineOp{op: op, text: line})
			}
		}
	}
	return ops
}

// hunks returns [start, end) op ranges; changes separated by more than
// 2*ctx equal lines go to separate hunks.
func hunks(ops []lineOp, ctx int) [][2]int {
	var out [][2]int
	for i := 0; i < len(ops); {
		if ops[i].op == ' ' {
			i++
			continue
		}
		start := max(i-ctx, 0)
		end := i + 1
		for j := i + 1; j < len(ops); j++ {
			if ops[j].op != ' ' {
				end = j + 1
				continue
			}
			if j-end+1 > 2*ctx {
				break
			}
		}
		stop := min(end+ctx, len(ops))
		out = append(out, [2]int{start, stop})
		i = stop
	}
	return out
}
