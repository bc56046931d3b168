package format

import (
	"strings"
	"testing"
	"time"

	"forma/internal/project"
	"forma/internal/testkit"
)

// deepTimeout bounds one deep document; exceeding it means lowering or
// printing grows faster than the input.
const deepTimeout = 5 * time.Second

func TestLinesStayWithinWidth(t *testing.T) {
	var nums []string
	for i := range 30 {
		nums = append(nums, strings.Repeat("4", 1+i%4))
	}
	inputs := []string{
		"[" + strings.Join(nums, ", ") + "]",
		`{"a": [1, 22, 333, 4444, 55, 6, 77, 888, 9999, 0], "bb": {"c": 1, "dd": 22}, "e": [{"k": 1, "kk": 22}]}`,
		`[[1, 22, 333, 4444, 55, 6, 77, 888, 9999, 0]]`,
	}
	for _, commas := range []project.TrailingCommas{project.TrailingCommasNone, project.TrailingCommasAll} {
		for _, src := range inputs {
			for width := 13; width <= 60; width++ {
				got := formatString(t, "test.jsonc", src, func(c *project.Config) {
					c.Formatter.LineWidth = width
					c.JSON.TrailingCommas = commas
				})
				if over := testkit.OverWidth(got, width, project.Default().Formatter.IndentWidth); len(over) > 0 {
					t.Fatalf("width %d, commas %v: lines %v too wide in\n%s", width, commas, over, got)
				}
			}
		}
	}
}

func TestDeepNestingFormatsInLinearTime(t *testing.T) {
	const depth = 1000
	inputs := map[string]string{
		"arrays":  strings.Repeat("[", depth) + "1" + strings.Repeat("]", depth),
		"objects": strings.Repeat(`[{"a":`, depth/2) + "1" + strings.Repeat("}]", depth/2),
	}
	for name, src := range inputs {
		t.Run(name, func(t *testing.T) {
			done := make(chan string, 1)
			go func() {
				out, _, err := FormatFile(newFile("deep.json", src), Options{Config: project.Default()})
				if err != nil {
					done <- "error: " + err.Error()
					return
				}
				done <- out.Code
			}()
			select {
			case got := <-done:
				if strings.HasPrefix(got, "error: ") {
					t.Fatal(got)
				}
				if n := strings.Count(got, "["); n != strings.Count(src, "[") {
					t.Fatalf("want %d brackets got %d", strings.Count(src, "["), n)
				}
			case <-time.After(deepTimeout):
				t.Fatalf("formatting %d levels took longer than %v", depth, deepTimeout)
			}
		})
	}
}

func TestNestedHugStaysFlatWhenItFits(t *testing.T) {
	if got := formatString(t, "test.json", `[[[1, 2]]]`, nil); got != "[[[1, 2]]]\n" {
		t.Fatalf("want %q got %q", "[[[1, 2]]]\n", got)
	}
	want := "[[\n\t[1, 2, 3, 4]\n]]\n"
	if got := formatString(t, "test.json", `[[[1, 2, 3, 4]]]`, func(c *project.Config) {
		c.Formatter.LineWidth = 15
	}); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
}
