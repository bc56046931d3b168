package testkit

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"forma/internal/jsonc"
	"forma/internal/source"
)

func file(t *testing.T, name, src string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual(name, []byte(src)))
}

func TestCheckSpanInvariants(t *testing.T) {
	for _, src := range []string{
		`{"a": [1, 2, {"b": null}], "c": true}`,
		"// only a comment\n",
		"[1,, 2] tail",
		"",
	} {
		sf := file(t, "a.jsonc", src)
		res := jsonc.Parse(sf, jsonc.ForPath(sf.Path))
		if err := CheckSpanInvariants(res.Doc, sf); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestSignificant(t *testing.T) {
	sf := file(t, "a.jsonc", "{ \"n\": 1E+3, // c  \n \"m\": [true,] /* b */ }")
	want := []string{"{", `"n"`, ":", "1e3", "// c", `"m"`, ":", "[", "true", "]", "/* b */", "}"}
	if diff := cmp.Diff(want, Significant(sf)); diff != "" {
		t.Fatalf("significant pieces (-want +got):\n%s", diff)
	}
}

func TestCheckContentPreserved(t *testing.T) {
	before := file(t, "a.jsonc", `{"a":1,"b":[1,2,],}`)
	same := file(t, "b.jsonc", "{\n\t\"a\": 1,\n\t\"b\": [1, 2]\n}\n")
	if err := CheckContentPreserved(before, same); err != nil {
		t.Fatalf("unexpected difference: %v", err)
	}

	lost := file(t, "c.jsonc", `{"a":1}`)
	err := CheckContentPreserved(before, lost)
	if err == nil || !strings.Contains(err.Error(), "content differs") {
		t.Fatalf("want content difference, got %v", err)
	}

	shorter := file(t, "d.jsonc", `{"a":1,"b":[1,2]`)
	if err := CheckContentPreserved(before, shorter); err == nil || !strings.Contains(err.Error(), "lost 1 pieces") {
		t.Fatalf("want lost piece, got %v", err)
	}
}

func TestOverWidth(t *testing.T) {
	code := "[\n\t\"abcd\",\n\t1\n]\n"
	if got := OverWidth(code, 10, 2); len(got) != 0 {
		t.Fatalf("want no long lines, got %v", got)
	}
	if diff := cmp.Diff([]int{2}, OverWidth(code, 10, 4)); diff != "" {
		t.Fatalf("long lines (-want +got):\n%s", diff)
	}
}

func TestCheckIdempotent(t *testing.T) {
	upper := func(s string) (string, error) { return strings.ToUpper(s), nil }
	if err := CheckIdempotent("ABC", upper); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if err := CheckIdempotent("abc", upper); err == nil {
		t.Fatal("want error for changed output")
	}
	boom := errors.New("boom")
	fail := func(string) (string, error) { return "", boom }
	if err := CheckIdempotent("x", fail); !errors.Is(err, boom) {
		t.Fatalf("want wrapped error, got %v", err)
	}
}
