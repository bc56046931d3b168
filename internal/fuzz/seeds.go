package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// builtinSeeds cover every construct the lowering knows about.
var builtinSeeds = []string{
	``,
	`null`,
	`{}`,
	`[]`,
	`{"a": 1, "b": [1, 2, 3], "c": {"d": null}}`,
	"{\n  \"a\": 1,\n\n  \"b\": true\n}\n",
	`[{"name": "x", "tags": ["a", "b"]}]`,
	`[[1, 2], [3, 4]]`,
	"// leading\n{\"a\": 1 // trailing\n}\n",
	"{\n  /* dangling */\n}\n",
	"[1, /* inline */ 2]\n",
	"{\n  // forma-ignore\n  \"keep\":   [ 1,2 ],\n  \"b\": 2\n}\n",
	`{"a": 1,}`,
	`[1, 2,]`,
	`{"a" 1}`,
	`[1,,2]`,
	`{"a": tru}`,
	`1E+5`,
	"\"日本語\"",
	`[[[[[[[[[[[[[[[[[[[[1]]]]]]]]]]]]]]]]]]]]`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все .json и .jsonc файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".json" && ext != ".jsonc" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
