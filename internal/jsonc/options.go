package jsonc

import (
	"forma/internal/diag"
)

// DefaultMaxDepth bounds container nesting.
const DefaultMaxDepth = 1024

type Options struct {
	// AllowComments accepts `//` and `/* */` comments.
	AllowComments bool
	// AllowTrailingCommas accepts a comma after the last member or element.
	AllowTrailingCommas bool
	// MaxDepth is the deepest container nesting parsed structurally; deeper
	// values become Bogus. Zero means DefaultMaxDepth.
	MaxDepth int

	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// ForPath returns the options for a file name: `.jsonc` files accept
// comments and trailing commas, plain `.json` files accept neither.
func ForPath(path string) Options {
	if isJSONC(path) {
		return Options{AllowComments: true, AllowTrailingCommas: true}
	}
	return Options{}
}

func isJSONC(path string) bool {
	n := len(path)
	return n >= 6 && (path[n-6:] == ".jsonc" || path[n-6:] == ".JSONC")
}
