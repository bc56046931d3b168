package project

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"forma/internal/diag"
	"forma/internal/printer"
	"forma/internal/source"
)

// ConfigFileName is the conventional name of the configuration file.
const ConfigFileName = "forma.toml"

// ErrInvalidConfig wraps every configuration problem reported as an error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the decoded forma.toml. It is a value: copies never share state.
type Config struct {
	Formatter  FormatterConfig  `toml:"formatter"`
	JSON       JSONConfig       `toml:"json"`
	JavaScript JavaScriptConfig `toml:"javascript"`
}

// FormatterConfig holds the language-independent options.
type FormatterConfig struct {
	LineWidth   int                 `toml:"lineWidth"`
	IndentStyle printer.IndentStyle `toml:"indentStyle"`
	IndentWidth int                 `toml:"indentWidth"`
	LineEnding  printer.LineEnding  `toml:"lineEnding"`
	// FormatWithErrors formats files with syntax errors, keeping the broken
	// regions verbatim.
	FormatWithErrors bool `toml:"formatWithErrors"`
}

// JSONConfig holds the JSON and JSONC options.
type JSONConfig struct {
	Parser         JSONParserConfig `toml:"parser"`
	TrailingCommas TrailingCommas   `toml:"trailingCommas"`
	BracketSpacing bool             `toml:"bracketSpacing"`
	Expand         Expand           `toml:"expand"`
	// LineWidth overrides formatter.lineWidth for JSON files when non-zero.
	LineWidth int `toml:"lineWidth"`
}

// JSONParserConfig relaxes the grammar of plain .json files.
type JSONParserConfig struct {
	AllowComments       bool `toml:"allowComments"`
	AllowTrailingCommas bool `toml:"allowTrailingCommas"`
}

// JavaScriptConfig is the language option record of script front-ends. It
// is decoded and validated so that configuration files stay portable, and
// takes part in the cache digest.
type JavaScriptConfig struct {
	QuoteStyle        QuoteStyle        `toml:"quoteStyle"`
	QuoteProperties   QuoteProperties   `toml:"quoteProperties"`
	TrailingCommas    TrailingCommas    `toml:"trailingCommas"`
	Semicolons        Semicolons        `toml:"semicolons"`
	ArrowParentheses  ArrowParentheses  `toml:"arrowParentheses"`
	BracketSpacing    bool              `toml:"bracketSpacing"`
	BracketSameLine   bool              `toml:"bracketSameLine"`
	AttributePosition AttributePosition `toml:"attributePosition"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Formatter: FormatterConfig{
			LineWidth:   printer.DefaultLineWidth,
			IndentStyle: printer.IndentTab,
			IndentWidth: printer.DefaultIndentWidth,
			LineEnding:  printer.LineEndingLF,
		},
		JSON: JSONConfig{
			TrailingCommas: TrailingCommasNone,
			BracketSpacing: true,
			Expand:         ExpandAuto,
		},
		JavaScript: JavaScriptConfig{
			QuoteStyle:     QuoteDouble,
			TrailingCommas: TrailingCommasAll,
			BracketSpacing: true,
		},
	}
}

// Printer projects the layout options for JSON files.
func (c Config) Printer() printer.Options {
	width := c.Formatter.LineWidth
	if c.JSON.LineWidth != 0 {
		width = c.JSON.LineWidth
	}
	return printer.Options{
		LineWidth:   width,
		IndentStyle: c.Formatter.IndentStyle,
		IndentWidth: c.Formatter.IndentWidth,
		LineEnding:  c.Formatter.LineEnding,
	}
}

// Digest hashes the effective configuration. Equal configurations have
// equal digests regardless of how they were spelled in the file.
func (c Config) Digest() Digest {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		// все поля кодируемы; сюда не попадаем
		panic(fmt.Errorf("encode config: %w", err))
	}
	return sha256.Sum256(buf.Bytes())
}

// Overrides are command line values applied on top of the file.
type Overrides struct {
	LineWidth        *int
	IndentStyle      *printer.IndentStyle
	IndentWidth      *int
	LineEnding       *printer.LineEnding
	FormatWithErrors *bool
	TrailingCommas   *TrailingCommas
	BracketSpacing   *bool
	Expand           *Expand
}

// Apply returns c with the set overrides applied.
func (c Config) Apply(o Overrides) Config {
	if o.LineWidth != nil {
		c.Formatter.LineWidth = *o.LineWidth
		c.JSON.LineWidth = 0
	}
	if o.IndentStyle != nil {
		c.Formatter.IndentStyle = *o.IndentStyle
	}
	if o.IndentWidth != nil {
		c.Formatter.IndentWidth = *o.IndentWidth
	}
	if o.LineEnding != nil {
		c.Formatter.LineEnding = *o.LineEnding
	}
	if o.FormatWithErrors != nil {
		c.Formatter.FormatWithErrors = *o.FormatWithErrors
	}
	if o.TrailingCommas != nil {
		c.JSON.TrailingCommas = *o.TrailingCommas
	}
	if o.BracketSpacing != nil {
		c.JSON.BracketSpacing = *o.BracketSpacing
	}
	if o.Expand != nil {
		c.JSON.Expand = *o.Expand
	}
	return c
}

// Validate reports out-of-range values and returns ErrInvalidConfig when
// any was found. span locates the configuration file, if there is one.
func (c Config) Validate(r diag.Reporter, span source.Span) error {
	var bad int
	check := func(ok bool, code diag.Code, format string, args ...any) {
		if ok {
			return
		}
		bad++
		if r != nil {
			diag.ReportError(r, code, span, fmt.Sprintf(format, args...)).Emit()
		}
	}
	check(c.Formatter.LineWidth >= 1 && c.Formatter.LineWidth <= printer.MaxLineWidth,
		diag.CfgOutOfRange, "formatter.lineWidth must be between 1 and %d, got %d", printer.MaxLineWidth, c.Formatter.LineWidth)
	check(c.Formatter.IndentWidth >= 1 && c.Formatter.IndentWidth <= printer.MaxIndentWidth,
		diag.CfgOutOfRange, "formatter.indentWidth must be between 1 and %d, got %d", printer.MaxIndentWidth, c.Formatter.IndentWidth)
	check(c.JSON.LineWidth >= 0 && c.JSON.LineWidth <= printer.MaxLineWidth,
		diag.CfgOutOfRange, "json.lineWidth must be between 1 and %d, got %d", printer.MaxLineWidth, c.JSON.LineWidth)
	check(c.JSON.TrailingCommas != TrailingCommasES5,
		diag.CfgInvalidValue, "json.trailingCommas must be all or none, got %s", c.JSON.TrailingCommas)
	if bad > 0 {
		return fmt.Errorf("%w: %d problem(s)", ErrInvalidConfig, bad)
	}
	return nil
}
