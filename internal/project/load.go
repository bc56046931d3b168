package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"forma/internal/diag"
	"forma/internal/source"
)

// Load reads and validates a configuration file. The file is added to
// files so diagnostics can point into it. Unknown keys are warnings;
// decode errors and invalid values are errors and yield ErrInvalidConfig.
func Load(path string, files *source.FileSet, r diag.Reporter) (Config, error) {
	id, err := files.Load(path)
	if err != nil {
		code := diag.IOReadFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = diag.CfgMissingConfig
		}
		diag.ReportError(r, code, source.Span{}, err.Error()).Emit()
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return Decode(files.Get(id), r)
}

// Decode parses configuration from an already loaded file on top of
// Default.
func Decode(file *source.File, r diag.Reporter) (Config, error) {
	cfg := Default()
	meta, err := toml.Decode(string(file.Content), &cfg)
	if err != nil {
		diag.ReportError(r, diag.CfgDecodeFailed, decodeErrorSpan(file, err), fmt.Sprintf("%s: %v", file.Path, err)).Emit()
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, file.Path, err)
	}
	for _, key := range meta.Undecoded() {
		diag.ReportWarning(r, diag.CfgUnknownKey, keySpan(file, key), fmt.Sprintf("unknown configuration key %q", key.String())).Emit()
	}
	if err := cfg.Validate(r, file.Span()); err != nil {
		return Config{}, fmt.Errorf("%s: %w", file.Path, err)
	}
	return cfg, nil
}

// decodeErrorSpan points at the line toml blamed, or at the whole file.
func decodeErrorSpan(file *source.File, err error) source.Span {
	var perr toml.ParseError
	if !errors.As(err, &perr) || perr.Position.Line <= 0 {
		return file.Span()
	}
	return lineSpan(file, perr.Position.Line)
}

func lineSpan(file *source.File, line int) source.Span {
	text := file.GetLine(uint32(line)) // #nosec G115 -- line comes from a parsed file
	lineStart := 0
	for i := 1; i < line; i++ {
		next := bytes.IndexByte(file.Content[lineStart:], '\n')
		if next < 0 {
			return file.Span()
		}
		lineStart += next + 1
	}
	return source.Span{
		File:  file.ID,
		Start: uint32(lineStart),             // #nosec G115
		End:   uint32(lineStart + len(text)), // #nosec G115
	}
}

// keySpan finds the last segment of key in the file; good enough to
// underline a typo.
func keySpan(file *source.File, key toml.Key) source.Span {
	if len(key) == 0 {
		return file.Span()
	}
	name := []byte(key[len(key)-1])
	at := bytes.Index(file.Content, name)
	if at < 0 {
		return file.Span()
	}
	return source.Span{File: file.ID, Start: uint32(at), End: uint32(at + len(name))} // #nosec G115
}
